package memory

import (
	"context"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/aretw0/raybrush/pkg/domain"
	"github.com/aretw0/raybrush/pkg/ports"
)

// Trail records the commands sent to a trail effect.
type Trail struct {
	id domain.EntityID

	mu        sync.Mutex
	position  r3.Vec
	positions *History[r3.Vec]
	emitting  bool
	stops     int
	plays     int
}

var _ ports.TrailEffect = (*Trail)(nil)

// NewTrail creates an emitting trail that remembers the last
// DefaultHistory positions.
func NewTrail(id domain.EntityID) *Trail {
	return &Trail{id: id, emitting: true, positions: NewHistory[r3.Vec](DefaultHistory)}
}

func (t *Trail) EntityID() domain.EntityID { return t.id }

func (t *Trail) SetPosition(p r3.Vec) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.position = p
	t.positions.Add(p)
}

func (t *Trail) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.emitting = false
	t.stops++
}

func (t *Trail) Play() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.emitting = true
	t.plays++
}

// Position returns the last position set.
func (t *Trail) Position() r3.Vec {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.position
}

// Positions returns the most recent positions set, oldest first.
func (t *Trail) Positions() []r3.Vec {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.positions.Items()
}

// Points is how many positions were ever set.
func (t *Trail) Points() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.positions.Total()
}

// Emitting reports whether the trail is playing.
func (t *Trail) Emitting() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.emitting
}

// Counts returns how many times Stop and Play were called.
func (t *Trail) Counts() (stops, plays int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stops, t.plays
}

// Beam records the state of the tracked-controller beam.
type Beam struct {
	id domain.EntityID

	mu        sync.Mutex
	transform domain.BeamTransform
	updates   int
	visible   bool
}

var _ ports.Beam = (*Beam)(nil)

// NewBeam creates a hidden beam.
func NewBeam(id domain.EntityID) *Beam {
	return &Beam{id: id}
}

func (b *Beam) EntityID() domain.EntityID { return b.id }

func (b *Beam) SetTransform(tr domain.BeamTransform) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.transform = tr
	b.updates++
}

func (b *Beam) SetVisible(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.visible = v
}

// Transform returns the last transform and how many updates were made.
func (b *Beam) Transform() (domain.BeamTransform, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.transform, b.updates
}

// Visible reports whether the beam is shown.
func (b *Beam) Visible() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.visible
}

// CameraMove is one call made on a Camera.
type CameraMove struct {
	FirstPerson bool                  `json:"first_person"`
	Spec        domain.TransitionSpec `json:"spec"`
}

// Camera records camera mode requests.
type Camera struct {
	mu    sync.Mutex
	moves *History[CameraMove]
}

var _ ports.CameraController = (*Camera)(nil)

func NewCamera() *Camera {
	return &Camera{moves: NewHistory[CameraMove](DefaultHistory)}
}

func (c *Camera) SetFirstPerson(_ context.Context, spec domain.TransitionSpec) {
	c.record(CameraMove{FirstPerson: true, Spec: spec})
}

func (c *Camera) SetThirdPerson(_ context.Context, spec domain.TransitionSpec) {
	c.record(CameraMove{FirstPerson: false, Spec: spec})
}

func (c *Camera) record(m CameraMove) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.moves.Add(m)
}

// Moves returns the most recent requests, oldest first.
func (c *Camera) Moves() []CameraMove {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.moves.Items()
}

// MoveCount is how many requests were ever made.
func (c *Camera) MoveCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.moves.Total()
}

// Tool is a settable pose source.
type Tool struct {
	mu   sync.Mutex
	pose domain.Pose
}

var _ ports.PoseSource = (*Tool)(nil)

func NewTool(pose domain.Pose) *Tool {
	return &Tool{pose: pose}
}

func (t *Tool) Pose() domain.Pose {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pose
}

// SetPose moves the tool.
func (t *Tool) SetPose(p domain.Pose) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pose = p
}
