// Package script describes timed input sequences that drive a stage:
// replay files, NDJSON streams on stdin and HTTP/MCP event payloads all
// decode to the same Step.
package script

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/raybrush/pkg/domain"
	"github.com/aretw0/raybrush/pkg/scene"
)

// Ray is a ray written with scene vectors.
type Ray struct {
	Origin    scene.Vec `yaml:"origin" json:"origin" mapstructure:"origin"`
	Direction scene.Vec `yaml:"direction" json:"direction" mapstructure:"direction"`
}

// Query converts the ray to a normalized query.
func (r Ray) Query() domain.RayQuery {
	return domain.NewRayQuery(r.Origin.R3(), r.Direction.R3())
}

// MaxRepeat is the largest Step.Repeat accepted by Validate.
const MaxRepeat = 10_000

// Step is one scripted action.
// Wait advances time before the event. A step with no event only waits.
// Repeat publishes the event that many extra times, Every apart.
type Step struct {
	Wait   time.Duration    `yaml:"wait,omitempty" json:"wait,omitempty" mapstructure:"wait"`
	Event  domain.EventName `yaml:"event,omitempty" json:"event,omitempty" mapstructure:"event"`
	Agent  *domain.Agent    `yaml:"agent,omitempty" json:"agent,omitempty" mapstructure:"agent"`
	Ray    *Ray             `yaml:"ray,omitempty" json:"ray,omitempty" mapstructure:"ray"`
	Pose   *scene.Pose      `yaml:"pose,omitempty" json:"pose,omitempty" mapstructure:"pose"`
	Repeat int              `yaml:"repeat,omitempty" json:"repeat,omitempty" mapstructure:"repeat"`
	Every  time.Duration    `yaml:"every,omitempty" json:"every,omitempty" mapstructure:"every"`
}

// Input builds the bus event for the step.
func (s Step) Input() domain.InputEvent {
	ev := domain.InputEvent{Name: s.Event, Agent: s.Agent}
	if s.Ray != nil {
		q := s.Ray.Query()
		ev.Ray = &q
	}
	return ev
}

// Validate checks the step can be dispatched.
func (s Step) Validate() error {
	if s.Wait < 0 || s.Every < 0 {
		return errors.New("durations must not be negative")
	}
	if s.Repeat < 0 || s.Repeat > MaxRepeat {
		return fmt.Errorf("repeat must be between 0 and %d, got %d", MaxRepeat, s.Repeat)
	}
	if s.Event == "" {
		if s.Pose == nil && s.Wait == 0 {
			return errors.New("step has no event, pose or wait")
		}
		return nil
	}
	if !s.Event.IsKnown() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownEvent, s.Event)
	}
	switch s.Event {
	case domain.EventGrabStart:
		if s.Agent == nil {
			return errors.New("grab-start needs an agent")
		}
	case domain.EventFocusedStarted, domain.EventFocusedMoved:
		if s.Ray == nil {
			return fmt.Errorf("%s needs a ray", s.Event)
		}
	}
	return nil
}

// Script is a named sequence of steps played against one scene.
type Script struct {
	Name  string `yaml:"name" json:"name" mapstructure:"name"`
	Scene string `yaml:"scene,omitempty" json:"scene,omitempty" mapstructure:"scene"`

	// Agent fills in grab-start steps that do not name one.
	Agent *domain.Agent `yaml:"agent,omitempty" json:"agent,omitempty" mapstructure:"agent"`

	Steps []Step `yaml:"steps" json:"steps" mapstructure:"steps"`
}

// Validate checks every step, after the default agent is applied.
func (s *Script) Validate() error {
	if len(s.Steps) == 0 {
		return errors.New("script has no steps")
	}
	var errs []error
	for i := range s.Steps {
		if s.Steps[i].Event == domain.EventGrabStart && s.Steps[i].Agent == nil && s.Agent != nil {
			agent := *s.Agent
			s.Steps[i].Agent = &agent
		}
		if err := s.Steps[i].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("step %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Duration is the total scripted time.
func (s *Script) Duration() time.Duration {
	var d time.Duration
	for _, st := range s.Steps {
		d += st.Wait + time.Duration(st.Repeat)*st.Every
	}
	return d
}

// Parse decodes a script. ext selects JSON for ".json" and YAML otherwise.
func Parse(data []byte, ext string) (*Script, error) {
	var raw map[string]any
	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse script json: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse script yaml: %w", err)
		}
	}
	return FromMap(raw)
}

// FromMap decodes and validates a script from a generic map.
func FromMap(raw map[string]any) (*Script, error) {
	var s Script
	if err := scene.Decode(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to decode script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads a script file. A missing name defaults to the file name.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	ext := filepath.Ext(path)
	s, err := Parse(data, ext)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), ext)
	}
	return s, nil
}

// DecodeStep decodes and validates one step from a generic map.
func DecodeStep(raw map[string]any) (Step, error) {
	var st Step
	if err := scene.Decode(raw, &st); err != nil {
		return Step{}, fmt.Errorf("failed to decode step: %w", err)
	}
	return st, st.Validate()
}

// LineError is a step that could not be decoded. Reading may continue after it.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// Decoder reads newline-delimited JSON steps. Blank lines are skipped.
type Decoder struct {
	scanner *bufio.Scanner
	line    int
}

// NewDecoder reads steps from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{scanner: bufio.NewScanner(r)}
}

// Next returns the next step, or io.EOF when the input is exhausted.
func (d *Decoder) Next() (Step, error) {
	for d.scanner.Scan() {
		d.line++
		text := strings.TrimSpace(d.scanner.Text())
		if text == "" {
			continue
		}
		var raw map[string]any
		if err := json.Unmarshal([]byte(text), &raw); err != nil {
			return Step{}, &LineError{Line: d.line, Err: err}
		}
		st, err := DecodeStep(raw)
		if err != nil {
			return Step{}, &LineError{Line: d.line, Err: err}
		}
		return st, nil
	}
	if err := d.scanner.Err(); err != nil {
		return Step{}, err
	}
	return Step{}, io.EOF
}
