package memory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/aretw0/raybrush/pkg/adapters/memory"
)

func TestHistory_KeepsMostRecent(t *testing.T) {
	h := memory.NewHistory[int](3)
	assert.Empty(t, h.Items())

	for i := 1; i <= 7; i++ {
		h.Add(i)
	}
	assert.Equal(t, []int{5, 6, 7}, h.Items())
	assert.Equal(t, 7, h.Total())
}

func TestTrail_BoundedPositions(t *testing.T) {
	trail := memory.NewTrail("trail")
	n := memory.DefaultHistory*3 + 5
	for i := 0; i < n; i++ {
		trail.SetPosition(r3.Vec{X: float64(i)})
	}

	positions := trail.Positions()
	assert.Len(t, positions, memory.DefaultHistory)
	assert.Equal(t, float64(n-1), positions[len(positions)-1].X)
	assert.Equal(t, float64(n-memory.DefaultHistory), positions[0].X)
	assert.Equal(t, n, trail.Points())
	assert.Equal(t, float64(n-1), trail.Position().X)
}
