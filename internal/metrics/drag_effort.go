package metrics

import (
	"github.com/san-kum/fabricsim/internal/cloth"
	"github.com/san-kum/fabricsim/internal/sim"
)

var _ sim.Metric = (*DragEffort)(nil)

// DragEffort averages the per-step displacement of pointer-driven
// particles over the steps that had one.
type DragEffort struct {
	name    string
	sum     float64
	samples int
}

func NewDragEffort() *DragEffort {
	return &DragEffort{
		name: "drag_effort",
	}
}

func (d *DragEffort) Name() string {
	return d.name
}

func (d *DragEffort) Observe(c *cloth.Simulation) {
	driven := false
	for _, p := range c.Particles() {
		if p.Driven {
			d.sum += p.Pos.Dist(p.Prev)
			driven = true
		}
	}
	if driven {
		d.samples++
	}
}

func (d *DragEffort) Value() float64 {
	if d.samples == 0 {
		return 0
	}
	return d.sum / float64(d.samples)
}

func (d *DragEffort) Reset() {
	d.sum = 0
	d.samples = 0
}
