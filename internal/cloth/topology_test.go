package cloth

import (
	"errors"
	"math"
	"testing"
)

func particleCount(rows, cols int) int {
	return rows*cols + rows*(cols-1) + (rows-1)*cols + (rows-1)*(cols-1)
}

func TestBuildTopology_Counts(t *testing.T) {
	tests := []struct {
		rows, cols int
	}{
		{2, 2}, {4, 4}, {3, 7}, {20, 20},
	}

	for _, tt := range tests {
		m, err := BuildTopology(tt.rows, tt.cols, 20, PlanePlacement{})
		if err != nil {
			t.Fatalf("%dx%d: build failed: %v", tt.rows, tt.cols, err)
		}
		if got, want := len(m.Particles), particleCount(tt.rows, tt.cols); got != want {
			t.Errorf("%dx%d: expected %d particles, got %d", tt.rows, tt.cols, want, got)
		}
		if len(m.Lattice.RestArea) != tt.rows-1 || len(m.Lattice.RestArea[0]) != tt.cols-1 {
			t.Errorf("%dx%d: rest area table has wrong shape", tt.rows, tt.cols)
		}
	}
}

func TestBuildTopology_InvalidGrid(t *testing.T) {
	tests := []struct {
		name       string
		rows, cols int
		spacing    float64
		want       error
	}{
		{"one row", 1, 4, 20, ErrGridTooSmall},
		{"one col", 4, 1, 20, ErrGridTooSmall},
		{"zero spacing", 4, 4, 0, ErrInvalidSpacing},
		{"negative spacing", 4, 4, -1, ErrInvalidSpacing},
		{"nan spacing", 4, 4, math.NaN(), ErrInvalidSpacing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildTopology(tt.rows, tt.cols, tt.spacing, PlanePlacement{})
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestBuildTopology_PlanePinning(t *testing.T) {
	m, _ := BuildTopology(4, 5, 20, PlanePlacement{Pinning: PinTop})
	l := m.Lattice
	for y := 0; y < l.Rows; y++ {
		for x := 0; x < l.Cols; x++ {
			if got := m.Particles[l.Grid[y][x]].Pinned; got != (y == 0) {
				t.Errorf("top pinning: (%d,%d) pinned=%v", x, y, got)
			}
		}
	}

	m, _ = BuildTopology(4, 5, 20, PlanePlacement{Pinning: PinCorners})
	pinned := 0
	for _, p := range m.Particles {
		if p.Pinned {
			pinned++
		}
	}
	if pinned != 4 {
		t.Errorf("expected 4 pinned corners, got %d", pinned)
	}
	for _, idx := range []int{l.Grid[0][0], l.Grid[0][4], l.Grid[3][0], l.Grid[3][4]} {
		if !m.Particles[idx].Pinned {
			t.Errorf("corner %d not pinned", idx)
		}
	}
}

func TestBuildTopology_PlaneLayout(t *testing.T) {
	m, _ := BuildTopology(4, 4, 20, PlanePlacement{})
	first := m.Particles[m.Lattice.Grid[0][0]].Pos
	want := Vec3{-30 + PlaneShiftX, -30, 0}
	if first != want {
		t.Errorf("expected first particle at %v, got %v", want, first)
	}
	for _, p := range m.Particles {
		if p.Pos != p.Prev {
			t.Fatalf("particle starts with velocity: %v vs %v", p.Pos, p.Prev)
		}
		if p.Pos.Z != 0 {
			t.Fatalf("flat cloth particle off plane: %v", p.Pos)
		}
	}
}

func TestBuildTopology_Subdivision(t *testing.T) {
	m, _ := BuildTopology(3, 3, 20, PlanePlacement{})
	l := m.Lattice
	pos := func(i int) Vec3 { return m.Particles[i].Pos }

	h := pos(l.Horizontal[1][0])
	if want := pos(l.Grid[1][0]).Add(pos(l.Grid[1][1])).Scale(0.5); h != want {
		t.Errorf("horizontal midpoint: expected %v, got %v", want, h)
	}
	v := pos(l.Vertical[0][2])
	if want := pos(l.Grid[0][2]).Add(pos(l.Grid[1][2])).Scale(0.5); v != want {
		t.Errorf("vertical midpoint: expected %v, got %v", want, v)
	}
	c := pos(l.Centers[1][1])
	a, b, cc, d := m.cell(1, 1)
	if want := a.Add(b).Add(cc).Add(d).Scale(0.25); c != want {
		t.Errorf("centre: expected %v, got %v", want, c)
	}

	for y := range l.RestArea {
		for x, area := range l.RestArea[y] {
			if math.Abs(area-400) > 1e-9 {
				t.Errorf("cell (%d,%d): expected rest area 400, got %f", x, y, area)
			}
		}
	}
}

func TestBuildTopology_DrapedSphere(t *testing.T) {
	sp := DefaultSphere()
	m, err := BuildTopology(20, 20, 20, DrapedPlacement{Primitive: sp})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	c := m.Particles[m.Lattice.Center()]
	if !c.Pinned {
		t.Error("centre particle should be pinned")
	}
	if c.Pos != sp.Anchor() || c.Prev != sp.Anchor() {
		t.Errorf("expected centre at apex %v, got %v", sp.Anchor(), c.Pos)
	}

	pinned := 0
	for i, idx := range m.Lattice.Grid[0] {
		p := m.Particles[idx]
		if p.Pinned {
			pinned++
		}
		if p.Pos.Y != -sp.Radius {
			t.Errorf("lattice particle %d: expected y=%f, got %f", i, -sp.Radius, p.Pos.Y)
		}
	}
	if pinned != 0 {
		t.Errorf("expected no pinned particles on the edge row, got %d", pinned)
	}
}

func TestBuildTopology_DrapedCylinder(t *testing.T) {
	cyl := DefaultCylinder()
	m, _ := BuildTopology(5, 5, 20, DrapedPlacement{Primitive: cyl})
	c := m.Particles[m.Lattice.Center()]
	if c.Pos != (Vec3{0, cyl.TopY, 0}) || !c.Pinned {
		t.Errorf("expected pinned centre at cylinder top, got %+v", c)
	}
	corner := m.Particles[m.Lattice.Grid[4][4]].Pos
	if corner.Y != cyl.TopY || corner.Z != 40 {
		t.Errorf("expected rows to advance along Z at y=%f, got %v", cyl.TopY, corner)
	}
}
