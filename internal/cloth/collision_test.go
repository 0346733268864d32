package cloth

import (
	"math"
	"testing"
)

func TestSphereCollide_PushesToSurface(t *testing.T) {
	sp := Sphere{Radius: 100}
	ps := []Particle{newParticle(Vec3{0, 50, 0}, false)}
	sp.Collide(ps)

	p := ps[0].Pos
	if math.Abs(p.Length()-100) > 1e-9 {
		t.Errorf("expected distance 100, got %f", p.Length())
	}
	if p.X != 0 || p.Z != 0 || p.Y <= 0 {
		t.Errorf("expected particle on the +Y ray, got %v", p)
	}
	// prev blended halfway toward the new position
	if math.Abs(ps[0].Prev.Y-75) > 1e-9 {
		t.Errorf("expected prev y=75, got %f", ps[0].Prev.Y)
	}
}

func TestSphereCollide_Invariant(t *testing.T) {
	sp := Sphere{Center: Vec3{5, -3, 2}, Radius: 40}
	var ps []Particle
	for x := -50.0; x <= 50; x += 7 {
		for y := -50.0; y <= 50; y += 9 {
			for z := -50.0; z <= 50; z += 11 {
				ps = append(ps, newParticle(Vec3{x, y, z}, false))
			}
		}
	}
	ps = append(ps, newParticle(sp.Center, true))
	sp.Collide(ps)

	for i, p := range ps {
		if p.Pinned {
			if p.Pos != sp.Center {
				t.Errorf("pinned particle %d moved", i)
			}
			continue
		}
		if d := p.Pos.Dist(sp.Center); d < sp.Radius-1e-9 {
			t.Errorf("particle %d inside sphere: distance %f", i, d)
		}
	}
}

func TestSphereCollide_CentreGuard(t *testing.T) {
	sp := Sphere{Center: Vec3{1, 2, 3}, Radius: 10}
	ps := []Particle{newParticle(sp.Center, false)}
	sp.Collide(ps)

	if !ps[0].Pos.IsFinite() {
		t.Fatalf("particle at centre became non-finite: %v", ps[0].Pos)
	}
	if want := (Vec3{1, -8, 3}); ps[0].Pos != want {
		t.Errorf("expected particle pushed to apex %v, got %v", want, ps[0].Pos)
	}
}

func TestCylinderCollide(t *testing.T) {
	cyl := DefaultCylinder()
	tests := []struct {
		name string
		in   Vec3
		want Vec3
	}{
		{"inside", Vec3{10, 0, 0}, Vec3{100, 0, 0}},
		{"diagonal", Vec3{30, 100, 40}, Vec3{60, 100, 80}},
		{"above top", Vec3{10, -60, 0}, Vec3{10, -60, 0}},
		{"on top plane", Vec3{10, cyl.TopY, 0}, Vec3{10, cyl.TopY, 0}},
		{"below bottom", Vec3{10, 260, 0}, Vec3{10, 260, 0}},
		{"outside", Vec3{150, 0, 0}, Vec3{150, 0, 0}},
		{"on axis", Vec3{0, 10, 0}, Vec3{100, 10, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := []Particle{newParticle(tt.in, false)}
			cyl.Collide(ps)
			if ps[0].Pos.Dist(tt.want) > 1e-9 {
				t.Errorf("expected %v, got %v", tt.want, ps[0].Pos)
			}
			if ps[0].Prev.Y != tt.in.Y {
				t.Errorf("cylinder must not touch prev y")
			}
		})
	}
}

func TestCollideFloor(t *testing.T) {
	ps := []Particle{
		{Pos: Vec3{0, 200, 0}, Prev: Vec3{0, 190, 0}},
		{Pos: Vec3{0, 100, 0}, Prev: Vec3{0, 90, 0}},
		{Pos: Vec3{0, 300, 0}, Prev: Vec3{0, 300, 0}, Pinned: true},
	}
	CollideFloor(ps, 150)

	if ps[0].Pos.Y != 150 || ps[0].Prev.Y != 170 {
		t.Errorf("expected clamp to 150 with prev 170, got %f / %f", ps[0].Pos.Y, ps[0].Prev.Y)
	}
	if ps[1].Pos.Y != 100 {
		t.Errorf("particle above floor moved to %f", ps[1].Pos.Y)
	}
	if ps[2].Pos.Y != 300 {
		t.Errorf("pinned particle moved to %f", ps[2].Pos.Y)
	}
}

func TestCollideSelf(t *testing.T) {
	tests := []struct {
		name       string
		pin1, pin2 bool
		want1      float64
		want2      float64
	}{
		{"both free", false, false, -2.5, 7.5},
		{"first pinned", true, false, 0, 10},
		{"second pinned", false, true, -5, 5},
		{"both pinned", true, true, 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := []Particle{
				newParticle(Vec3{0, 0, 3}, tt.pin1),
				newParticle(Vec3{5, 0, -3}, tt.pin2),
			}
			CollideSelf(ps, 10)
			if math.Abs(ps[0].Pos.X-tt.want1) > 1e-12 || math.Abs(ps[1].Pos.X-tt.want2) > 1e-12 {
				t.Errorf("expected x %f,%f got %f,%f", tt.want1, tt.want2, ps[0].Pos.X, ps[1].Pos.X)
			}
			if ps[0].Pos.Z != 3 || ps[1].Pos.Z != -3 {
				t.Error("self collision must not move z")
			}
		})
	}
}

func TestCollideSelf_NeverWidensSeparatedPairs(t *testing.T) {
	ps := []Particle{
		newParticle(Vec3{0, 0, 0}, false),
		newParticle(Vec3{10, 0, 0}, false),
		newParticle(Vec3{0, 12, 0}, false),
		newParticle(Vec3{20, 12, 40}, false),
	}
	before := append([]Particle(nil), ps...)
	CollideSelf(ps, 10)

	for i := range ps {
		if ps[i] != before[i] {
			t.Errorf("particle %d moved although every planar gap is >= threshold", i)
		}
	}
}

func TestCollideSelf_CoincidentSkipped(t *testing.T) {
	ps := []Particle{
		newParticle(Vec3{1, 1, 0}, false),
		newParticle(Vec3{1, 1, 5}, false),
	}
	CollideSelf(ps, 10)
	if ps[0].Pos != (Vec3{1, 1, 0}) || ps[1].Pos != (Vec3{1, 1, 5}) {
		t.Errorf("coincident planar pair should be skipped, got %v %v", ps[0].Pos, ps[1].Pos)
	}
}

func TestResolveCollisions_PlaneSkipsPrimitives(t *testing.T) {
	ps := []Particle{newParticle(Vec3{0, 500, 0}, false)}
	ResolveCollisions(ps, 20, PlanePlacement{})
	if ps[0].Pos.Y != 500 {
		t.Errorf("plane mode should not clamp to the floor, got y=%f", ps[0].Pos.Y)
	}

	ResolveCollisions(ps, 20, DrapedPlacement{Primitive: DefaultSphere()})
	if ps[0].Pos.Y != DefaultFloorY {
		t.Errorf("draped mode should clamp to floor %f, got %f", DefaultFloorY, ps[0].Pos.Y)
	}
}
