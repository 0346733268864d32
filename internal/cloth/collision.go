package cloth

import "math"

// CollisionFriction blends a corrected particle's previous position toward
// its new one, bleeding off post-contact velocity.
const CollisionFriction = 0.5

// SelfCollisionRatio scales spacing into the self-collision threshold.
const SelfCollisionRatio = 0.5

func applyFriction(pos, prev float64) float64 {
	return pos - CollisionFriction*(pos-prev)
}

// ResolveCollisions runs self collision, then the drape primitive and the
// floor when the placement is draped.
func ResolveCollisions(ps []Particle, spacing float64, placement Placement) {
	CollideSelf(ps, spacing*SelfCollisionRatio)
	d, ok := placement.(DrapedPlacement)
	if !ok || d.Primitive == nil {
		return
	}
	d.Primitive.Collide(ps)
	CollideFloor(ps, d.Primitive.FloorY())
}

// CollideSelf separates every pair whose planar (X, Y) distance is below
// threshold. Z is never adjusted. Pairs are visited in index order and
// each correction is visible to later pairs.
func CollideSelf(ps []Particle, threshold float64) {
	for i := 0; i < len(ps); i++ {
		for j := i + 1; j < len(ps); j++ {
			p1, p2 := &ps[i], &ps[j]
			if p1.Pinned && p2.Pinned {
				continue
			}
			dx := p2.Pos.X - p1.Pos.X
			dy := p2.Pos.Y - p1.Pos.Y
			d := math.Hypot(dx, dy)
			if d >= threshold || d == 0 {
				continue
			}
			overlap := threshold - d
			nx, ny := dx/d, dy/d
			switch {
			case !p1.Pinned && !p2.Pinned:
				half := overlap * 0.5
				p1.Pos.X -= nx * half
				p1.Pos.Y -= ny * half
				p2.Pos.X += nx * half
				p2.Pos.Y += ny * half
			case !p1.Pinned:
				p1.Pos.X -= nx * overlap
				p1.Pos.Y -= ny * overlap
			default:
				p2.Pos.X += nx * overlap
				p2.Pos.Y += ny * overlap
			}
		}
	}
}

// Collide pushes interior particles radially onto the sphere surface. A
// particle exactly at the centre is sent to the apex.
func (s Sphere) Collide(ps []Particle) {
	for i := range ps {
		p := &ps[i]
		if p.Pinned {
			continue
		}
		d := p.Pos.Sub(s.Center)
		dist := d.Length()
		if dist >= s.Radius {
			continue
		}
		n := Vec3{0, -1, 0}
		if dist >= MinDistance {
			n = d.Scale(1 / dist)
		}
		p.Pos = s.Center.Add(n.Scale(s.Radius))
		p.Prev = Vec3{
			applyFriction(p.Pos.X, p.Prev.X),
			applyFriction(p.Pos.Y, p.Prev.Y),
			applyFriction(p.Pos.Z, p.Prev.Z),
		}
	}
}

// Collide pushes particles between TopY and BottomY out to the cylinder
// wall in the X-Z plane. A particle on the axis is pushed along +X.
func (c Cylinder) Collide(ps []Particle) {
	bottom := c.BottomY()
	for i := range ps {
		p := &ps[i]
		if p.Pinned || p.Pos.Y <= c.TopY || p.Pos.Y >= bottom {
			continue
		}
		r := math.Hypot(p.Pos.X, p.Pos.Z)
		if r >= c.Radius {
			continue
		}
		nx, nz := 1.0, 0.0
		if r >= MinDistance {
			nx, nz = p.Pos.X/r, p.Pos.Z/r
		}
		p.Pos.X = nx * c.Radius
		p.Pos.Z = nz * c.Radius
		p.Prev.X = applyFriction(p.Pos.X, p.Prev.X)
		p.Prev.Z = applyFriction(p.Pos.Z, p.Prev.Z)
	}
}

// CollideFloor clamps particles below the floor (greater Y) back onto it.
func CollideFloor(ps []Particle, floorY float64) {
	for i := range ps {
		p := &ps[i]
		if p.Pinned || p.Pos.Y <= floorY {
			continue
		}
		p.Pos.Y = floorY
		p.Prev.Y = applyFriction(p.Pos.Y, p.Prev.Y)
	}
}
