package cloth

const (
	DefaultSphereRadius   = 100.0
	DefaultCylinderRadius = 100.0
	DefaultCylinderHeight = 300.0
	DefaultCylinderTopY   = -50.0
	// DefaultFloorY is used in plane mode and under the sphere.
	DefaultFloorY = 150.0
)

// Primitive is the solid a draped cloth rests on.
type Primitive interface {
	Form() Form
	// Collide pushes non-pinned particles out of the solid.
	Collide(ps []Particle)
	// Anchor is where the lattice centre is pinned.
	Anchor() Vec3
	// RestY is the height of the initial horizontal lattice.
	RestY() float64
	FloorY() float64
}

type Sphere struct {
	Center Vec3
	Radius float64
}

func DefaultSphere() Sphere {
	return Sphere{Radius: DefaultSphereRadius}
}

func (s Sphere) Form() Form      { return FormSphere }
func (s Sphere) RestY() float64  { return s.Center.Y - s.Radius }
func (s Sphere) FloorY() float64 { return DefaultFloorY }

func (s Sphere) Anchor() Vec3 {
	return Vec3{s.Center.X, s.Center.Y - s.Radius, s.Center.Z}
}

// Cylinder is a vertical cylinder on the Y axis spanning TopY..TopY+Height.
type Cylinder struct {
	Radius float64
	Height float64
	TopY   float64
}

func DefaultCylinder() Cylinder {
	return Cylinder{Radius: DefaultCylinderRadius, Height: DefaultCylinderHeight, TopY: DefaultCylinderTopY}
}

func (c Cylinder) Form() Form       { return FormCylinder }
func (c Cylinder) BottomY() float64 { return c.TopY + c.Height }
func (c Cylinder) RestY() float64   { return c.TopY }
func (c Cylinder) FloorY() float64  { return c.BottomY() }
func (c Cylinder) Anchor() Vec3     { return Vec3{0, c.TopY, 0} }
