package viz

import (
	"math"

	"github.com/san-kum/fabricsim/internal/cloth"
)

const (
	fieldOfView = math.Pi / 3
	minZoom     = 0.2
	maxZoom     = 5.0
	zoomFactor  = 1.2
)

var _ cloth.Projector = (*Camera)(nil)

// Camera is a perspective camera on the +Z axis looking at the origin,
// with the scene rotated about X then Y. Screen coordinates are canvas
// sub-pixels with +Y down, matching world space.
type Camera struct {
	Width, Height float64
	// Scale maps world units to sub-pixels at zoom 1.
	Scale      float64
	RotX, RotY float64
	Zoom       float64
}

func NewCamera(width, height int, scale float64) *Camera {
	return &Camera{Width: float64(width), Height: float64(height), Scale: scale, Zoom: 1}
}

// FitCamera scales the camera so a world extent spans most of the canvas.
func FitCamera(width, height int, extent float64) *Camera {
	minDim := math.Min(float64(width), float64(height))
	if extent <= 0 {
		extent = 1
	}
	return NewCamera(width, height, 0.9*minDim/extent)
}

func (c *Camera) ZoomIn()  { c.Zoom = zoomed(c.Zoom, zoomFactor) }
func (c *Camera) ZoomOut() { c.Zoom = zoomed(c.Zoom, 1/zoomFactor) }

// zoomed scales z by f, clamped to [minZoom, maxZoom].
func zoomed(z, f float64) float64 {
	return math.Max(minZoom, math.Min(maxZoom, z*f))
}

// ResetRotation returns the camera to the front view.
func (c *Camera) ResetRotation() { c.RotX, c.RotY = 0, 0 }

// RotatePoint rotates a point around the camera's axes.
func (c *Camera) RotatePoint(p cloth.Vec3) cloth.Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	return p
}

// InverseRotatePoint undoes RotatePoint.
func (c *Camera) InverseRotatePoint(p cloth.Vec3) cloth.Vec3 {
	cy, sy := math.Cos(-c.RotY), math.Sin(-c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cx, sx := math.Cos(-c.RotX), math.Sin(-c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	return p
}

func (c *Camera) pixelScale() float64 { return c.Scale * c.Zoom }

// eyeDistance is in world units so that the vertical field of view spans
// the canvas height.
func (c *Camera) eyeDistance() float64 {
	return (c.Height / 2 / c.pixelScale()) / math.Tan(fieldOfView/2)
}

func (c *Camera) factor(z float64) float64 {
	d := c.eyeDistance()
	return (d + z) / d
}

// Project maps a world point to sub-pixel screen coordinates.
func (c *Camera) Project(p cloth.Vec3) (float64, float64) {
	r := c.RotatePoint(p)
	f := c.factor(r.Z)
	if math.Abs(f) < cloth.MinDistance {
		return c.Width / 2, c.Height / 2
	}
	s := c.pixelScale()
	return r.X/f*s + c.Width/2, r.Y/f*s + c.Height/2
}

// Unproject returns the world point under (sx, sy) at the view depth of ref.
func (c *Camera) Unproject(sx, sy float64, ref cloth.Vec3) cloth.Vec3 {
	r := c.RotatePoint(ref)
	f := c.factor(r.Z)
	s := c.pixelScale()
	view := cloth.Vec3{X: (sx - c.Width/2) / s * f, Y: (sy - c.Height/2) / s * f, Z: r.Z}
	return c.InverseRotatePoint(view)
}

// ProjectInt rounds Project for drawing. Depth is the rotated Z; the
// point is visible when it lands on the canvas in front of the eye.
func (c *Camera) ProjectInt(p cloth.Vec3) (int, int, float64, bool) {
	r := c.RotatePoint(p)
	if c.factor(r.Z) <= 0 {
		return 0, 0, r.Z, false
	}
	fx, fy := c.Project(p)
	x, y := int(math.Round(fx)), int(math.Round(fy))
	return x, y, r.Z, x >= 0 && float64(x) < c.Width && y >= 0 && float64(y) < c.Height
}
