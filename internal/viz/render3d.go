package viz

import (
	"math"
	"sort"

	"github.com/san-kum/fabricsim/internal/cloth"
)

type Edge struct {
	Start, End cloth.Vec3
	Category   cloth.Category
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe { return &Wireframe{Edges: make([]Edge, 0)} }
func (w *Wireframe) AddEdge(s, e cloth.Vec3, c cloth.Category) {
	w.Edges = append(w.Edges, Edge{s, e, c})
}

type ProjectedEdge struct {
	X1, Y1, X2, Y2 int
	Depth          float64
}

// Render3D draws the wireframe to the canvas far to near. Edges with
// either end off screen are still drawn; the canvas clips.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	proj := make([]ProjectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.ProjectInt(e.Start)
		x2, y2, d2, v2 := cam.ProjectInt(e.End)
		if v1 || v2 {
			proj = append(proj, ProjectedEdge{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].Depth > proj[j].Depth })
	for _, e := range proj {
		if e.X1 == e.X2 && e.Y1 == e.Y2 {
			c.Set(e.X1, e.Y1)
		} else {
			c.DrawLine(e.X1, e.Y1, e.X2, e.Y2)
		}
	}
}

// ClothWireframe builds one edge per constraint in the given categories.
func ClothWireframe(ps []cloth.Particle, cs []cloth.Constraint, show map[cloth.Category]bool) *Wireframe {
	w := NewWireframe()
	for _, c := range cs {
		if show != nil && !show[c.Category] {
			continue
		}
		w.AddEdge(ps[c.A].Pos, ps[c.B].Pos, c.Category)
	}
	return w
}

// PrimitiveWireframe outlines a drape primitive with rings of the given
// segment count.
func PrimitiveWireframe(p cloth.Primitive, segments int) *Wireframe {
	w := NewWireframe()
	if segments < 3 {
		segments = 3
	}
	switch prim := p.(type) {
	case cloth.Sphere:
		c, r := prim.Center, prim.Radius
		addRing(w, segments, func(a float64) cloth.Vec3 {
			return c.Add(cloth.Vec3{X: r * math.Cos(a), Z: r * math.Sin(a)})
		})
		addRing(w, segments, func(a float64) cloth.Vec3 {
			return c.Add(cloth.Vec3{X: r * math.Cos(a), Y: r * math.Sin(a)})
		})
		addRing(w, segments, func(a float64) cloth.Vec3 {
			return c.Add(cloth.Vec3{Y: r * math.Cos(a), Z: r * math.Sin(a)})
		})
	case cloth.Cylinder:
		r, top, bottom := prim.Radius, prim.TopY, prim.BottomY()
		for _, y := range []float64{top, bottom} {
			addRing(w, segments, func(a float64) cloth.Vec3 {
				return cloth.Vec3{X: r * math.Cos(a), Y: y, Z: r * math.Sin(a)}
			})
		}
		for i := 0; i < 4; i++ {
			a := float64(i) * math.Pi / 2
			x, z := r*math.Cos(a), r*math.Sin(a)
			w.AddEdge(cloth.Vec3{X: x, Y: top, Z: z}, cloth.Vec3{X: x, Y: bottom, Z: z}, cloth.Structural)
		}
	}
	return w
}

func addRing(w *Wireframe, n int, at func(a float64) cloth.Vec3) {
	prev := at(0)
	for i := 1; i <= n; i++ {
		next := at(2 * math.Pi * float64(i) / float64(n))
		w.AddEdge(prev, next, cloth.Structural)
		prev = next
	}
}

// FloorWireframe is a square grid of the given half-size at height y.
func FloorWireframe(y, half float64, lines int) *Wireframe {
	w := NewWireframe()
	if lines < 2 {
		lines = 2
	}
	for i := 0; i < lines; i++ {
		t := -half + 2*half*float64(i)/float64(lines-1)
		w.AddEdge(cloth.Vec3{X: -half, Y: y, Z: t}, cloth.Vec3{X: half, Y: y, Z: t}, cloth.Structural)
		w.AddEdge(cloth.Vec3{X: t, Y: y, Z: -half}, cloth.Vec3{X: t, Y: y, Z: half}, cloth.Structural)
	}
	return w
}
