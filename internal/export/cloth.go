package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/fabricsim/internal/cloth"
)

type Shading int

const (
	ShadeWire Shading = iota
	ShadeStructure
	ShadeStress
)

func (s Shading) String() string {
	switch s {
	case ShadeStructure:
		return "structure"
	case ShadeStress:
		return "stress"
	default:
		return "wire"
	}
}

func ParseShading(name string) (Shading, error) {
	for _, s := range []Shading{ShadeWire, ShadeStructure, ShadeStress} {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("shading %q: %w", name, cloth.ErrUnknownMode)
}

var categoryStroke = map[cloth.Category]string{
	cloth.Structural: "#2ecc71",
	cloth.Shear:      "#f1c40f",
	cloth.Bending:    "#3498db",
}

const (
	wireStroke = "#dddddd"
	nodeFill   = "#e74c3c"
	solidFill  = "#333344"
)

// ClothToSVG draws the simulation's current state through proj. proj
// must map into a width x height viewport.
func ClothToSVG(s *cloth.Simulation, proj cloth.Projector, width, height int, shading Shading) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	if prim := s.Primitive(); prim != nil {
		writePrimitive(&sb, prim, proj)
	}

	ps := s.Particles()
	switch shading {
	case ShadeStress:
		writeStress(&sb, s, proj)
		writeEdges(&sb, ps, s.Constraints(), proj, func(c cloth.Category) string {
			if c == cloth.Structural {
				return wireStroke
			}
			return ""
		})
	case ShadeStructure:
		writeEdges(&sb, ps, s.Constraints(), proj, func(c cloth.Category) string { return categoryStroke[c] })
		sb.WriteString(fmt.Sprintf("<g fill=%q>\n", nodeFill))
		for _, row := range s.Lattice().Grid {
			for _, i := range row {
				x, y := proj.Project(ps[i].Pos)
				sb.WriteString(fmt.Sprintf("<circle cx=\"%.1f\" cy=\"%.1f\" r=\"2\"/>\n", x, y))
			}
		}
		sb.WriteString("</g>\n")
	default:
		writeEdges(&sb, ps, s.Constraints(), proj, func(c cloth.Category) string {
			if c == cloth.Structural {
				return wireStroke
			}
			return ""
		})
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// writeEdges groups edges by stroke; an empty stroke skips the category.
func writeEdges(sb *strings.Builder, ps []cloth.Particle, cs []cloth.Constraint, proj cloth.Projector, stroke func(cloth.Category) string) {
	for _, cat := range []cloth.Category{cloth.Bending, cloth.Shear, cloth.Structural} {
		color := stroke(cat)
		if color == "" {
			continue
		}
		var d strings.Builder
		for _, c := range cs {
			if c.Category != cat {
				continue
			}
			x1, y1 := proj.Project(ps[c.A].Pos)
			x2, y2 := proj.Project(ps[c.B].Pos)
			d.WriteString(fmt.Sprintf("M%.1f,%.1f L%.1f,%.1f ", x1, y1, x2, y2))
		}
		if d.Len() == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("<path class=%q fill=\"none\" stroke=%q stroke-width=\"1\" d=%q/>\n",
			cat, color, strings.TrimSpace(d.String())))
	}
}

// writeStress fills each cell red when stretched and blue when
// compressed, with opacity from the stress magnitude.
func writeStress(sb *strings.Builder, s *cloth.Simulation, proj cloth.Projector) {
	ps := s.Particles()
	grid := s.Lattice().Grid
	sb.WriteString("<g class=\"stress\">\n")
	for y, row := range s.Stress() {
		for x, v := range row {
			color := "#e74c3c"
			if v < 0 {
				color = "#3498db"
			}
			corners := []int{grid[y][x], grid[y][x+1], grid[y+1][x+1], grid[y+1][x]}
			pts := make([]string, len(corners))
			for i, idx := range corners {
				px, py := proj.Project(ps[idx].Pos)
				pts[i] = fmt.Sprintf("%.1f,%.1f", px, py)
			}
			sb.WriteString(fmt.Sprintf("<polygon points=%q fill=%q fill-opacity=\"%.3f\"/>\n",
				strings.Join(pts, " "), color, 0.15+0.85*math.Abs(v)))
		}
	}
	sb.WriteString("</g>\n")
}

func writePrimitive(sb *strings.Builder, prim cloth.Primitive, proj cloth.Projector) {
	switch p := prim.(type) {
	case cloth.Sphere:
		cx, cy := proj.Project(p.Center)
		ex, ey := proj.Project(p.Center.Add(cloth.Vec3{X: p.Radius}))
		r := math.Hypot(ex-cx, ey-cy)
		sb.WriteString(fmt.Sprintf("<circle class=\"sphere\" cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=%q/>\n", cx, cy, r, solidFill))
	case cloth.Cylinder:
		corners := []cloth.Vec3{
			{X: -p.Radius, Y: p.TopY}, {X: p.Radius, Y: p.TopY},
			{X: p.Radius, Y: p.BottomY()}, {X: -p.Radius, Y: p.BottomY()},
		}
		pts := make([]string, len(corners))
		for i, c := range corners {
			x, y := proj.Project(c)
			pts[i] = fmt.Sprintf("%.1f,%.1f", x, y)
		}
		sb.WriteString(fmt.Sprintf("<polygon class=\"cylinder\" points=%q fill=%q/>\n", strings.Join(pts, " "), solidFill))
	}
}
