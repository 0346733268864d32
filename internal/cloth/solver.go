package cloth

// MinDistance is the separation below which a constraint has no
// defined direction and is skipped for the pass.
const MinDistance = 1e-9

// Relax runs iterations Gauss-Seidel passes over cs in order. Corrections
// made by one constraint are visible to the next within the same pass.
func Relax(ps []Particle, cs []Constraint, iterations int) {
	for it := 0; it < iterations; it++ {
		for _, c := range cs {
			p1, p2 := &ps[c.A], &ps[c.B]
			delta := p2.Pos.Sub(p1.Pos)
			dist := delta.Length()
			if dist < MinDistance {
				continue
			}
			diff := (dist - c.RestLength) / dist
			offset := delta.Scale(0.5 * diff)
			if !p1.Pinned {
				p1.Pos = p1.Pos.Add(offset)
			}
			if !p2.Pinned {
				p2.Pos = p2.Pos.Sub(offset)
			}
		}
	}
}
