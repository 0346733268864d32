package cloth

// Integrate advances every free particle one Verlet step. Pinned and
// driven particles are left untouched.
func Integrate(ps []Particle, params Params, step int64, wind *Wind) {
	damping := params.Effective(ParamDamping)
	fall := params.Effective(ParamGravity) * params.Effective(ParamWeight)
	force := wind.Force(params, step)
	force.Y += fall

	for i := range ps {
		p := &ps[i]
		if p.Pinned || p.Driven {
			continue
		}
		vel := p.Pos.Sub(p.Prev).Scale(damping)
		p.Prev = p.Pos
		p.Pos = p.Pos.Add(vel).Add(force)
	}
}
