package cloth

import (
	"math"

	"github.com/aquilax/go-perlin"
)

const (
	// WindFrequency converts the step counter into the wind phase.
	WindFrequency = 0.01

	noiseAlpha  = 2.0
	noiseBeta   = 2.0
	noiseOctave = 3
)

// Wind produces the per-step forcing. The base signal is a sine of the
// phase; turbulence adds Perlin noise on top of it.
type Wind struct {
	noise *perlin.Perlin
}

func NewWind(seed int64) *Wind {
	return &Wind{noise: perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctave, seed)}
}

// Force returns the wind displacement for the given step.
func (w *Wind) Force(params Params, step int64) Vec3 {
	phase := float64(step) * WindFrequency
	signal := math.Sin(phase)
	if turb := params.Effective(ParamTurbulence); turb != 0 && w != nil {
		signal += turb * w.noise.Noise1D(phase)
	}
	env := params.Effective(ParamWindEnvelope)

	axis := func(id ParamID) float64 {
		p := params.Get(id)
		if !p.Enabled {
			return id.Baseline()
		}
		return env * p.Value * signal
	}
	return Vec3{axis(ParamWindX), axis(ParamWindY), axis(ParamWindZ)}
}
