package cloth_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/fabricsim/internal/cloth"
)

func newSim(mut func(*cloth.Settings)) *cloth.Simulation {
	cfg := cloth.DefaultSettings()
	cfg.Rows, cfg.Cols = 6, 6
	if mut != nil {
		mut(&cfg)
	}
	s, err := cloth.New(cfg)
	Expect(err).NotTo(HaveOccurred())
	return s
}

func pinnedPositions(s *cloth.Simulation) map[int]cloth.Vec3 {
	out := map[int]cloth.Vec3{}
	for i, p := range s.Particles() {
		if p.Pinned {
			out[i] = p.Pos
		}
	}
	return out
}

var _ = Describe("Simulation", func() {
	Describe("New", func() {
		It("rejects a grid smaller than 2x2", func() {
			cfg := cloth.DefaultSettings()
			cfg.Rows = 1
			_, err := cloth.New(cfg)
			Expect(errors.Is(err, cloth.ErrGridTooSmall)).To(BeTrue())
		})

		It("accepts configured iterations", func() {
			cfg := cloth.DefaultSettings()
			Expect(cfg.Params.Set(cloth.ParamIterations, 5, true)).To(Succeed())
			s, err := cloth.New(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Params().Iterations()).To(Equal(5))
		})

		It("starts at step zero and running", func() {
			s := newSim(nil)
			Expect(s.StepIndex()).To(BeZero())
			Expect(s.Running()).To(BeTrue())
			Expect(s.Primitive()).To(BeNil())
		})
	})

	Describe("placement changes", func() {
		It("rebuilds the cloth when switching to draped", func() {
			s := newSim(nil)
			s.SetPlacementMode(cloth.PlacementDraped)

			Expect(s.PlacementMode()).To(Equal(cloth.PlacementDraped))
			c := s.Lattice().Center()
			Expect(s.Particles()[c].Pinned).To(BeTrue())
			Expect(s.Particles()[c].Pos).To(Equal(cloth.Vec3{X: 0, Y: -100, Z: 0}))
			floor, active := s.FloorY()
			Expect(active).To(BeTrue())
			Expect(floor).To(Equal(cloth.DefaultFloorY))
		})

		It("stores the drape form without rebuilding a flat cloth", func() {
			s := newSim(func(c *cloth.Settings) {
				Expect(c.Params.Set(cloth.ParamGravity, 0.4, true)).To(Succeed())
			})
			before := append([]cloth.Particle(nil), s.Particles()...)
			s.Advance(3)
			moved := append([]cloth.Particle(nil), s.Particles()...)

			s.SetDrapeForm(cloth.FormCylinder)
			Expect(s.DrapeForm()).To(Equal(cloth.FormCylinder))
			Expect(s.Particles()).To(Equal(moved))
			Expect(s.Particles()).NotTo(Equal(before))
		})

		It("stores pinning without rebuilding a draped cloth", func() {
			s := newSim(func(c *cloth.Settings) { c.Placement = cloth.PlacementDraped })
			s.Advance(2)
			moved := append([]cloth.Particle(nil), s.Particles()...)

			s.SetPinningMode(cloth.PinCorners)
			Expect(s.PinningMode()).To(Equal(cloth.PinCorners))
			Expect(s.Particles()).To(Equal(moved))
		})

		It("pins four corners when the pinning changes on a flat cloth", func() {
			s := newSim(nil)
			s.SetPinningMode(cloth.PinCorners)
			Expect(pinnedPositions(s)).To(HaveLen(4))
		})

		It("uses the cylinder floor under a draped cylinder", func() {
			s := newSim(func(c *cloth.Settings) {
				c.Placement = cloth.PlacementDraped
				c.Form = cloth.FormCylinder
			})
			floor, _ := s.FloorY()
			Expect(floor).To(Equal(250.0))
			Expect(s.Primitive().Form()).To(Equal(cloth.FormCylinder))
		})
	})

	Describe("SetGrid", func() {
		It("keeps the old cloth on invalid sizes", func() {
			s := newSim(nil)
			before := len(s.Particles())
			err := s.SetGrid(1, 10, 20)
			Expect(errors.Is(err, cloth.ErrGridTooSmall)).To(BeTrue())
			Expect(s.Particles()).To(HaveLen(before))
			Expect(s.Rows()).To(Equal(6))

			err = s.SetGrid(4, 4, -1)
			Expect(errors.Is(err, cloth.ErrInvalidSpacing)).To(BeTrue())
			Expect(s.Spacing()).To(Equal(cloth.DefaultSpacing))
		})

		It("rebuilds with the new size", func() {
			s := newSim(nil)
			Expect(s.SetGrid(3, 5, 10)).To(Succeed())
			Expect(s.Rows()).To(Equal(3))
			Expect(s.Cols()).To(Equal(5))
			// lattice + horizontal + vertical + centres
			Expect(s.Particles()).To(HaveLen(15 + 12 + 10 + 8))
		})
	})

	Describe("SetParameter", func() {
		It("rebuilds constraints without touching particles on a stiffness change", func() {
			s := newSim(nil)
			s.Advance(5)
			moved := append([]cloth.Particle(nil), s.Particles()...)
			n := len(s.Constraints())

			Expect(s.SetParameter(cloth.ParamStretch, 1.5, true)).To(Succeed())
			Expect(s.Particles()).To(Equal(moved))
			Expect(s.Constraints()).To(HaveLen(n))

			g := s.Lattice().Grid
			for _, c := range s.Constraints() {
				if c.A == g[0][0] && c.B == g[0][1] && c.Category == cloth.Structural {
					Expect(c.RestLength).To(BeNumerically("~", 30, 1e-9))
				}
			}
		})

		It("rejects unknown names and bad values", func() {
			s := newSim(nil)
			err := s.SetParameterByName("viscosity", 1, true)
			Expect(errors.Is(err, cloth.ErrUnknownParameter)).To(BeTrue())

			err = s.SetParameterByName("iterations", 0, true)
			Expect(errors.Is(err, cloth.ErrParameterBounds)).To(BeTrue())
			Expect(s.Params().Iterations()).To(Equal(1))
		})
	})

	Describe("stepping", func() {
		It("does nothing while paused", func() {
			s := newSim(func(c *cloth.Settings) {
				Expect(c.Params.Set(cloth.ParamGravity, 0.4, true)).To(Succeed())
			})
			s.Pause()
			before := append([]cloth.Particle(nil), s.Particles()...)
			s.Advance(10)
			Expect(s.StepIndex()).To(BeZero())
			Expect(s.Particles()).To(Equal(before))

			Expect(s.Toggle()).To(BeTrue())
			s.Step()
			Expect(s.StepIndex()).To(Equal(int64(1)))
		})

		It("leaves a cloth at rest when every parameter is at its baseline", func() {
			for _, spacing := range []float64{cloth.DefaultSpacing, 0.3} {
				cfg := cloth.DefaultSettings()
				cfg.Spacing = spacing
				s, err := cloth.New(cfg)
				Expect(err).NotTo(HaveOccurred())
				rest := append([]cloth.Particle(nil), s.Particles()...)

				s.Advance(300)

				Expect(s.StepIndex()).To(Equal(int64(300)))
				for i, p := range s.Particles() {
					Expect(p.Pos.Dist(rest[i].Pos)).To(BeNumerically("<", 1e-9), "spacing %v particle %d", spacing, i)
				}
			}
		})

		It("never moves pinned particles", func() {
			s := newSim(func(c *cloth.Settings) {
				for id, v := range map[cloth.ParamID]float64{
					cloth.ParamGravity:    0.4,
					cloth.ParamWindX:      0.2,
					cloth.ParamWindZ:      0.1,
					cloth.ParamIterations: 5,
					cloth.ParamDamping:    0.98,
				} {
					Expect(c.Params.Set(id, v, true)).To(Succeed())
				}
			})
			pinned := pinnedPositions(s)
			Expect(pinned).To(HaveLen(6))
			s.Advance(100)
			for i, pos := range pinned {
				Expect(s.Particles()[i].Pos).To(Equal(pos))
			}
		})

		It("keeps the draped cloth outside the sphere", func() {
			s := newSim(func(c *cloth.Settings) {
				c.Placement = cloth.PlacementDraped
				Expect(c.Params.Set(cloth.ParamGravity, 0.4, true)).To(Succeed())
				Expect(c.Params.Set(cloth.ParamIterations, 5, true)).To(Succeed())
			})
			s.Advance(60)
			sp := cloth.DefaultSphere()
			for _, p := range s.Particles() {
				Expect(p.Pos.IsFinite()).To(BeTrue())
				Expect(p.Pos.Dist(sp.Center)).To(BeNumerically(">=", sp.Radius-1e-6))
				Expect(p.Pos.Y).To(BeNumerically("<=", cloth.DefaultFloorY))
			}
		})

		It("resets to the rest layout", func() {
			s := newSim(func(c *cloth.Settings) {
				Expect(c.Params.Set(cloth.ParamGravity, 0.4, true)).To(Succeed())
			})
			rest := append([]cloth.Particle(nil), s.Particles()...)
			s.Advance(10)
			s.Reset()
			Expect(s.Particles()).To(Equal(rest))
			Expect(s.StepIndex()).To(Equal(int64(10)))
		})
	})

	Describe("interaction mode", func() {
		It("clears the selection on change", func() {
			s := newSim(func(c *cloth.Settings) { c.Interaction = cloth.InteractDrag })
			g := s.Lattice().Grid
			sx, sy := cloth.PerspectiveProjector{Width: 800, Height: 600}.Project(s.Particles()[g[2][2]].Pos)
			_, ok := s.SelectAt(sx, sy)
			Expect(ok).To(BeTrue())

			s.SetInteractionMode(cloth.InteractRotate)
			_, ok = s.Selected()
			Expect(ok).To(BeFalse())
			for _, p := range s.Particles() {
				Expect(p.Driven).To(BeFalse())
			}
		})
	})

	Describe("stress", func() {
		It("reports one value per cell", func() {
			s := newSim(nil)
			st := s.Stress()
			Expect(st).To(HaveLen(5))
			Expect(st[0]).To(HaveLen(5))
			Expect(s.RestAreas()[0][0]).To(BeNumerically("~", 400, 1e-9))
		})
	})
})
