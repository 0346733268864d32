package sim

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/fabricsim/internal/cloth"
)

// Member is one independently configured run of an Ensemble.
type Member struct {
	Name     string
	Settings cloth.Settings
}

// Ensemble runs several simulations concurrently. Each member gets its own
// Simulation and a fresh set of metrics from the factory.
type Ensemble struct {
	members []Member
	metrics func() []Metric
	limit   int
}

func NewEnsemble(members []Member, metrics func() []Metric) *Ensemble {
	return &Ensemble{members: members, metrics: metrics, limit: runtime.NumCPU()}
}

// SetLimit bounds the number of simulations stepping at once.
func (e *Ensemble) SetLimit(n int) {
	if n > 0 {
		e.limit = n
	}
}

// Run returns one Result per member, in member order. The first failing
// member cancels the rest.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(e.members))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.limit)
	for i, m := range e.members {
		g.Go(func() error {
			s, err := cloth.New(m.Settings)
			if err != nil {
				return fmt.Errorf("%s: %w", m.Name, err)
			}
			r := New(s)
			if e.metrics != nil {
				for _, metric := range e.metrics() {
					r.AddMetric(metric)
				}
			}
			res, err := r.Run(ctx, cfg)
			if err != nil {
				return fmt.Errorf("%s: %w", m.Name, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
