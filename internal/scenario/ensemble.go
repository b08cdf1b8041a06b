package scenario

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/climsim/internal/model"
)

type EnsembleConfig struct {
	Trials    int
	Years     int
	Emissions float64
	// Seed fixes the sensitivity draws; zero seeds from the clock.
	Seed int64
}

// Ensemble summarises extrapolations under sensitivities drawn uniformly
// from the engine's bounds.
type Ensemble struct {
	Sensitivities []float64 `json:"sensitivities"`
	FinalTemps    []float64 `json:"final_temps"`
	FinalYear     int       `json:"final_year"`
	Mean          float64   `json:"mean"`
	Min           float64   `json:"min"`
	Max           float64   `json:"max"`
}

func RunEnsemble(ctx context.Context, engine *model.Engine, cfg EnsembleConfig) (*Ensemble, error) {
	if cfg.Trials <= 0 {
		return nil, fmt.Errorf("ensemble needs at least one trial, got %d", cfg.Trials)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	p := engine.Params()

	sens := make([]float64, cfg.Trials)
	for i := range sens {
		sens[i] = p.SensitivityMin + rng.Float64()*(p.SensitivityMax-p.SensitivityMin)
	}

	finals := make([]float64, cfg.Trials)
	years := make([]int, cfg.Trials)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < cfg.Trials; i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := engine.Extrapolate(cfg.Years, sens[i], cfg.Emissions)
			if err != nil {
				return fmt.Errorf("trial %d: %w", i, err)
			}
			last := out[len(out)-1]
			finals[i] = *last.ModeledTemp
			years[i] = last.Period.Year
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ens := &Ensemble{
		Sensitivities: sens,
		FinalTemps:    finals,
		FinalYear:     years[0],
		Min:           math.Inf(1),
		Max:           math.Inf(-1),
	}
	sum := 0.0
	for _, t := range finals {
		ens.Min = math.Min(ens.Min, t)
		ens.Max = math.Max(ens.Max, t)
		sum += t
	}
	ens.Mean = sum / float64(cfg.Trials)
	return ens, nil
}
