package optim

import (
	"context"
	"fmt"

	"github.com/san-kum/climsim/internal/accuracy"
	"github.com/san-kum/climsim/internal/climate"
	"github.com/san-kum/climsim/internal/model"
)

const ParamSensitivity = "sensitivity"

// ReplayObjective scores a sensitivity by the mean percent error of a replay
// over a private copy of records.
func ReplayObjective(engine *model.Engine, records []climate.Record) Objective {
	return func(_ context.Context, params map[string]float64) (float64, error) {
		s, ok := params[ParamSensitivity]
		if !ok {
			return 0, fmt.Errorf("optim: missing %s", ParamSensitivity)
		}
		work := make([]climate.Record, len(records))
		copy(work, records)
		if err := engine.Replay(work, s); err != nil {
			return 0, err
		}
		r, err := accuracy.ComputeError(work)
		if err != nil {
			return 0, err
		}
		return r.Mean()
	}
}

// SweepSensitivity replays records once per value and returns every score
// along with the best fitting sensitivity. records are not modified.
func SweepSensitivity(ctx context.Context, engine *model.Engine, records []climate.Record, values []float64) (*Result, error) {
	g := NewGridSearch([]string{ParamSensitivity}, [][]float64{values})
	return g.Search(ctx, ReplayObjective(engine, records))
}

// SensitivityGrid spans the engine's bounds at the given step.
func SensitivityGrid(engine *model.Engine, step float64) []float64 {
	p := engine.Params()
	return Steps(p.SensitivityMin, p.SensitivityMax, step, 2)
}
