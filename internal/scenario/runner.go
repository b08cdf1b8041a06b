package scenario

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/climsim/internal/accuracy"
	"github.com/san-kum/climsim/internal/climate"
	"github.com/san-kum/climsim/internal/config"
	"github.com/san-kum/climsim/internal/model"
	"github.com/san-kum/climsim/internal/optim"
	"github.com/san-kum/climsim/internal/storage"
)

// HistoryFunc returns the assembled, unmodeled history at one granularity.
type HistoryFunc func(monthly bool) ([]climate.Record, error)

// Outcome is the result of one step. Only the fields for the step's action
// are set.
type Outcome struct {
	Step     Step
	Name     string
	Records  []climate.Record
	Report   *accuracy.Report
	Summary  *accuracy.Summary
	Sweep    *optim.Result
	Ensemble *Ensemble
	RunID    string
}

type Runner struct {
	engine   *model.Engine
	history  HistoryFunc
	defaults config.RunConfig
	store    *storage.Store
	logger   *zap.Logger
	cache    map[bool][]climate.Record
}

type Option func(*Runner)

func WithStore(s *storage.Store) Option {
	return func(r *Runner) { r.store = s }
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

func NewRunner(engine *model.Engine, history HistoryFunc, defaults config.RunConfig, opts ...Option) *Runner {
	r := &Runner{
		engine:   engine,
		history:  history,
		defaults: defaults,
		logger:   zap.NewNop(),
		cache:    make(map[bool][]climate.Record),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes every step in order. On failure it returns the outcomes of
// the steps that completed along with the error.
func (r *Runner) Run(ctx context.Context, sc *Scenario) ([]Outcome, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, 0, len(sc.Steps))
	for i, raw := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		st := raw.resolve(r.defaults)
		name := raw.label(i)
		r.logger.Info("running step",
			zap.String("scenario", sc.Name),
			zap.String("step", name),
			zap.Int("index", i+1),
			zap.Int("of", len(sc.Steps)),
		)

		out, err := r.runStep(ctx, st)
		if err != nil {
			return outcomes, fmt.Errorf("%s: %w", name, err)
		}
		out.Step = st
		out.Name = name

		if st.Save {
			if err := r.save(sc.Name, &out); err != nil {
				return outcomes, fmt.Errorf("%s: save: %w", name, err)
			}
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}

func (r *Runner) runStep(ctx context.Context, st Step) (Outcome, error) {
	switch st.Action {
	case ActionReplay:
		records, err := r.window(st)
		if err != nil {
			return Outcome{}, err
		}
		if err := r.engine.Replay(records, st.Sensitivity); err != nil {
			return Outcome{}, err
		}
		out := Outcome{Records: records}
		report, summary, err := accuracy.Summarize(records)
		switch {
		case errors.Is(err, climate.ErrNoData):
		case err != nil:
			return Outcome{}, err
		default:
			out.Report, out.Summary = report, summary
		}
		return out, nil

	case ActionExtrapolate:
		records, err := r.engine.Extrapolate(st.Years, st.Sensitivity, *st.Emissions)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Records: records}, nil

	case ActionSweep:
		records, err := r.window(st)
		if err != nil {
			return Outcome{}, err
		}
		res, err := optim.SweepSensitivity(ctx, r.engine, records, optim.SensitivityGrid(r.engine, st.SweepStep))
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Sweep: res}, nil

	case ActionEnsemble:
		ens, err := RunEnsemble(ctx, r.engine, EnsembleConfig{
			Trials:    st.Trials,
			Years:     st.Years,
			Emissions: *st.Emissions,
			Seed:      st.Seed,
		})
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Ensemble: ens}, nil
	}
	return Outcome{}, fmt.Errorf("unknown action %q", st.Action)
}

// window returns a private copy of the history, narrowed to the step's
// window when one is set.
func (r *Runner) window(st Step) ([]climate.Record, error) {
	monthly := st.Granularity == config.GranularityMonthly
	hist, ok := r.cache[monthly]
	if !ok {
		if r.history == nil {
			return nil, fmt.Errorf("no history source configured")
		}
		var err error
		hist, err = r.history(monthly)
		if err != nil {
			return nil, err
		}
		r.cache[monthly] = hist
	}

	records := make([]climate.Record, len(hist))
	copy(records, hist)
	if st.From == "" {
		return records, nil
	}

	start, err := climate.ParsePeriod(st.From)
	if err != nil {
		return nil, err
	}
	n := st.Count
	if n == 0 {
		n = len(records)
	}
	return climate.Window(records, start, n)
}

func (r *Runner) save(scenario string, out *Outcome) error {
	if r.store == nil {
		r.logger.Warn("no store configured, skipping save", zap.String("step", out.Name))
		return nil
	}

	var kind string
	switch out.Step.Action {
	case ActionReplay:
		kind = storage.KindReplay
	case ActionExtrapolate:
		kind = storage.KindExtrapolate
	default:
		r.logger.Warn("step results are not storable", zap.String("step", out.Name), zap.String("action", out.Step.Action))
		return nil
	}

	id, err := r.store.Save(storage.Run{
		Kind:        kind,
		Scenario:    scenario,
		Sensitivity: out.Step.Sensitivity,
		Emissions:   *out.Step.Emissions,
		Records:     out.Records,
		Summary:     out.Summary,
	})
	if err != nil {
		return err
	}
	out.RunID = id
	return nil
}
