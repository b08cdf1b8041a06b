package scenario

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/san-kum/climsim/internal/climate"
	"github.com/san-kum/climsim/internal/config"
	"github.com/san-kum/climsim/internal/model"
	"github.com/san-kum/climsim/internal/storage"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const scenarioYAML = `
name: smoke
description: replay then project
steps:
  - name: fit
    action: replay
    sensitivity: 3.0
    save: true
  - action: replay
    from: "1961"
    count: 3
  - action: extrapolate
    preset: net_zero
    emissions: 0
    years: 5
    save: true
  - action: sweep
    sweep_step: 0.5
  - action: ensemble
    trials: 20
    years: 10
    seed: 7
`

func history(t *testing.T) HistoryFunc {
	t.Helper()
	conc := []float64{315.98, 316.91, 317.64, 318.45, 318.99, 319.62, 320.04, 321.37}
	anom := []float64{0.03, -0.02, 0.05, 0.03, 0.06, -0.20, -0.11, -0.06}
	calls := map[bool]int{}
	return func(monthly bool) ([]climate.Record, error) {
		calls[monthly]++
		if calls[monthly] > 1 {
			t.Errorf("history loaded %d times, expected caching", calls[monthly])
		}
		if monthly {
			return nil, errors.New("no monthly data")
		}
		out := make([]climate.Record, len(conc))
		for i := range conc {
			rec, err := climate.NewRecord(climate.Yearly(1959+i), conc[i])
			if err != nil {
				return nil, err
			}
			rec.SetRecorded(anom[i], model.DefaultReferenceTemp)
			out[i] = rec
		}
		return out, nil
	}
}

func TestParse(t *testing.T) {
	sc, err := Parse([]byte(scenarioYAML))
	require.NoError(t, err)
	assert.Equal(t, "smoke", sc.Name)
	require.Len(t, sc.Steps, 5)
	require.NotNil(t, sc.Steps[2].Emissions)
	assert.Equal(t, 0.0, *sc.Steps[2].Emissions)
	assert.Nil(t, sc.Steps[0].Emissions)
}

func TestParse_Invalid(t *testing.T) {
	tests := []string{
		"name: empty\n",
		"steps:\n  - action: fly\n",
		"steps:\n  - action: replay\n    granularity: weekly\n",
		"steps:\n  - action: extrapolate\n    preset: nope\n",
		"steps:\n  - action: extrapolate\n    emissions: -1\n",
		"steps: [",
	}
	for _, in := range tests {
		_, err := Parse([]byte(in))
		assert.Error(t, err, in)
	}
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smoke.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenarioYAML), 0644))

	sc, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Len(t, sc.Steps, 5)
}

func TestRunner_Run(t *testing.T) {
	sc, err := Parse([]byte(scenarioYAML))
	require.NoError(t, err)

	store := storage.New(t.TempDir(), zaptest.NewLogger(t))
	engine := model.New(model.DefaultParams())
	r := NewRunner(engine, history(t), config.DefaultConfig().Run,
		WithStore(store), WithLogger(zaptest.NewLogger(t)))

	outs, err := r.Run(context.Background(), sc)
	require.NoError(t, err)
	require.Len(t, outs, 5)

	fit := outs[0]
	assert.Equal(t, "fit", fit.Name)
	require.Len(t, fit.Records, 8)
	assert.False(t, fit.Records[0].HasModeled())
	assert.True(t, fit.Records[7].HasModeled())
	require.NotNil(t, fit.Summary)
	assert.Equal(t, 7, fit.Summary.Periods)
	assert.NotEmpty(t, fit.RunID)

	win := outs[1]
	require.Len(t, win.Records, 3)
	assert.Equal(t, climate.Yearly(1961), win.Records[0].Period)
	assert.False(t, win.Records[0].HasModeled(), "window start is the seed")
	assert.Equal(t, 2, win.Summary.Periods)

	ext := outs[2]
	require.Len(t, ext.Records, 5)
	assert.Equal(t, 0.0, *ext.Step.Emissions)
	assert.Equal(t, config.GetPreset("net_zero").Sensitivity, ext.Step.Sensitivity)
	for _, rec := range ext.Records {
		assert.Equal(t, model.DefaultBaselineConcentration, rec.Concentration)
	}
	assert.NotEmpty(t, ext.RunID)

	sweep := outs[3]
	require.NotNil(t, sweep.Sweep)
	assert.Len(t, sweep.Sweep.Points, 7)

	ens := outs[4].Ensemble
	require.NotNil(t, ens)
	assert.Len(t, ens.FinalTemps, 20)
	assert.LessOrEqual(t, ens.Min, ens.Mean)
	assert.LessOrEqual(t, ens.Mean, ens.Max)
	assert.Equal(t, model.DefaultBaselineYear+10, ens.FinalYear)

	runs, err := store.List()
	require.NoError(t, err)
	assert.Len(t, runs, 2)
	for _, run := range runs {
		assert.Equal(t, "smoke", run.Scenario)
	}
}

func TestRunner_StopsOnFailure(t *testing.T) {
	sc := &Scenario{Name: "bad", Steps: []Step{
		{Action: ActionReplay},
		{Action: ActionReplay, Granularity: config.GranularityMonthly},
		{Action: ActionExtrapolate},
	}}
	r := NewRunner(model.New(model.DefaultParams()), history(t), config.DefaultConfig().Run)

	outs, err := r.Run(context.Background(), sc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 2")
	assert.Len(t, outs, 1)
}

func TestRunner_WindowErrors(t *testing.T) {
	r := NewRunner(model.New(model.DefaultParams()), history(t), config.DefaultConfig().Run)

	_, err := r.Run(context.Background(), &Scenario{Steps: []Step{{Action: ActionReplay, From: "1800"}}})
	assert.ErrorIs(t, err, climate.ErrInvalidPeriod)
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(model.New(model.DefaultParams()), nil, config.DefaultConfig().Run)
	_, err := r.Run(ctx, &Scenario{Steps: []Step{{Action: ActionExtrapolate}}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunEnsemble_Deterministic(t *testing.T) {
	engine := model.New(model.DefaultParams())
	cfg := EnsembleConfig{Trials: 10, Years: 5, Emissions: 10, Seed: 42}

	a, err := RunEnsemble(context.Background(), engine, cfg)
	require.NoError(t, err)
	b, err := RunEnsemble(context.Background(), engine, cfg)
	require.NoError(t, err)
	assert.Equal(t, a.FinalTemps, b.FinalTemps)

	for _, s := range a.Sensitivities {
		assert.GreaterOrEqual(t, s, model.DefaultSensitivityMin)
		assert.Less(t, s, model.DefaultSensitivityMax)
	}

	_, err = RunEnsemble(context.Background(), engine, EnsembleConfig{})
	assert.Error(t, err)
}

func TestRunEnsemble_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunEnsemble(ctx, model.New(model.DefaultParams()), EnsembleConfig{Trials: 4, Years: 3, Seed: 1})
	assert.ErrorIs(t, err, context.Canceled)
}
