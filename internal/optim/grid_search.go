// Package optim searches model parameters for the best fit against history.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
)

var ErrEmptyGrid = errors.New("optim: empty search grid")

// Objective scores one parameter combination. Lower is better.
type Objective func(ctx context.Context, params map[string]float64) (float64, error)

// Point is one evaluated combination.
type Point struct {
	Params map[string]float64 `json:"params" yaml:"params"`
	Score  float64            `json:"score" yaml:"score"`
	Err    error              `json:"-" yaml:"-"`
}

type Result struct {
	Best      map[string]float64
	BestScore float64
	Points    []Point
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search evaluates every combination in the grid in row-major order. A
// combination whose objective fails is recorded with its error and skipped
// for the best pick. Search stops early when ctx is cancelled.
func (g *GridSearch) Search(ctx context.Context, objective Objective) (*Result, error) {
	if len(g.paramNames) == 0 || len(g.paramNames) != len(g.ranges) {
		return nil, ErrEmptyGrid
	}
	for i, r := range g.ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("%w: no values for %s", ErrEmptyGrid, g.paramNames[i])
		}
	}

	res := &Result{BestScore: math.Inf(1)}
	if err := g.searchRecursive(ctx, 0, make(map[string]float64), objective, res); err != nil {
		return nil, err
	}
	if res.Best == nil {
		return res, fmt.Errorf("optim: every combination failed: %w", res.Points[0].Err)
	}
	return res, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	objective Objective,
	res *Result,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		score, err := objective(ctx, current)
		res.Points = append(res.Points, Point{Params: current, Score: score, Err: err})
		if err != nil {
			return nil
		}
		if score < res.BestScore {
			res.BestScore = score
			res.Best = make(map[string]float64, len(current))
			for k, v := range current {
				res.Best[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, objective, res); err != nil {
			return err
		}
	}
	return nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive, rounded to
// the given number of decimals.
func Linspace(lo, hi float64, n, decimals int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	scale := math.Pow(10, float64(decimals))
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = math.Round((lo+step*float64(i))*scale) / scale
	}
	return out
}

// Steps returns lo, lo+step, ... up to and including hi.
func Steps(lo, hi, step float64, decimals int) []float64 {
	if step <= 0 || hi < lo {
		return nil
	}
	n := int(math.Floor((hi-lo)/step+1e-9)) + 1
	return Linspace(lo, lo+step*float64(n-1), n, decimals)
}
