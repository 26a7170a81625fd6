// Package branch finds minimum-sum integer solutions of model problems by
// branch and bound over simplex relaxations.
//
// Every node owns its tableau. A node is solved (phase 1, then phase 2),
// pruned when its relaxation cannot beat the incumbent, accepted when all
// original variables are integral, or split on its most fractional
// variable into a "<= floor" and a ">= ceil" child. A split (variable,
// floor, ceil) is made at most once per search.
package branch

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"q.log/mincover/model"
	"q.log/mincover/simplex"
)

var (
	// ErrNodeLimit is returned when a solve processes MaxNodes nodes without
	// emptying its queue.
	ErrNodeLimit = errors.New("branch: node limit reached")

	// ErrNotIntegral is returned when an accepted leaf does not hold an
	// integral objective or assignment, which means tolerance drift.
	ErrNotIntegral = errors.New("branch: integral leaf with non-integral objective")
)

// Stats counts what happened to the nodes of one solve.
type Stats struct {
	Nodes      int // nodes popped and solved
	Pruned     int // relaxation no better than the incumbent
	Branched   int // nodes split into two children
	Integral   int // integral leaves
	Infeasible int // nodes whose relaxation has no feasible point
	Skipped    int // nodes dropped because every split was already made

	// Explored lists the splits in the order they were made.
	Explored []BoundKey
}

// Result is the optimum of one problem.
type Result struct {
	Total  int   // minimal number of column uses
	Counts []int // uses per column, summing to Total
	Stats  Stats
}

// Solver runs branch and bound with fixed options. It holds no per-solve
// state and may be shared between goroutines.
type Solver struct {
	opts Options
}

// NewSolver returns a Solver configured by opts on top of DefaultOptions.
func NewSolver(opts ...Option) *Solver {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = DefaultOptions().Logger
	}
	return &Solver{opts: o}
}

// Solve returns the minimal total of p with default options.
func Solve(p *model.Problem) (int, error) {
	r, err := NewSolver().Solve(p)
	if err != nil {
		return 0, err
	}
	return r.Total, nil
}

// Solve searches for the minimum-sum non-negative integer assignment of p.
// It returns an error matching simplex.ErrInfeasible when there is none.
func (s *Solver) Solve(p *model.Problem) (*Result, error) {
	r, found, err := s.search(p, make(map[BoundKey]struct{}))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Wrapf(simplex.ErrInfeasible, "no integral solution after %d nodes", r.Stats.Nodes)
	}
	return r, nil
}

// search runs the node loop. Splits already in explored are never made;
// the result carries the stats even when no integral leaf was found.
func (s *Solver) search(p *model.Problem, explored map[BoundKey]struct{}) (*Result, bool, error) {
	cm, err := p.ConstraintMatrix()
	if err != nil {
		return nil, false, err
	}
	root, err := simplex.BuildTableau(cm, p.Objective())
	if err != nil {
		return nil, false, err
	}

	q := &queue{order: s.opts.Order}
	q.push(&node{id: 0, tab: root})
	nextID := 1

	var (
		stats  Stats
		found  bool
		best   int
		counts []int
	)

	for q.len() > 0 {
		if s.opts.MaxNodes > 0 && stats.Nodes == s.opts.MaxNodes {
			return nil, false, errors.Wrapf(ErrNodeLimit, "%d nodes, %d queued", stats.Nodes, q.len())
		}
		n := q.pop()
		stats.Nodes++
		log := s.opts.Logger.WithFields(logrus.Fields{"node": n.id, "depth": n.depth})

		if err := n.tab.Solve(); err != nil {
			if errors.Is(err, simplex.ErrInfeasible) {
				stats.Infeasible++
				log.Debug("relaxation infeasible")
				continue
			}
			return nil, false, errors.Wrapf(err, "node %d", n.id)
		}

		if log.Logger.IsLevelEnabled(logrus.TraceLevel) {
			log.WithField("tableau", n.tab.String()).Trace("relaxation")
		}

		relaxed := n.tab.Value()
		if found && lowerBound(relaxed) >= best {
			stats.Pruned++
			log.WithField("relaxed", relaxed).Debug("pruned")
			continue
		}

		values, err := n.tab.Values()
		if err != nil {
			return nil, false, errors.Wrapf(err, "node %d", n.id)
		}

		cands := fractional(values)
		if len(cands) == 0 {
			x, total, err := integral(p, values, relaxed)
			if err != nil {
				return nil, false, errors.Wrapf(err, "node %d", n.id)
			}
			stats.Integral++
			if !found || total < best {
				found, best, counts = true, total, x
				log.WithField("total", total).Debug("new incumbent")
			}
			continue
		}

		key, ok := split(cands, values, explored)
		if !ok {
			stats.Skipped++
			log.Debug("all splits explored")
			continue
		}
		explored[key] = struct{}{}
		stats.Explored = append(stats.Explored, key)

		stats.Branched++
		log.WithFields(logrus.Fields{"relaxed": relaxed, "split": key}).Debug("branched")
		for _, b := range []struct {
			dir   simplex.Direction
			value int
		}{{simplex.Upper, key.Floor}, {simplex.Lower, key.Ceil}} {
			child, err := n.tab.Bound(key.Var+1, b.dir, float64(b.value))
			if err != nil {
				return nil, false, err
			}
			q.push(&node{id: nextID, depth: n.depth + 1, tab: child})
			log.WithFields(logrus.Fields{
				"child": nextID,
				"bound": fmt.Sprintf("x%d %v %d", key.Var, b.dir, b.value),
			}).Debug("child queued")
			nextID++
		}
	}

	summary := s.opts.Logger.WithFields(logrus.Fields{
		"nodes":      stats.Nodes,
		"branched":   stats.Branched,
		"pruned":     stats.Pruned,
		"infeasible": stats.Infeasible,
	})
	if !found {
		summary.Info("no integral solution")
		return &Result{Stats: stats}, false, nil
	}
	summary.WithField("total", best).Info("solved")
	return &Result{Total: best, Counts: counts, Stats: stats}, true, nil
}

// lowerBound is the smallest integer objective a node with the given
// relaxed value can still reach.
func lowerBound(relaxed float64) int {
	if simplex.IsIntegral(relaxed) {
		return int(math.Round(relaxed))
	}
	return int(math.Ceil(relaxed))
}

// split picks the first candidate whose split has not been made yet.
func split(cands []int, values []float64, explored map[BoundKey]struct{}) (BoundKey, bool) {
	for _, i := range cands {
		key := BoundKey{Var: i, Floor: int(math.Floor(values[i])), Ceil: int(math.Ceil(values[i]))}
		if _, seen := explored[key]; !seen {
			return key, true
		}
	}
	return BoundKey{}, false
}

// integral rounds an all-integral leaf and checks it against p.
func integral(p *model.Problem, values []float64, relaxed float64) ([]int, int, error) {
	if !simplex.IsIntegral(relaxed) {
		return nil, 0, errors.Wrapf(ErrNotIntegral, "objective %v", relaxed)
	}
	x := make([]int, len(values))
	for i, v := range values {
		x[i] = int(math.Round(v))
	}
	total := int(math.Round(relaxed))
	if model.Total(x) != total {
		return nil, 0, errors.Wrapf(ErrNotIntegral, "assignment sums to %d, objective is %d", model.Total(x), total)
	}
	if err := p.Verify(x); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrNotIntegral, err)
	}
	return x, total, nil
}
