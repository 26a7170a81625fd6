package branch_test

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"q.log/mincover/branch"
	"q.log/mincover/instance"
	"q.log/mincover/model"
	"q.log/mincover/simplex"
)

const example = `[.##.] (3) (1,3) (2) (2,3) (0,2) (0,1) {3,5,4,7}
[...#.] (0,2,3,4) (2,3) (0,4) (0,1,2) (1,2,3,4) {7,5,12,7,2}
[.###.#] (0,1,2,3,4) (0,3,4) (0,1,2,4,5) (1,2) {10,11,11,5,10,5}
`

func problem(t *testing.T, columns [][]int, target []int) *model.Problem {
	t.Helper()
	p, err := model.NewProblem(columns, target)
	require.NoError(t, err)
	return p
}

// triangle with singletons: the relaxation is 1.5 at x = (.5, .5, .5, 0, 0, 0).
func fractionalProblem(t *testing.T) *model.Problem {
	return problem(t, [][]int{
		{1, 1, 0}, {0, 1, 1}, {1, 0, 1},
		{1, 0, 0}, {0, 1, 0}, {0, 0, 1},
	}, []int{1, 1, 1})
}

func TestSolveSmall(t *testing.T) {
	tests := []struct {
		name    string
		columns [][]int
		target  []int
		want    int
	}{
		{"pairs", [][]int{{1, 0}, {0, 1}, {1, 1}}, []int{2, 3}, 3},
		{"triangle", [][]int{{1, 1, 0}, {0, 1, 1}, {1, 0, 1}}, []int{2, 2, 2}, 3},
		{"single", [][]int{{1}}, []int{5}, 5},
		{"empty target", [][]int{{1, 0}}, []int{0, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := problem(t, tt.columns, tt.target)
			got, err := branch.Solve(p)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			r, err := branch.NewSolver().Solve(p)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Total)
			assert.Equal(t, tt.want, model.Total(r.Counts))
			assert.NoError(t, p.Verify(r.Counts))
		})
	}
}

func TestSolveInfeasible(t *testing.T) {
	_, err := branch.Solve(problem(t, [][]int{{1, 0}}, []int{1, 1}))
	require.ErrorIs(t, err, simplex.ErrInfeasible)
}

func TestSolveIntegralRelaxationDoesNotBranch(t *testing.T) {
	r, err := branch.NewSolver().Solve(problem(t, [][]int{{1, 0}, {0, 1}}, []int{3, 4}))
	require.NoError(t, err)
	assert.Equal(t, 7, r.Total)
	assert.Equal(t, []int{3, 4}, r.Counts)
	assert.Equal(t, 1, r.Stats.Nodes)
	assert.Equal(t, 0, r.Stats.Branched)
	assert.Equal(t, 1, r.Stats.Integral)
	assert.Empty(t, r.Stats.Explored)
}

func TestSolveBranchesOnFractionalRelaxation(t *testing.T) {
	p := fractionalProblem(t)
	r, err := branch.NewSolver().Solve(p)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Total)
	assert.NoError(t, p.Verify(r.Counts))
	assert.GreaterOrEqual(t, r.Stats.Branched, 1)
	assert.GreaterOrEqual(t, r.Stats.Integral, 1)
	require.NotEmpty(t, r.Stats.Explored)
	assert.Equal(t, branch.BoundKey{Var: 0, Floor: 0, Ceil: 1}, r.Stats.Explored[0])

	seen := make(map[branch.BoundKey]bool)
	for _, k := range r.Stats.Explored {
		assert.False(t, seen[k], "split %v made twice", k)
		seen[k] = true
	}
}

func TestSolveInfeasibleAfterBranching(t *testing.T) {
	// relaxation is x = (.5, .5, .5); both x0 = 0 and x0 = 1 are infeasible
	logger, hook := test.NewNullLogger()
	s := branch.NewSolver(branch.WithLogger(logrus.NewEntry(logger)))

	_, err := s.Solve(problem(t, [][]int{{1, 1, 0}, {0, 1, 1}, {1, 0, 1}}, []int{1, 1, 1}))
	require.ErrorIs(t, err, simplex.ErrInfeasible)

	e := hook.LastEntry()
	require.NotNil(t, e)
	assert.Equal(t, "no integral solution", e.Message)
	assert.Equal(t, 3, e.Data["nodes"])
	assert.Equal(t, 1, e.Data["branched"])
	assert.Equal(t, 2, e.Data["infeasible"])
}

func TestSolveNodeLimit(t *testing.T) {
	_, err := branch.NewSolver(branch.WithMaxNodes(1)).Solve(fractionalProblem(t))
	require.ErrorIs(t, err, branch.ErrNodeLimit)

	r, err := branch.NewSolver(branch.WithMaxNodes(1)).Solve(problem(t, [][]int{{1}}, []int{2}))
	require.NoError(t, err)
	assert.Equal(t, 2, r.Total)
}

func TestWithMaxNodesNegative(t *testing.T) {
	assert.Panics(t, func() { branch.NewSolver(branch.WithMaxNodes(-1)) })
}

func TestSolveOrderDoesNotChangeResult(t *testing.T) {
	machines, err := instance.Parse(strings.NewReader(example))
	require.NoError(t, err)

	problems := []*model.Problem{fractionalProblem(t)}
	for _, m := range machines {
		p, err := m.Problem()
		require.NoError(t, err)
		problems = append(problems, p)
	}

	for i, p := range problems {
		fifo, err := branch.NewSolver(branch.WithOrder(branch.FIFO)).Solve(p)
		require.NoError(t, err, "problem %d", i)
		lifo, err := branch.NewSolver(branch.WithOrder(branch.LIFO)).Solve(p)
		require.NoError(t, err, "problem %d", i)
		assert.Equal(t, fifo.Total, lifo.Total, "problem %d", i)
		assert.NoError(t, p.Verify(lifo.Counts))
	}
}

func TestSolveExampleMachines(t *testing.T) {
	machines, err := instance.Parse(strings.NewReader(example))
	require.NoError(t, err)
	require.Len(t, machines, 3)

	want := []int{10, 12, 11}
	total := 0
	for i, m := range machines {
		p, err := m.Problem()
		require.NoError(t, err)
		got, err := branch.Solve(p)
		require.NoError(t, err)
		assert.Equal(t, want[i], got, "machine %d", i)
		total += got
	}
	assert.Equal(t, 33, total)
}

func TestSolveLogs(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	s := branch.NewSolver(branch.WithLogger(logger.WithField("machine", 7)))

	r, err := s.Solve(fractionalProblem(t))
	require.NoError(t, err)

	e := hook.LastEntry()
	require.NotNil(t, e)
	assert.Equal(t, logrus.InfoLevel, e.Level)
	assert.Equal(t, "solved", e.Message)
	assert.Equal(t, 2, e.Data["total"])
	assert.Equal(t, 7, e.Data["machine"])
	assert.Equal(t, r.Stats.Nodes, e.Data["nodes"])

	var branched int
	for _, e := range hook.AllEntries() {
		if e.Message == "branched" {
			assert.Equal(t, logrus.DebugLevel, e.Level)
			branched++
		}
	}
	assert.Equal(t, r.Stats.Branched, branched)
}

func TestSolveTraceLogsTableauAndBounds(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.TraceLevel)
	s := branch.NewSolver(branch.WithLogger(logrus.NewEntry(logger)))

	_, err := s.Solve(fractionalProblem(t))
	require.NoError(t, err)

	var bounds []string
	tableaux := 0
	for _, e := range hook.AllEntries() {
		switch e.Message {
		case "relaxation":
			assert.Equal(t, logrus.TraceLevel, e.Level)
			assert.NotEmpty(t, e.Data["tableau"])
			tableaux++
		case "child queued":
			bounds = append(bounds, e.Data["bound"].(string))
		}
	}
	assert.Positive(t, tableaux)
	require.GreaterOrEqual(t, len(bounds), 2)
	assert.Equal(t, []string{"x0 <= 0", "x0 >= 1"}, bounds[:2])
}

func TestSolveAll(t *testing.T) {
	problems := []*model.Problem{
		problem(t, [][]int{{1, 0}, {0, 1}}, []int{3, 4}),
		problem(t, [][]int{{1, 0}, {0, 1}, {1, 1}}, []int{2, 3}),
		problem(t, [][]int{{1}}, []int{5}),
		fractionalProblem(t),
	}
	for _, workers := range []int{0, 1, 3, 16} {
		results, err := branch.NewSolver().SolveAll(problems, workers)
		require.NoError(t, err, "%d workers", workers)
		require.Len(t, results, len(problems))
		got := make([]int, len(results))
		for i, r := range results {
			got[i] = r.Total
		}
		assert.Equal(t, []int{7, 3, 5, 2}, got, "%d workers", workers)
	}
}

func TestSolveAllFirstErrorWins(t *testing.T) {
	problems := []*model.Problem{
		problem(t, [][]int{{1}}, []int{5}),
		problem(t, [][]int{{1, 0}}, []int{1, 1}),
		problem(t, [][]int{{1, 1, 0}, {0, 1, 1}, {1, 0, 1}}, []int{1, 1, 1}),
	}
	results, err := branch.NewSolver().SolveAll(problems, 2)
	require.ErrorIs(t, err, simplex.ErrInfeasible)
	assert.Contains(t, err.Error(), "problem 1")
	require.Len(t, results, 3)
	assert.Equal(t, 5, results[0].Total)
	assert.Nil(t, results[1])
}

func TestSolveAllEmpty(t *testing.T) {
	results, err := branch.NewSolver().SolveAll(nil, 4)
	require.NoError(t, err)
	assert.Empty(t, results)
}
