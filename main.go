package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"q.log/mincover/branch"
	"q.log/mincover/instance"
	"q.log/mincover/instance/mps"
	"q.log/mincover/model"
	"q.log/mincover/toggle"
)

type config struct {
	mps      bool
	workers  int
	maxNodes int
	lifo     bool
	verbose  bool
	json     bool
	filename string
}

func parseFlags(args []string, stderr io.Writer) (*config, error) {
	fs := flag.NewFlagSet("mincover", flag.ContinueOnError)
	fs.SetOutput(stderr)
	c := &config{}
	fs.BoolVar(&c.mps, "mps", false, "read FILE as a free MPS cover problem")
	fs.IntVar(&c.workers, "workers", runtime.NumCPU(), "machines solved in parallel")
	fs.IntVar(&c.maxNodes, "max-nodes", 0, "branch and bound node budget per problem, 0 for none")
	fs.BoolVar(&c.lifo, "lifo", false, "explore depth first")
	fs.BoolVar(&c.verbose, "v", false, "log every branch and bound node")
	fs.BoolVar(&c.json, "json", false, "log as JSON")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: mincover [flags] FILE")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, errors.New("expected exactly one input file")
	}
	if c.maxNodes < 0 {
		return nil, errors.Errorf("-max-nodes must be non-negative, got %d", c.maxNodes)
	}
	c.filename = fs.Arg(0)
	return c, nil
}

func newLogger(c *config, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.Out = out
	log.SetLevel(logrus.WarnLevel)
	if c.verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	if c.json {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}

func (c *config) solver(log *logrus.Logger) *branch.Solver {
	order := branch.FIFO
	if c.lifo {
		order = branch.LIFO
	}
	return branch.NewSolver(
		branch.WithOrder(order),
		branch.WithMaxNodes(c.maxNodes),
		branch.WithLogger(log.WithField("file", c.filename)),
	)
}

func run(args []string, stdout, stderr io.Writer) error {
	c, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	log := newLogger(c, stderr)
	s := c.solver(log)

	if c.mps {
		p, err := mps.NewReader(c.filename).ReadProblem()
		if err != nil {
			return err
		}
		start := time.Now()
		r, err := s.Solve(p)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "total: %d after %v\n", r.Total, time.Since(start))
		return nil
	}

	machines, err := instance.NewReader(c.filename).ReadMachines()
	if err != nil {
		return err
	}

	start := time.Now()
	presses, err := fewestToggles(machines)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "part1: %d after %v\n", presses, time.Since(start))

	start = time.Now()
	problems := make([]*model.Problem, len(machines))
	for i, m := range machines {
		if problems[i], err = m.Problem(); err != nil {
			return errors.Wrapf(err, "machine %d", i)
		}
	}
	results, err := s.SolveAll(problems, c.workers)
	if err != nil {
		return err
	}
	total := 0
	for i, r := range results {
		log.WithFields(logrus.Fields{"machine": i, "total": r.Total, "nodes": r.Stats.Nodes}).Debug("machine solved")
		total += r.Total
	}
	fmt.Fprintf(stdout, "part2: %d after %v\n", total, time.Since(start))
	return nil
}

// fewestToggles sums the fewest presses that light every indicator.
func fewestToggles(machines []*instance.Machine) (int, error) {
	sum := 0
	for i, m := range machines {
		indicator, masks := m.Masks()
		n, ok := toggle.FewestPresses(indicator, masks)
		if !ok {
			return 0, errors.Errorf("machine %d: indicator unreachable", i)
		}
		sum += n
	}
	return sum, nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "mincover: %v\n", err)
		os.Exit(1)
	}
}
