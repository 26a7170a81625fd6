package branch

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Order is the order in which queued nodes are explored. It changes the
// shape of the search, not its result.
type Order int

const (
	// FIFO explores breadth first.
	FIFO Order = iota
	// LIFO explores depth first, which finds an incumbent sooner.
	LIFO
)

func (o Order) String() string {
	if o == LIFO {
		return "lifo"
	}
	return "fifo"
}

// Options configures a Solver.
type Options struct {
	Order    Order         // exploration order, FIFO by default
	MaxNodes int           // nodes solved before giving up with ErrNodeLimit, 0 for no limit
	Logger   *logrus.Entry // receives per-node Debug entries and an Info summary
}

// Option is a functional option for NewSolver.
type Option func(*Options)

// WithOrder sets the exploration order.
func WithOrder(o Order) Option {
	return func(opts *Options) {
		opts.Order = o
	}
}

// WithMaxNodes caps the number of nodes a single solve may process.
// Negative values panic.
func WithMaxNodes(n int) Option {
	return func(opts *Options) {
		if n < 0 {
			panic("branch: MaxNodes must be non-negative")
		}
		opts.MaxNodes = n
	}
}

// WithLogger routes the solver's log entries to entry.
func WithLogger(entry *logrus.Entry) Option {
	return func(opts *Options) {
		opts.Logger = entry
	}
}

// DefaultOptions explores FIFO without a node limit and discards logs.
func DefaultOptions() Options {
	l := logrus.New()
	l.Out = io.Discard
	return Options{
		Order:  FIFO,
		Logger: logrus.NewEntry(l),
	}
}
