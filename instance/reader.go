// Package instance reads machine descriptions: one machine per line, an
// indicator pattern, the buttons and the joltage targets.
//
//	[.##.] (3) (1,3) (2) (2,3) (0,2) (0,1) {3,5,4,7}
package instance

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"q.log/mincover/model"
)

var ErrSyntax = errors.New("instance: malformed machine description")

// maxLights is the widest indicator a bitmask can hold.
const maxLights = 64

// Machine is one parsed line.
type Machine struct {
	Lights    int     // length of the indicator pattern
	Indicator uint64  // bit i set when light i must end up on
	Buttons   [][]int // components toggled / incremented by each button
	Joltage   []int   // target count per component
}

// Reader reads machines from a file
type Reader struct {
	filename string
}

func NewReader(filename string) *Reader {
	return &Reader{
		filename: filename,
	}
}

// ReadMachines parses every machine of the file.
func (r *Reader) ReadMachines() ([]*Machine, error) {
	f, err := os.Open(r.filename)
	if err != nil {
		return nil, errors.Wrap(err, "open machines")
	}
	defer f.Close()

	machines, err := Parse(f)
	if err != nil {
		return nil, errors.Wrap(err, r.filename)
	}
	return machines, nil
}

// Parse reads one machine per non-blank line.
func Parse(in io.Reader) ([]*Machine, error) {
	var machines []*Machine
	sc := bufio.NewScanner(in)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		m, err := parseLine(line)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", n)
		}
		machines = append(machines, m)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read machines")
	}
	return machines, nil
}

func parseLine(line string) (*Machine, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return nil, errors.Wrapf(ErrSyntax, "%q: want indicator, buttons and joltage", line)
	}

	pattern, err := enclosed(fields[0], '[', ']')
	if err != nil {
		return nil, err
	}
	if len(pattern) > maxLights {
		return nil, errors.Wrapf(ErrSyntax, "%d lights, at most %d supported", len(pattern), maxLights)
	}
	m := &Machine{Lights: len(pattern)}
	for i, c := range pattern {
		switch c {
		case '#':
			m.Indicator |= 1 << i
		case '.':
		default:
			return nil, errors.Wrapf(ErrSyntax, "indicator %q: unexpected %q", pattern, c)
		}
	}

	last := fields[len(fields)-1]
	body, err := enclosed(last, '{', '}')
	if err != nil {
		return nil, err
	}
	if m.Joltage, err = parseList(body); err != nil {
		return nil, err
	}
	if len(m.Joltage) != m.Lights {
		return nil, errors.Wrapf(ErrSyntax, "%d joltage targets for %d lights", len(m.Joltage), m.Lights)
	}

	for _, f := range fields[1 : len(fields)-1] {
		body, err := enclosed(f, '(', ')')
		if err != nil {
			return nil, err
		}
		btn, err := parseList(body)
		if err != nil {
			return nil, err
		}
		for _, c := range btn {
			if c >= m.Lights {
				return nil, errors.Wrapf(ErrSyntax, "button %s: component %d of %d", f, c, m.Lights)
			}
		}
		m.Buttons = append(m.Buttons, btn)
	}
	return m, nil
}

func enclosed(s string, open, end byte) (string, error) {
	if len(s) < 2 || s[0] != open || s[len(s)-1] != end {
		return "", errors.Wrapf(ErrSyntax, "%q: want %c...%c", s, open, end)
	}
	return s[1 : len(s)-1], nil
}

// parseList parses comma separated non-negative integers.
func parseList(s string) ([]int, error) {
	if s == "" {
		return []int{}, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return nil, errors.Wrapf(ErrSyntax, "%q is not a non-negative integer", p)
		}
		out[i] = v
	}
	return out, nil
}

// Problem returns the joltage problem of m: one 0/1 column per button, with
// a 1 in every component the button increments, and the joltage as target.
func (m *Machine) Problem() (*model.Problem, error) {
	columns := make([][]int, len(m.Buttons))
	for b, btn := range m.Buttons {
		col := make([]int, len(m.Joltage))
		for _, c := range btn {
			col[c] = 1
		}
		columns[b] = col
	}
	return model.NewProblem(columns, m.Joltage)
}

// Masks returns the indicator and one toggle mask per button.
func (m *Machine) Masks() (uint64, []uint64) {
	masks := make([]uint64, len(m.Buttons))
	for b, btn := range m.Buttons {
		for _, c := range btn {
			masks[b] |= 1 << c
		}
	}
	return m.Indicator, masks
}
