// Package matrix expands a job's matrix axes into concrete instance
// assignments via the Cartesian product of the axis values.
package matrix

import (
	"strings"

	"github.com/vk/pipewright/internal/config"
)

// Pair binds one axis name to one of its values.
type Pair struct {
	Axis  string
	Value string
}

// Assignment is one resolved matrix cell: an ordered axis→value binding.
// Order follows axis declaration order. An empty assignment means the job
// has no matrix.
type Assignment []Pair

// Key renders the canonical identity suffix for an assignment, e.g.
// "[os=linux,arch=arm64]". The empty assignment renders as "".
func (a Assignment) Key() string {
	if len(a) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteByte('[')
	for i, p := range a {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(p.Axis)
		sb.WriteByte('=')
		sb.WriteString(p.Value)
	}
	sb.WriteByte(']')
	return sb.String()
}

// Values returns the assignment as a plain map for evaluation contexts and
// runner invocations. The map is freshly allocated on every call.
func (a Assignment) Values() map[string]string {
	m := make(map[string]string, len(a))
	for _, p := range a {
		m[p.Axis] = p.Value
	}
	return m
}

// Expand computes the row-major Cartesian product of the given axes: the
// rightmost axis varies fastest, matching declaration order in reports.
// Axes with no values contribute nothing to the product; if no axis
// contributes, the result is the single empty assignment.
func Expand(axes []*config.Axis) []Assignment {
	effective := make([]*config.Axis, 0, len(axes))
	for _, ax := range axes {
		if len(ax.Values) > 0 {
			effective = append(effective, ax)
		}
	}
	if len(effective) == 0 {
		return []Assignment{nil}
	}

	total := 1
	for _, ax := range effective {
		total *= len(ax.Values)
	}

	out := make([]Assignment, 0, total)
	idx := make([]int, len(effective))
	for {
		assignment := make(Assignment, len(effective))
		for i, ax := range effective {
			assignment[i] = Pair{Axis: ax.Name, Value: ax.Values[idx[i]]}
		}
		out = append(out, assignment)

		// Advance the odometer, rightmost position first.
		pos := len(effective) - 1
		for pos >= 0 {
			idx[pos]++
			if idx[pos] < len(effective[pos].Values) {
				break
			}
			idx[pos] = 0
			pos--
		}
		if pos < 0 {
			return out
		}
	}
}
