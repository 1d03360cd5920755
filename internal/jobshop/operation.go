package jobshop

import (
	"strconv"
	"strings"
)

// Operation names step Step of job Job.
type Operation struct {
	Job  int
	Step int
}

func (op Operation) String() string {
	return "(" + strconv.Itoa(op.Job) + "," + strconv.Itoa(op.Step) + ")"
}

// PathKey renders a sequence of operations as a comparable key.
// Two paths have the same key iff they are element-wise equal.
func PathKey(path []Operation) string {
	var b strings.Builder
	b.Grow(len(path) * 6)
	for i, op := range path {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(strconv.Itoa(op.Job))
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(op.Step))
	}
	return b.String()
}
