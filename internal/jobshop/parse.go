package jobshop

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ParseInstance reads the classic text format:
//
//	# comment
//	J M
//	m d m d ...   (one line per job, M machine/duration pairs)
//
// Anything after '#' on a line is ignored.
func ParseInstance(r io.Reader) (*Instance, error) {
	sc := bufio.NewScanner(r)
	var fields []int
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		for _, f := range strings.Fields(text) {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %q is not an integer", ErrInvalidInstance, line, f)
			}
			fields = append(fields, v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(fields) < 2 {
		return nil, fmt.Errorf("%w: missing header", ErrInvalidInstance)
	}

	jobs, machines := fields[0], fields[1]
	if jobs <= 0 || machines <= 0 {
		return nil, fmt.Errorf("%w: header must be positive (got %d %d)", ErrInvalidInstance, jobs, machines)
	}
	body := fields[2:]
	if len(body) != 2*jobs*machines {
		return nil, fmt.Errorf("%w: expected %d values after header (got %d)", ErrInvalidInstance, 2*jobs*machines, len(body))
	}

	machineOf := make([]int, jobs*machines)
	durations := make([]int, jobs*machines)
	for i := range machineOf {
		machineOf[i] = body[2*i]
		durations[i] = body[2*i+1]
	}
	return NewInstance(jobs, machines, machineOf, durations)
}

// LoadInstance parses the instance file at path.
func LoadInstance(path string) (*Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	inst, err := ParseInstance(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return inst, nil
}
