package jobshop_test

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobShop/internal/jobshop"
)

func TestParseInstance(t *testing.T) {
	inst, err := jobshop.LoadInstance("testdata/aaa1")
	require.NoError(t, err)
	require.Equal(t, 2, inst.Jobs)
	require.Equal(t, 3, inst.Machines)

	assert.Equal(t, 0, inst.Machine(jobshop.Operation{Job: 1, Step: 1}))
	assert.Equal(t, 2, inst.Duration(jobshop.Operation{Job: 1, Step: 1}))
	assert.Equal(t, 4, inst.Duration(jobshop.Operation{Job: 1, Step: 2}))
	assert.Equal(t, 1, inst.StepOnMachine(1, 0))
	assert.Equal(t, 0, inst.StepOnMachine(1, 1))
	assert.Equal(t, 6, inst.Operations())
}

func TestParseInstanceErrors(t *testing.T) {
	cases := map[string]string{
		"empty":         "# nothing\n",
		"bad header":    "0 3\n",
		"not a number":  "1 2\n0 x 1 2\n",
		"short body":    "1 2\n0 1\n",
		"machine twice": "1 2\n0 1 0 2\n",
		"bad machine":   "1 2\n0 1 7 2\n",
		"negative time": "1 2\n0 1 1 -2\n",
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := jobshop.ParseInstance(strings.NewReader(text))
			require.ErrorIs(t, err, jobshop.ErrInvalidInstance)
		})
	}
}

func TestLoadInstanceMissingFile(t *testing.T) {
	_, err := jobshop.LoadInstance("testdata/does-not-exist")
	require.Error(t, err)
}

func TestNewInstanceValidation(t *testing.T) {
	_, err := jobshop.NewInstance(2, 2, []int{0, 1, 1, 0}, []int{1, 2, 3})
	require.ErrorIs(t, err, jobshop.ErrInvalidInstance)

	inst, err := jobshop.NewInstance(2, 2, []int{0, 1, 1, 0}, []int{1, 2, 3, 4})
	require.NoError(t, err)
	require.Equal(t, 1, inst.StepOnMachine(1, 0))
}

func TestStepOnMachineWithoutValidate(t *testing.T) {
	inst := &jobshop.Instance{Jobs: 1, Machines: 2, MachineOf: []int{1, 0}, Durations: []int{1, 1}}
	require.Equal(t, 1, inst.StepOnMachine(0, 0))
	require.Equal(t, -1, inst.StepOnMachine(0, 5))
}

func TestRandomInstance(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	inst := jobshop.RandomInstance(7, 4, 3, 9, rng)
	require.NoError(t, inst.Validate())
	for _, d := range inst.Durations {
		require.GreaterOrEqual(t, d, 3)
		require.LessOrEqual(t, d, 9)
	}
	require.Panics(t, func() { jobshop.RandomInstance(2, 2, 1, 2, nil) })
	require.Panics(t, func() { jobshop.RandomInstance(2, 2, 5, 2, rng) })
}

func TestNewScheduleValidity(t *testing.T) {
	inst, err := jobshop.LoadInstance("testdata/aaa1")
	require.NoError(t, err)

	good, err := jobshop.NewSchedule(inst, [][]int{{0, 3, 6}, {0, 3, 8}})
	require.NoError(t, err)
	require.True(t, good.IsValid())
	require.Equal(t, 12, good.Makespan())

	// job 0 step 1 starts before step 0 ends
	early, err := jobshop.NewSchedule(inst, [][]int{{0, 2, 6}, {0, 3, 8}})
	require.NoError(t, err)
	require.False(t, early.IsValid())

	// (0,2) and (1,2) overlap on machine 2
	overlap, err := jobshop.NewSchedule(inst, [][]int{{0, 3, 6}, {0, 3, 7}})
	require.NoError(t, err)
	require.False(t, overlap.IsValid())

	negative, err := jobshop.NewSchedule(inst, [][]int{{-1, 3, 6}, {0, 3, 8}})
	require.NoError(t, err)
	require.False(t, negative.IsValid())

	_, err = jobshop.NewSchedule(inst, [][]int{{0, 3, 6}})
	require.Error(t, err)
	_, err = jobshop.NewSchedule(inst, [][]int{{0, 3}, {0, 3, 8}})
	require.Error(t, err)
}

func TestPathKey(t *testing.T) {
	a := []jobshop.Operation{{Job: 1, Step: 2}, {Job: 10, Step: 0}}
	b := []jobshop.Operation{{Job: 11, Step: 2}, {Job: 0, Step: 0}}
	require.Equal(t, "1,2;10,0", jobshop.PathKey(a))
	require.NotEqual(t, jobshop.PathKey(a), jobshop.PathKey(b))
	require.Equal(t, "", jobshop.PathKey(nil))
}
