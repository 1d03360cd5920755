package jobshop_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"jobShop/internal/jobshop"
)

type op = jobshop.Operation

// randomOrder dispatches a random ready operation at every step, which always
// yields a feasible order.
func randomOrder(t *testing.T, inst *jobshop.Instance, rng *rand.Rand) *jobshop.ResourceOrder {
	t.Helper()
	ro, err := jobshop.NewResourceOrder(inst)
	require.NoError(t, err)
	next := make([]int, inst.Jobs)
	for n := 0; n < inst.Operations(); n++ {
		var ready []int
		for j := range next {
			if next[j] < inst.Machines {
				ready = append(ready, j)
			}
		}
		j := ready[rng.Intn(len(ready))]
		require.NoError(t, ro.Append(op{Job: j, Step: next[j]}))
		next[j]++
	}
	return ro
}

type ResourceOrderSuite struct {
	suite.Suite
	aaa1 *jobshop.Instance
	aaa3 *jobshop.Instance
	ft06 *jobshop.Instance
}

func (s *ResourceOrderSuite) SetupTest() {
	var err error
	s.aaa1, err = jobshop.LoadInstance("testdata/aaa1")
	s.Require().NoError(err)
	s.aaa3, err = jobshop.LoadInstance("testdata/aaa3")
	s.Require().NoError(err)
	s.ft06, err = jobshop.LoadInstance("testdata/ft06")
	s.Require().NoError(err)
}

func (s *ResourceOrderSuite) order(inst *jobshop.Instance, seqs [][]op) *jobshop.ResourceOrder {
	ro, err := jobshop.NewResourceOrderFromSequences(inst, seqs)
	s.Require().NoError(err)
	return ro
}

// TestGoldenAAA1: the reference order on aaa1 simulates to makespan 12.
func (s *ResourceOrderSuite) TestGoldenAAA1() {
	ro := s.order(s.aaa1, [][]op{
		{{0, 0}, {1, 1}},
		{{1, 0}, {0, 1}},
		{{0, 2}, {1, 2}},
	})
	sched, err := ro.ToSchedule()
	s.Require().NoError(err)
	s.True(sched.IsValid())
	s.Equal(12, sched.Makespan())
	s.Equal([][]int{{0, 3, 6}, {0, 3, 8}}, sched.StartTimes())
	s.Equal([]op{{0, 0}, {0, 1}, {0, 2}, {1, 2}}, sched.CriticalPath())
}

// TestAlternativeAAA1: scheduling job 0's second step first on m1 costs 14.
func (s *ResourceOrderSuite) TestAlternativeAAA1() {
	ro := s.order(s.aaa1, [][]op{
		{{0, 0}, {1, 1}},
		{{0, 1}, {1, 0}},
		{{0, 2}, {1, 2}},
	})
	sched, err := ro.ToSchedule()
	s.Require().NoError(err)
	s.True(sched.IsValid())
	s.Equal(14, sched.Makespan())
}

// TestThreeByThree: two dispatch orders on the same 3x3 instance.
func (s *ResourceOrderSuite) TestThreeByThree() {
	cases := []struct {
		name string
		seqs [][]op
		want int
	}{
		{"makespan 12", [][]op{
			{{0, 0}, {2, 1}, {1, 2}},
			{{0, 1}, {1, 0}, {2, 2}},
			{{2, 0}, {0, 2}, {1, 1}},
		}, 12},
		{"makespan 14", [][]op{
			{{0, 0}, {2, 1}, {1, 2}},
			{{1, 0}, {0, 1}, {2, 2}},
			{{1, 1}, {2, 0}, {0, 2}},
		}, 14},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			sched, err := s.order(s.aaa3, tc.seqs).ToSchedule()
			s.Require().NoError(err)
			s.True(sched.IsValid())
			s.Equal(tc.want, sched.Makespan())
		})
	}
}

func (s *ResourceOrderSuite) TestDeadlock() {
	// (1,1) waits behind (0,0) on m0 and (0,0)'s successor blocks (1,0) on m1.
	ro := s.order(s.aaa1, [][]op{
		{{1, 1}, {0, 0}},
		{{0, 1}, {1, 0}},
		{{0, 2}, {1, 2}},
	})
	_, err := ro.ToSchedule()
	s.Require().ErrorIs(err, jobshop.ErrSimulationDeadlock)
}

func (s *ResourceOrderSuite) TestMalformed() {
	cases := map[string][][]op{
		"duplicate": {
			{{0, 0}, {0, 0}},
			{{1, 0}, {0, 1}},
			{{0, 2}, {1, 2}},
		},
		"wrong machine": {
			{{0, 1}, {1, 1}},
			{{1, 0}, {0, 0}},
			{{0, 2}, {1, 2}},
		},
		"short sequence": {
			{{0, 0}},
			{{1, 0}, {0, 1}},
			{{0, 2}, {1, 2}},
		},
		"missing machine": {
			{{0, 0}, {1, 1}},
			{{1, 0}, {0, 1}},
		},
		"unknown operation": {
			{{0, 0}, {5, 1}},
			{{1, 0}, {0, 1}},
			{{0, 2}, {1, 2}},
		},
	}
	for name, seqs := range cases {
		s.Run(name, func() {
			_, err := jobshop.NewResourceOrderFromSequences(s.aaa1, seqs)
			s.Require().ErrorIs(err, jobshop.ErrMalformedEncoding)
		})
	}
}

func (s *ResourceOrderSuite) TestIncompleteOrderDoesNotSimulate() {
	ro, err := jobshop.NewResourceOrder(s.aaa1)
	s.Require().NoError(err)
	s.Require().NoError(ro.Append(op{Job: 0, Step: 0}))

	_, err = ro.ToSchedule()
	s.Require().ErrorIs(err, jobshop.ErrMalformedEncoding)
}

func (s *ResourceOrderSuite) TestAppendFullMachine() {
	ro, err := jobshop.NewResourceOrder(s.aaa1)
	s.Require().NoError(err)
	s.Require().NoError(ro.Append(op{Job: 0, Step: 0}))
	s.Require().NoError(ro.Append(op{Job: 1, Step: 1}))
	s.Require().ErrorIs(ro.Append(op{Job: 1, Step: 1}), jobshop.ErrSlotOutOfRange)
	s.Require().ErrorIs(ro.Append(op{Job: 3, Step: 0}), jobshop.ErrMalformedEncoding)
}

func (s *ResourceOrderSuite) TestApplySwapBounds() {
	ro := randomOrder(s.T(), s.aaa1, rand.New(rand.NewSource(1)))
	s.ErrorIs(ro.ApplySwap(3, 0, 1), jobshop.ErrSlotOutOfRange)
	s.ErrorIs(ro.ApplySwap(0, 0, 2), jobshop.ErrSlotOutOfRange)
	s.ErrorIs(ro.ApplySwap(0, -1, 0), jobshop.ErrSlotOutOfRange)
}

func (s *ResourceOrderSuite) TestSwapIsSelfInverse() {
	rng := rand.New(rand.NewSource(7))
	ro := randomOrder(s.T(), s.ft06, rng)
	orig := ro.Copy()

	for k := 0; k < 50; k++ {
		m, i, j := rng.Intn(6), rng.Intn(6), rng.Intn(6)
		s.Require().NoError(ro.ApplySwap(m, i, j))
		s.Require().NoError(ro.ApplySwap(m, i, j))
		s.Require().True(ro.Equal(orig), "swap (%d,%d,%d) twice must restore the order", m, i, j)
	}
}

func (s *ResourceOrderSuite) TestCopyIsIndependent() {
	ro := randomOrder(s.T(), s.ft06, rand.New(rand.NewSource(3)))
	cp := ro.Copy()
	s.True(cp.Equal(ro))

	a, err := ro.ToSchedule()
	s.Require().NoError(err)
	b, err := cp.ToSchedule()
	s.Require().NoError(err)
	s.Equal(a.StartTimes(), b.StartTimes())

	s.Require().NoError(cp.ApplySwap(0, 0, 1))
	s.False(cp.Equal(ro))
	again, err := ro.ToSchedule()
	s.Require().NoError(err)
	s.Equal(a.StartTimes(), again.StartTimes(), "original must not see the copy's swap")
}

func (s *ResourceOrderSuite) TestRoundTripFromSchedule() {
	rng := rand.New(rand.NewSource(42))
	for k := 0; k < 20; k++ {
		inst := jobshop.RandomInstance(2+rng.Intn(8), 2+rng.Intn(6), 1, 20, rng)
		ro := randomOrder(s.T(), inst, rng)

		sched, err := ro.ToSchedule()
		s.Require().NoError(err)

		back, err := jobshop.ResourceOrderFromSchedule(sched)
		s.Require().NoError(err)
		s.Require().True(back.Equal(ro), "order rebuilt from its schedule differs:\n%v\nvs\n%v", back, ro)

		again, err := back.ToSchedule()
		s.Require().NoError(err)
		s.Equal(sched.StartTimes(), again.StartTimes())
		s.Equal(sched.Makespan(), again.Makespan())
	}
}

// TestScheduleConstraints checks precedence and machine exclusivity
// directly on the start table of random feasible orders.
func (s *ResourceOrderSuite) TestScheduleConstraints() {
	rng := rand.New(rand.NewSource(99))
	for k := 0; k < 20; k++ {
		inst := jobshop.RandomInstance(3+rng.Intn(7), 3+rng.Intn(5), 1, 30, rng)
		ro := randomOrder(s.T(), inst, rng)
		sched, err := ro.ToSchedule()
		s.Require().NoError(err)
		s.Require().True(sched.IsValid())

		for j := 0; j < inst.Jobs; j++ {
			for st := 1; st < inst.Machines; st++ {
				s.GreaterOrEqual(sched.StartTime(op{Job: j, Step: st}), sched.EndTime(op{Job: j, Step: st - 1}))
			}
		}
		for m := 0; m < inst.Machines; m++ {
			seq := ro.Machine(m)
			for i := 1; i < len(seq); i++ {
				s.GreaterOrEqual(sched.StartTime(seq[i]), sched.EndTime(seq[i-1]),
					"machine %d: %v overlaps %v", m, seq[i-1], seq[i])
			}
		}
	}
}

func (s *ResourceOrderSuite) TestCriticalPathSpansMakespan() {
	rng := rand.New(rand.NewSource(5))
	ro := randomOrder(s.T(), s.ft06, rng)
	sched, err := ro.ToSchedule()
	s.Require().NoError(err)

	path := sched.CriticalPath()
	s.Require().NotEmpty(path)
	s.Equal(0, sched.StartTime(path[0]))
	s.Equal(sched.Makespan(), sched.EndTime(path[len(path)-1]))

	total := 0
	for i, o := range path {
		total += s.ft06.Duration(o)
		if i > 0 {
			s.Equal(sched.EndTime(path[i-1]), sched.StartTime(o), "path must be contiguous at %d", i)
		}
	}
	s.Equal(sched.Makespan(), total)
}

func TestResourceOrderSuite(t *testing.T) {
	suite.Run(t, new(ResourceOrderSuite))
}

func TestResourceOrderString(t *testing.T) {
	inst, err := jobshop.LoadInstance("testdata/aaa1")
	require.NoError(t, err)
	ro, err := jobshop.NewResourceOrder(inst)
	require.NoError(t, err)
	require.NoError(t, ro.Append(op{Job: 0, Step: 0}))
	require.Equal(t, "Machine 0 : (0,0)\nMachine 1 :\nMachine 2 :\n", ro.String())
}
