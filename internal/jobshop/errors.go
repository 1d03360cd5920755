package jobshop

import "errors"

var (
	// ErrInvalidInstance is returned when a problem definition is inconsistent.
	ErrInvalidInstance = errors.New("jobshop: invalid instance")

	// ErrMalformedEncoding is returned when a machine sequence is not a
	// permutation of the operations that require that machine.
	ErrMalformedEncoding = errors.New("jobshop: malformed resource order")

	// ErrSimulationDeadlock is returned when job and machine orders form a
	// cycle and list scheduling cannot place any remaining operation.
	ErrSimulationDeadlock = errors.New("jobshop: simulation deadlock")

	// ErrSlotOutOfRange is returned for positions outside a machine sequence.
	ErrSlotOutOfRange = errors.New("jobshop: slot out of range")
)
