package solver

import (
	"errors"
	"fmt"

	"github.com/san-kum/truss2d/internal/structure"
)

var (
	// ErrDegenerateMember indicates a member of zero length.
	ErrDegenerateMember = structure.ErrDegenerateMember

	// ErrUnstableStructure indicates a reduced stiffness matrix with no
	// unique solution: missing supports, a mechanism or a disconnected part.
	ErrUnstableStructure = errors.New("structure is unstable: check supports")
)

type DegenerateMemberError = structure.DegenerateMemberError

// UnstableStructureError wraps a failed reduced solve.
type UnstableStructureError struct {
	FreeDOFs  int
	Condition float64
	Cause     error
}

func (e *UnstableStructureError) Error() string {
	msg := fmt.Sprintf("%s (%d free dofs, condition %.3g)", ErrUnstableStructure, e.FreeDOFs, e.Condition)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *UnstableStructureError) Unwrap() error {
	return ErrUnstableStructure
}
