package structure

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTruss is the parent of every validation failure.
	ErrInvalidTruss = errors.New("structure: invalid truss")

	// ErrEmptyTruss indicates a truss with no nodes or no members.
	ErrEmptyTruss = fmt.Errorf("%w: truss needs at least one node and one member", ErrInvalidTruss)

	// ErrDuplicateNode indicates two nodes sharing an identifier.
	ErrDuplicateNode = fmt.Errorf("%w: duplicate node id", ErrInvalidTruss)

	// ErrDuplicateMember indicates two members sharing an identifier.
	ErrDuplicateMember = fmt.Errorf("%w: duplicate member id", ErrInvalidTruss)

	// ErrUnknownNode indicates a member endpoint missing from the node set.
	ErrUnknownNode = fmt.Errorf("%w: member endpoint not in truss", ErrInvalidTruss)

	// ErrDegenerateMember indicates a member whose stiffness is undefined.
	ErrDegenerateMember = errors.New("structure: degenerate member (zero length)")
)

// DegenerateMemberError reports a member with coincident endpoints.
type DegenerateMemberError struct {
	MemberID int
	Reason   string
}

func (e *DegenerateMemberError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("member %d: %s", e.MemberID, ErrDegenerateMember)
	}
	return fmt.Sprintf("member %d: %s: %s", e.MemberID, ErrDegenerateMember, e.Reason)
}

func (e *DegenerateMemberError) Unwrap() error {
	return ErrDegenerateMember
}
