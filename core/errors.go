package core

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNullCommand is returned when a statement's command evaluates to
	// null but it has arguments.
	ErrNullCommand = errors.New("command name evaluates to null")

	// ErrCommandNotFound matches every *CommandNotFoundError.
	ErrCommandNotFound = errors.New("command not found")

	// ErrNoMember matches every *MemberError.
	ErrNoMember = errors.New("no such member")
)

// CommandNotFoundError is returned when a name with arguments doesn't
// resolve to a command.
type CommandNotFoundError struct {
	Name string
}

func (e *CommandNotFoundError) Error() string {
	return fmt.Sprintf("command not found: %s", e.Name)
}

// Is makes errors.Is(err, ErrCommandNotFound) work.
func (e *CommandNotFoundError) Is(target error) bool {
	return target == ErrCommandNotFound
}

// MemberError is returned when a value is called with a member it doesn't
// have or with arguments the member can't accept.
type MemberError struct {
	Target string
	Member string
	Reason string
}

func (e *MemberError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s has no member %q", e.Target, e.Member)
	}
	return fmt.Sprintf("%s.%s: %s", e.Target, e.Member, e.Reason)
}

func (e *MemberError) Is(target error) bool {
	return target == ErrNoMember
}
