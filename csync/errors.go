package csync

import (
	"github.com/pkg/errors"
)

// Failures reported by the generator. Call sites wrap these with detail;
// test with errors.Is().
var (
	ErrResourceExhausted         = errors.New("no free state machine")
	ErrInstructionSpaceExhausted = errors.New("program does not fit in instruction memory")
	ErrInvalidPinAssignment      = errors.New("invalid pin assignment")
	ErrInvalidTimingParams       = errors.New("invalid timing parameters")
)
