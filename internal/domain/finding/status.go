package finding

import (
	"fmt"
	"strings"

	domainErrors "github.com/khanhnv2901/seca-setcookie/internal/shared/errors"
)

// Status is the terminal outcome of one plugin invocation.
type Status string

const (
	StatusFinished Status = "FINISHED"
	StatusFailed   Status = "FAILED"
	StatusStopped  Status = "STOPPED"
)

// ParseStatus resolves a terminal status name case-insensitively.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusFinished:
		return StatusFinished, nil
	case StatusFailed:
		return StatusFailed, nil
	case StatusStopped:
		return StatusStopped, nil
	}
	return "", fmt.Errorf("%w: %q", domainErrors.ErrInvalidStatus, s)
}

func (s Status) String() string {
	return string(s)
}

// Outcome describes how an external scanner process ended.
type Outcome struct {
	ExitCode        int
	StoppedByCaller bool
	// Signal is the signal that terminated the process, or 0 if it exited normally.
	Signal int
}

// Status maps an outcome onto a terminal status. A stop is only recognised
// when the caller asked for it and the process really died from stopSignal.
func (o Outcome) Status(stopSignal int) Status {
	switch {
	case o.StoppedByCaller && o.Signal != 0 && o.Signal == stopSignal:
		return StatusStopped
	case o.Signal == 0 && o.ExitCode == 0:
		return StatusFinished
	default:
		return StatusFailed
	}
}
