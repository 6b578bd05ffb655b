package cmd

import "fmt"

// InvalidSignalError reports a stop signal name the CLI does not recognise.
type InvalidSignalError struct {
	Value string
}

func (e *InvalidSignalError) Error() string {
	return fmt.Sprintf("unknown stop signal %q (use SIGKILL, SIGTERM, SIGINT, SIGHUP, SIGQUIT or a number)", e.Value)
}

// RunFailedError signals that at least one target did not finish cleanly.
type RunFailedError struct {
	Failed  int
	Stopped int
	Total   int
}

func (e *RunFailedError) Error() string {
	switch {
	case e.Failed > 0 && e.Stopped > 0:
		return fmt.Sprintf("%d of %d target(s) failed and %d stopped", e.Failed, e.Total, e.Stopped)
	case e.Stopped > 0:
		return fmt.Sprintf("run stopped: %d of %d target(s) did not finish", e.Stopped, e.Total)
	}
	return fmt.Sprintf("%d of %d target(s) failed", e.Failed, e.Total)
}
