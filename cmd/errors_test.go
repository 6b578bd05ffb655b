package cmd

import (
	"strings"
	"testing"
)

func TestRunFailedErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *RunFailedError
		want string
	}{
		{name: "failed only", err: &RunFailedError{Failed: 2, Total: 3}, want: "2 of 3 target(s) failed"},
		{name: "stopped only", err: &RunFailedError{Stopped: 1, Total: 4}, want: "run stopped: 1 of 4 target(s) did not finish"},
		{name: "both", err: &RunFailedError{Failed: 1, Stopped: 2, Total: 5}, want: "1 of 5 target(s) failed and 2 stopped"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInvalidSignalErrorMessage(t *testing.T) {
	err := &InvalidSignalError{Value: "SIGNOPE"}
	if got := err.Error(); got == "" || !strings.Contains(got, "SIGNOPE") {
		t.Errorf("unexpected message: %q", got)
	}
}
