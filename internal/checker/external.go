package checker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/khanhnv2901/seca-setcookie/internal/domain/finding"
	"github.com/khanhnv2901/seca-setcookie/internal/ext"
	consts "github.com/khanhnv2901/seca-setcookie/internal/shared/constants"
	domainErrors "github.com/khanhnv2901/seca-setcookie/internal/shared/errors"
)

const pumpChunkSize = 4096

type ExternalScannerConfig struct {
	Name       string
	Program    string
	SearchPath []string
	Env        map[string]string
	StopSignal syscall.Signal
}

// ExternalScanner runs an external scanner program against a target and
// translates its newline-delimited JSON output into findings.
type ExternalScanner struct {
	name       string
	program    string
	searchPath []string
	env        map[string]string
	stopSignal syscall.Signal
	ambassador ext.Ambassador
	logger     *zap.Logger
}

type ExternalScannerOption func(*ExternalScanner)

// WithAmbassador replaces the process lookup and environment seam.
func WithAmbassador(a ext.Ambassador) ExternalScannerOption {
	return func(e *ExternalScanner) {
		e.ambassador = a
	}
}

func WithLogger(l *zap.Logger) ExternalScannerOption {
	return func(e *ExternalScanner) {
		if l != nil {
			e.logger = l
		}
	}
}

func NewExternalScanner(cfg ExternalScannerConfig, opts ...ExternalScannerOption) *ExternalScanner {
	e := &ExternalScanner{
		name:       cfg.Name,
		program:    cfg.Program,
		searchPath: append([]string(nil), cfg.SearchPath...),
		env:        cfg.Env,
		stopSignal: cfg.StopSignal,
		ambassador: ext.DefaultAmbassador,
		logger:     zap.NewNop(),
	}
	if e.name == "" {
		e.name = "SetCookieScanner"
	}
	if e.program == "" {
		e.program = consts.DefaultScannerProgram
	}
	if e.stopSignal == 0 {
		e.stopSignal = consts.DefaultStopSignal
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *ExternalScanner) Name() string {
	return e.name
}

func (e *ExternalScanner) Version() string {
	return "0.1"
}

// StopSignal is the signal Stop sends to the scanner process.
func (e *ExternalScanner) StopSignal() syscall.Signal {
	return e.stopSignal
}

// Run starts the scanner, waits for it to exit and reports the outcome.
// A FAILED outcome is also returned as an error so hosts can surface it.
func (e *ExternalScanner) Run(ctx context.Context, target string, r Reporter) error {
	proc, err := e.Start(ctx, target)
	if err != nil {
		r.ReportFinish(finding.StatusFailed)
		return err
	}

	outcome, err := proc.Wait()
	if err != nil {
		r.ReportFinish(finding.StatusFailed)
		return err
	}
	return e.Report(proc, outcome, r)
}

// Start locates the scanner program and spawns it with target as the only
// argument. Cancelling ctx stops the process the same way Process.Stop does.
func (e *ExternalScanner) Start(ctx context.Context, target string) (*Process, error) {
	if strings.TrimSpace(target) == "" {
		return nil, domainErrors.ErrEmptyTarget
	}

	path, err := e.ambassador.LookPath(e.program, e.searchPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domainErrors.ErrProgramNotFound, e.program, err)
	}
	if path == "" {
		return nil, fmt.Errorf("%w: %s", domainErrors.ErrProgramNotFound, e.program)
	}

	logger := e.logger.With(
		zap.String("plugin", e.name),
		zap.String("program", path),
		zap.String("target", target),
	)

	procCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(procCtx, path, target)
	cmd.Env = e.environ()

	p := &Process{
		cmd:        cmd,
		cancel:     cancel,
		stopSignal: e.stopSignal,
		done:       make(chan struct{}),
		logger:     logger,
	}
	cmd.Cancel = func() error {
		p.stopping.Store(true)
		return cmd.Process.Signal(p.stopSignal)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("start %s: %w", path, err)
	}

	p.setState(StateRunning)
	logger.Info("scanner started", zap.Int("pid", cmd.Process.Pid))
	go p.supervise(stdout, stderr)
	return p, nil
}

// Report translates a finished process into findings and a terminal status.
func (e *ExternalScanner) Report(p *Process, outcome finding.Outcome, r Reporter) error {
	status := outcome.Status(int(e.stopSignal))
	switch status {
	case finding.StatusFinished:
		parsed := ParseFindingLines(p.Stdout())
		for _, skipped := range parsed.Skipped {
			p.logger.Info("skipping scanner output line",
				zap.Int("line", skipped.Number),
				zap.String("text", skipped.Text),
				zap.Error(skipped.Err),
			)
		}
		r.ReportIssues(parsed.Findings)
		r.ReportFinish(status)
		p.logger.Info("scanner finished",
			zap.Int("findings", len(parsed.Findings)),
			zap.Int("skipped_lines", len(parsed.Skipped)),
		)
		return nil

	case finding.StatusStopped:
		r.ReportFinish(status)
		p.logger.Info("scanner stopped", zap.Int("signal", outcome.Signal))
		return nil

	default:
		r.ReportFinish(finding.StatusFailed)
		exitErr := &ExitError{ExitCode: outcome.ExitCode, Signal: outcome.Signal, Stderr: string(p.Stderr())}
		p.logger.Warn("scanner failed",
			zap.Int("exit_code", outcome.ExitCode),
			zap.Int("signal", outcome.Signal),
			zap.String("stderr", exitErr.stderrTail()),
		)
		return exitErr
	}
}

func (e *ExternalScanner) environ() []string {
	env := e.ambassador.Environ()
	for k, v := range e.env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	return env
}

// ExitError reports a scanner process that ended unsuccessfully.
type ExitError struct {
	ExitCode int
	Signal   int
	Stderr   string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("scanner exited with code %d", e.ExitCode)
	if e.Signal != 0 {
		msg = fmt.Sprintf("scanner killed by signal %d", e.Signal)
	}
	if tail := e.stderrTail(); tail != "" {
		msg += ": " + tail
	}
	return msg
}

func (e *ExitError) stderrTail() string {
	const limit = 512
	s := strings.TrimSpace(e.Stderr)
	if len(s) > limit {
		s = "..." + s[len(s)-limit:]
	}
	return s
}

// ProcessState tracks a scanner process through its lifecycle.
type ProcessState int

const (
	StateNotStarted ProcessState = iota
	StateRunning
	StateCompleted
	StateStopped
)

func (s ProcessState) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateStopped:
		return "stopped"
	}
	return fmt.Sprintf("ProcessState(%d)", int(s))
}

// Process is one running scanner. Output is buffered in full until exit.
type Process struct {
	cmd        *exec.Cmd
	cancel     context.CancelFunc
	stopSignal syscall.Signal
	stopping   atomic.Bool
	logger     *zap.Logger

	mu      sync.Mutex
	state   ProcessState
	stdout  bytes.Buffer
	stderr  bytes.Buffer
	outcome finding.Outcome
	err     error
	done    chan struct{}
}

// Stop asks the process to terminate with the configured stop signal.
func (p *Process) Stop() {
	select {
	case <-p.done:
		return
	default:
	}
	p.stopping.Store(true)
	p.cancel()
}

// Wait blocks until the process has exited and its output is drained.
func (p *Process) Wait() (finding.Outcome, error) {
	<-p.done
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.outcome, p.err
}

// Done is closed once the process has exited.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

func (p *Process) State() ProcessState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Process) PID() int {
	if p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

// Stdout returns a copy of everything the process wrote to stdout so far.
func (p *Process) Stdout() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return bytes.Clone(p.stdout.Bytes())
}

// Stderr returns a copy of everything the process wrote to stderr so far.
func (p *Process) Stderr() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return bytes.Clone(p.stderr.Bytes())
}

func (p *Process) setState(s ProcessState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = s
}

func (p *Process) supervise(stdout, stderr io.Reader) {
	defer close(p.done)
	defer p.cancel()

	var g errgroup.Group
	g.Go(func() error { return p.pump(stdout, &p.stdout, "stdout") })
	g.Go(func() error { return p.pump(stderr, &p.stderr, "stderr") })
	pumpErr := g.Wait()

	waitErr := p.cmd.Wait()
	state := p.cmd.ProcessState

	p.mu.Lock()
	defer p.mu.Unlock()

	if state == nil {
		p.outcome = finding.Outcome{ExitCode: -1, StoppedByCaller: p.stopping.Load()}
		p.err = fmt.Errorf("wait for scanner: %w", waitErr)
		p.state = StateCompleted
		return
	}

	p.outcome = outcomeOf(state, p.stopping.Load())
	if pumpErr != nil {
		p.err = fmt.Errorf("%w: %v", domainErrors.ErrProcessOutputPump, pumpErr)
	}
	if p.outcome.Status(int(p.stopSignal)) == finding.StatusStopped {
		p.state = StateStopped
	} else {
		p.state = StateCompleted
	}
}

func (p *Process) pump(r io.Reader, buf *bytes.Buffer, stream string) error {
	chunk := make([]byte, pumpChunkSize)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			p.mu.Lock()
			buf.Write(chunk[:n])
			p.mu.Unlock()
			p.logger.Debug("scanner output", zap.String("stream", stream), zap.Int("bytes", n))
		}
		if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", stream, err)
		}
	}
}

func outcomeOf(state *os.ProcessState, stopping bool) finding.Outcome {
	outcome := finding.Outcome{
		ExitCode:        state.ExitCode(),
		StoppedByCaller: stopping,
	}
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		outcome.Signal = int(ws.Signal())
	}
	return outcome
}
