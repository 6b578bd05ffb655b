package cmd

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/khanhnv2901/seca-setcookie/internal/domain/finding"
)

type progressPrinter struct {
	out      io.Writer
	total    int
	name     string
	mu       sync.Mutex
	finished int
	failed   int
	stopped  int
	duration float64
	updates  chan struct{}
	done     chan struct{}
	exited   chan struct{}
	started  bool
	stopOnce sync.Once
}

func newProgressPrinter(out io.Writer, total int, name string) *progressPrinter {
	if total <= 0 {
		total = 1
	}
	return &progressPrinter{
		out:     out,
		total:   total,
		name:    name,
		updates: make(chan struct{}, 1),
		done:    make(chan struct{}),
		exited:  make(chan struct{}),
	}
}

// Start must be called at most once, before Stop.
func (p *progressPrinter) Start() {
	p.started = true
	go p.loop()
}

func (p *progressPrinter) Increment(status finding.Status, durationSecs float64) {
	p.mu.Lock()
	switch status {
	case finding.StatusFinished:
		p.finished++
	case finding.StatusStopped:
		p.stopped++
	default:
		p.failed++
	}
	p.duration += durationSecs
	p.mu.Unlock()

	select {
	case p.updates <- struct{}{}:
	default:
	}
}

func (p *progressPrinter) Stop() {
	p.stopOnce.Do(func() {
		close(p.done)
		if p.started {
			<-p.exited
		}
	})
	fmt.Fprintf(p.out, "\r%s\r", strings.Repeat(" ", 80))
	p.print()
	fmt.Fprintln(p.out)
}

func (p *progressPrinter) loop() {
	defer close(p.exited)
	ticker := time.NewTicker(300 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-p.updates:
			p.print()
		case <-ticker.C:
			p.print()
		case <-p.done:
			return
		}
	}
}

func (p *progressPrinter) line() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	completed := p.finished + p.failed + p.stopped
	total := p.total
	if completed > total {
		total = completed
	}

	percent := (float64(completed) / float64(total)) * 100
	avg := 0.0
	if completed > 0 {
		avg = p.duration / float64(completed)
	}

	return fmt.Sprintf("[%s] Progress: %d/%d (%.1f%%) Finished:%d Failed:%d Stopped:%d Avg:%.2fs",
		p.name, completed, total, percent, p.finished, p.failed, p.stopped, avg)
}

func (p *progressPrinter) print() {
	fmt.Fprintf(p.out, "\r%s", p.line())
}
