package checker

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/khanhnv2901/seca-setcookie/internal/domain/finding"
)

// Reporter is the output sink a host hands to a plugin: a findings channel plus
// a terminal status setter.
type Reporter interface {
	ReportIssues(issues []finding.Finding)
	ReportFinish(status finding.Status)
}

// Collector is an in-memory Reporter. The first ReportFinish wins; issues
// reported after it are dropped.
type Collector struct {
	mu       sync.Mutex
	findings []finding.Finding
	status   finding.Status
	finished bool
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) ReportIssues(issues []finding.Finding) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.finished {
		return
	}
	c.findings = append(c.findings, issues...)
}

func (c *Collector) ReportFinish(status finding.Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.finished {
		return
	}
	c.status = status
	c.finished = true
}

// Findings returns a copy of everything reported so far.
func (c *Collector) Findings() []finding.Finding {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]finding.Finding(nil), c.findings...)
}

// Status returns the terminal status and whether one was reported.
func (c *Collector) Status() (finding.Status, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status, c.finished
}

// LineReporter writes each finding as one JSON object per line, the format the
// external scanner adapter consumes. The terminal status is kept, not written.
type LineReporter struct {
	mu     sync.Mutex
	enc    *json.Encoder
	err    error
	status finding.Status
}

func NewLineReporter(w io.Writer) *LineReporter {
	return &LineReporter{enc: json.NewEncoder(w)}
}

func (l *LineReporter) ReportIssues(issues []finding.Finding) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, issue := range issues {
		if l.err != nil {
			return
		}
		l.err = l.enc.Encode(issue)
	}
}

func (l *LineReporter) ReportFinish(status finding.Status) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.status = status
}

// Status returns the last reported terminal status.
func (l *LineReporter) Status() finding.Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

// Err returns the first write error, if any.
func (l *LineReporter) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}
