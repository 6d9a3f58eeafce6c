package engine

import "sync/atomic"

// Progress is an atomically-updated snapshot of a running (or finished)
// induction run, read by internal/httpapi's /progress endpoint and
// written by the driver after every committed rule.
type Progress struct {
	numRulesCommitted atomic.Int64
	currentQuality    atomic.Value // float64
	running           atomic.Bool
}

// NewProgress returns a zeroed, not-yet-running snapshot.
func NewProgress() *Progress {
	p := &Progress{}
	p.currentQuality.Store(float64(0))
	return p
}

// Start marks the run as in progress.
func (p *Progress) Start() { p.running.Store(true) }

// Finish marks the run as complete.
func (p *Progress) Finish() { p.running.Store(false) }

// RecordRule records that one more rule committed with the given quality.
func (p *Progress) RecordRule(quality float64) {
	p.numRulesCommitted.Add(1)
	p.currentQuality.Store(quality)
}

// Snapshot is the read-only view exposed over HTTP.
type Snapshot struct {
	NumRulesCommitted int64   `json:"numRulesCommitted"`
	CurrentQuality    float64 `json:"currentQuality"`
	Running           bool    `json:"running"`
}

// Read returns the current snapshot.
func (p *Progress) Read() Snapshot {
	return Snapshot{
		NumRulesCommitted: p.numRulesCommitted.Load(),
		CurrentQuality:    p.currentQuality.Load().(float64),
		Running:           p.running.Load(),
	}
}
