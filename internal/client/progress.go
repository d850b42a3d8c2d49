package client

import (
	"io"
	"sync"
)

type Stage string

const (
	StagePreparing  Stage = "preparing"
	StageUploading  Stage = "uploading"
	StageProcessing Stage = "processing"
	StageDecoding   Stage = "decoding"
	StageDone       Stage = "done"
)

// Upload covers 0-60%. The rest is fixed points the client actually reaches.
const (
	uploadShare       = 60
	percentProcessing = 60
	percentDecoding   = 90
	percentDone       = 100
)

type Progress struct {
	Stage   Stage
	Percent int
	Sent    int64
	Total   int64
}

// ProgressFunc may be called from more than one goroutine, but never concurrently.
type ProgressFunc func(Progress)

// reporter serializes progress callbacks and never lets the percentage go backwards.
type reporter struct {
	mu   sync.Mutex
	fn   ProgressFunc
	last int
	sent bool
}

func newReporter(fn ProgressFunc) *reporter {
	return &reporter{fn: fn}
}

func (r *reporter) report(p Progress) {
	if r == nil || r.fn == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sent && p.Percent < r.last {
		return
	}

	r.last = p.Percent
	r.sent = true
	r.fn(p)
}

// countingReader reports upload progress as the file is read into the request body.
type countingReader struct {
	r        io.Reader
	total    int64
	sent     int64
	lastPct  int
	reporter *reporter
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.sent += int64(n)
		pct := uploadPercent(c.sent, c.total)
		if pct != c.lastPct {
			c.lastPct = pct
			c.reporter.report(Progress{Stage: StageUploading, Percent: pct, Sent: c.sent, Total: c.total})
		}
	}
	return n, err
}

func uploadPercent(sent, total int64) int {
	if total <= 0 {
		return uploadShare
	}
	if sent >= total {
		return uploadShare
	}
	return int(sent * uploadShare / total)
}
