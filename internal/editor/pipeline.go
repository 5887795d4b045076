// Package editor holds the form-editing engine: per-editor sessions over the
// in-memory document model and the debounced pipeline that pushes snapshots
// to the remote store.
package editor

import (
	"context"
	"sync"
	"time"

	"github.com/formforge/formforge/internal/form"
)

// WriteFunc persists one document snapshot remotely.
type WriteFunc func(ctx context.Context, formID string, snapshot *form.Document) error

// Pipeline coalesces bursts of local edits into infrequent remote writes.
// Each Schedule restarts the per-form delay timer; only the newest snapshot
// survives a burst. Writes for one form are strictly serialized: a snapshot
// scheduled while a write is in flight is queued and sent right after the
// in-flight write settles. Close flushes everything still pending.
type Pipeline struct {
	delay time.Duration
	write WriteFunc

	mu      sync.Mutex
	cond    *sync.Cond
	entries map[string]*entry
	closed  bool
}

// job is one snapshot awaiting delivery together with its result callback.
type job struct {
	snapshot *form.Document
	onResult func(error)
}

type entry struct {
	timer    *time.Timer
	pending  *job // waiting for the debounce timer
	queued   *job // arrived while a write was in flight
	inFlight bool
}

// NewPipeline creates a pipeline with the given debounce delay.
func NewPipeline(delay time.Duration, write WriteFunc) *Pipeline {
	p := &Pipeline{
		delay:   delay,
		write:   write,
		entries: make(map[string]*entry),
	}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Schedule registers the newest snapshot for formID and restarts its
// debounce timer. onResult is invoked with the outcome of the write that
// carries this snapshot; a snapshot superseded within the debounce window is
// never written and its callback is never called.
func (p *Pipeline) Schedule(formID string, snapshot *form.Document, onResult func(error)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	e := p.entries[formID]
	if e == nil {
		e = &entry{}
		p.entries[formID] = e
	}
	j := &job{snapshot: snapshot, onResult: onResult}
	if e.inFlight {
		// Sent immediately after the in-flight write settles.
		e.queued = j
		if e.timer != nil {
			e.timer.Stop()
		}
		e.pending = nil
		return
	}
	e.pending = j
	if e.timer == nil {
		e.timer = time.AfterFunc(p.delay, func() { p.fire(formID) })
	} else {
		e.timer.Stop()
		e.timer.Reset(p.delay)
	}
}

func (p *Pipeline) fire(formID string) {
	p.mu.Lock()
	e := p.entries[formID]
	if e == nil || e.pending == nil {
		p.mu.Unlock()
		return
	}
	if e.inFlight {
		e.queued = e.pending
		e.pending = nil
		p.mu.Unlock()
		return
	}
	j := e.pending
	e.pending = nil
	e.inFlight = true
	p.mu.Unlock()

	p.deliver(formID, e, j)
}

// deliver issues writes until no queued snapshot remains. Runs outside the
// pipeline lock; result callbacks must not call back into the pipeline.
func (p *Pipeline) deliver(formID string, e *entry, j *job) {
	for {
		err := p.write(context.Background(), formID, j.snapshot)
		if j.onResult != nil {
			j.onResult(err)
		}

		p.mu.Lock()
		if e.queued != nil {
			j = e.queued
			e.queued = nil
			p.mu.Unlock()
			continue
		}
		e.inFlight = false
		// Idle entries are dropped so the map does not grow with every
		// form ever edited.
		if p.entries[formID] == e && e.pending == nil {
			delete(p.entries, formID)
		}
		p.cond.Broadcast()
		p.mu.Unlock()
		return
	}
}

// Flush issues any pending write for formID immediately and blocks until
// the entry is idle. Data scheduled before Flush is never dropped.
func (p *Pipeline) Flush(formID string) {
	p.mu.Lock()
	e := p.entries[formID]
	if e == nil {
		p.mu.Unlock()
		return
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	if e.inFlight {
		if e.pending != nil {
			e.queued = e.pending
			e.pending = nil
		}
		for e.inFlight {
			p.cond.Wait()
		}
		p.mu.Unlock()
		return
	}
	if e.pending == nil {
		if p.entries[formID] == e && e.queued == nil {
			delete(p.entries, formID)
		}
		p.mu.Unlock()
		return
	}
	j := e.pending
	e.pending = nil
	e.inFlight = true
	p.mu.Unlock()

	p.deliver(formID, e, j)
}

// Cancel drops any pending snapshot for formID without writing it. An
// in-flight write is not interrupted.
func (p *Pipeline) Cancel(formID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e := p.entries[formID]
	if e == nil {
		return
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	e.pending = nil
	e.queued = nil
	if !e.inFlight {
		delete(p.entries, formID)
	}
}

// Close flushes every pending snapshot and rejects further scheduling.
func (p *Pipeline) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	ids := make([]string, 0, len(p.entries))
	for id := range p.entries {
		ids = append(ids, id)
	}
	p.mu.Unlock()

	for _, id := range ids {
		p.Flush(id)
	}
}
