// Package pool provides a fixed-size worker pool with a supervisor that
// replaces a worker goroutine that panics while running a job, preserving
// the pool's concurrency level. It is the Go idiom for the source
// implementation's channel-of-enum-message thread pool: a dedicated
// supervisor channel carries "this worker died" events, separate from the
// work queue, so a panicking job never corrupts bookkeeping shared with
// live workers.
package pool

import (
	"context"

	"go.uber.org/zap"

	"github.com/ignitedb/ignite/pkg/errors"
)

// messageKind tags what a Message carries.
type messageKind int

const (
	msgWork messageKind = iota
	msgDead
	msgTerminate
)

// Message is the only thing sent over either pool channel.
type Message struct {
	kind messageKind
	job  func()
	id   int
}

// Pool is a fixed-size set of worker goroutines draining a shared,
// unbuffered work channel, supervised by a goroutine that respawns any
// worker that panics. Jobs are not queued inside the pool: Execute blocks
// until a worker receives the job.
type Pool struct {
	size         int
	workCh       chan Message
	supervisorCh chan Message
	log          *zap.SugaredLogger
}

// New starts size worker goroutines and one supervisor goroutine, and
// returns a Pool ready to accept work via Execute.
func New(ctx context.Context, size int, log *zap.SugaredLogger) (*Pool, error) {
	if size <= 0 {
		return nil, errors.NewFieldRangeError("size", size, 1, nil)
	}
	if log == nil {
		return nil, errors.NewRequiredFieldError("log")
	}

	p := &Pool{
		size:         size,
		workCh:       make(chan Message),
		supervisorCh: make(chan Message),
		log:          log,
	}

	for id := 0; id < size; id++ {
		spawnWorker(id, p.workCh, p.supervisorCh, log)
	}
	go p.supervise(ctx)

	return p, nil
}

// supervise listens for Dead events and respawns the failed worker at slot
// id % size, so the pool's worker count never drops. Terminate ends the
// supervisor loop; Work messages arriving here (they shouldn't) are ignored.
func (p *Pool) supervise(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-p.supervisorCh:
			switch msg.kind {
			case msgDead:
				p.log.Warnw("worker panicked, respawning", "workerID", msg.id)
				spawnWorker(msg.id%p.size, p.workCh, p.supervisorCh, p.log)
			case msgTerminate:
				return
			case msgWork:
				continue
			}
		}
	}
}

// Execute hands job to the next free worker, blocking until a worker
// receives it.
func (p *Pool) Execute(job func()) {
	p.workCh <- Message{kind: msgWork, job: job}
}

// Close sends one Terminate message per worker plus one to the supervisor.
// Each send blocks until it is received, so Close waits for busy workers to
// finish their current job.
func (p *Pool) Close() {
	for i := 0; i < p.size; i++ {
		p.workCh <- Message{kind: msgTerminate}
	}
	p.supervisorCh <- Message{kind: msgTerminate}
}

func spawnWorker(id int, workCh, supervisorCh chan Message, log *zap.SugaredLogger) {
	go runWorker(id, workCh, supervisorCh, log)
}

// runWorker drains workCh until it sees Terminate. A job that panics is
// caught here: the worker reports itself dead to the supervisor and the
// goroutine exits, losing the job but never the slot.
func runWorker(id int, workCh, supervisorCh chan Message, log *zap.SugaredLogger) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("worker recovered from panic", "workerID", id, "panic", r)
			supervisorCh <- Message{kind: msgDead, id: id}
		}
	}()

	for msg := range workCh {
		switch msg.kind {
		case msgWork:
			msg.job()
		case msgTerminate:
			return
		case msgDead:
			continue
		}
	}
}
