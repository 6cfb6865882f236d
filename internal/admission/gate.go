package admission

import (
	"context"
	"fmt"
	"sync"

	"veildb/internal/domain"
)

// waiter is one queued process. ready is closed when the waiter is promoted
// to the active connection.
type waiter struct {
	pid   domain.ProcessID
	ready chan struct{}
}

// queue is the per-database FIFO. The head, once promoted, is the active
// connection; everyone behind it is waiting.
type queue struct {
	waiters []*waiter
	active  bool // head has been promoted
}

// Gate admits at most one active connection per database, in FIFO order.
//
// Waiting is wake-on-channel: each waiter owns a channel closed at
// promotion time, so acquisition latency is immediate rather than bounded
// by a poll interval. FIFO admission order is the contract either way.
// All state lives in memory and is guarded by a single mutex, so the gate
// is safe for concurrent goroutines within one process. A holder that
// never disconnects blocks every later connect for that database; there is
// no timeout.
type Gate struct {
	mu     sync.Mutex
	queues map[string]*queue
}

// New returns a gate with no registered databases.
func New() *Gate {
	return &Gate{queues: make(map[string]*queue)}
}

// Register creates the admission queue for a database. Idempotent: an
// existing queue (and its waiters) is left untouched.
func (g *Gate) Register(database string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.queues[database]; !ok {
		g.queues[database] = &queue{}
	}
}

// Drop discards the admission queue for a database.
func (g *Gate) Drop(database string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.queues, database)
}

// Connect enqueues pid for the database and blocks until pid reaches the
// head of the queue. Cancelling ctx while waiting removes pid from the
// queue and returns ctx.Err(); the FIFO order of the remaining waiters is
// unaffected.
func (g *Gate) Connect(ctx context.Context, database string, pid domain.ProcessID) error {
	g.mu.Lock()
	q, ok := g.queues[database]
	if !ok {
		g.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrDatabaseNotFound, database)
	}
	for _, w := range q.waiters {
		if w.pid == pid {
			g.mu.Unlock()
			return fmt.Errorf("%w: %s on %s", domain.ErrAlreadyConnected, pid, database)
		}
	}
	w := &waiter{pid: pid, ready: make(chan struct{})}
	q.waiters = append(q.waiters, w)
	if len(q.waiters) == 1 {
		q.active = true
		close(w.ready)
	}
	g.mu.Unlock()

	select {
	case <-w.ready:
		return nil
	case <-ctx.Done():
		g.mu.Lock()
		defer g.mu.Unlock()
		select {
		case <-w.ready:
			// Promoted between cancellation and reacquiring the lock;
			// release the slot so the cancellation does not wedge the queue.
			g.pop(q)
		default:
			g.remove(q, w)
		}
		return ctx.Err()
	}
}

// Disconnect releases the active connection held by pid and promotes the
// next waiter. Fails with ErrNotConnected unless pid is the active holder.
func (g *Gate) Disconnect(database string, pid domain.ProcessID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	q, ok := g.queues[database]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrDatabaseNotFound, database)
	}
	if !q.active || q.waiters[0].pid != pid {
		return fmt.Errorf("%w: %s on %s", domain.ErrNotConnected, pid, database)
	}
	g.pop(q)
	return nil
}

// IsConnected reports whether pid is the active holder for the database.
func (g *Gate) IsConnected(database string, pid domain.ProcessID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	q, ok := g.queues[database]
	return ok && q.active && q.waiters[0].pid == pid
}

// Waiting returns the number of queued process identifiers for the
// database, the active holder included.
func (g *Gate) Waiting(database string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	q, ok := g.queues[database]
	if !ok {
		return 0
	}
	return len(q.waiters)
}

// HasActive reports whether the database has an active holder.
func (g *Gate) HasActive(database string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	q, ok := g.queues[database]
	return ok && q.active
}

// pop removes the head and promotes the next waiter. Caller holds g.mu.
func (g *Gate) pop(q *queue) {
	q.waiters = q.waiters[1:]
	if len(q.waiters) > 0 {
		close(q.waiters[0].ready)
	} else {
		q.active = false
	}
}

// remove deletes a not-yet-promoted waiter. Caller holds g.mu.
func (g *Gate) remove(q *queue, w *waiter) {
	for i, cur := range q.waiters {
		if cur == w {
			q.waiters = append(q.waiters[:i], q.waiters[i+1:]...)
			return
		}
	}
}

// Compile-time assertion that Gate implements domain.Gate.
var _ domain.Gate = (*Gate)(nil)
