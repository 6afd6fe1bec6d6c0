package db

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tgienger/todo/internal/live"
)

// Snapshot is one emission of a live query: the full result set, or the
// error that prevented reading it
type Snapshot struct {
	Records []TodoRecord
	Err     error
}

type watcher struct {
	dirty chan struct{}
}

// ObserveAll streams the full todo list, newest first. The current contents
// are emitted first, then again after every insert, update or delete.
// The channel closes when ctx is done or the database is closed.
func (db *DB) ObserveAll(ctx context.Context) <-chan Snapshot {
	return db.observe(ctx, db.ListAll)
}

// ObserveByCompletion is ObserveAll restricted to one completion state
func (db *DB) ObserveByCompletion(ctx context.Context, completed bool) <-chan Snapshot {
	return db.observe(ctx, func(ctx context.Context) ([]TodoRecord, error) {
		return db.ListByCompletion(ctx, completed)
	})
}

func (db *DB) observe(ctx context.Context, query func(context.Context) ([]TodoRecord, error)) <-chan Snapshot {
	out := live.New[Snapshot]()

	id := uuid.New()
	w := &watcher{dirty: make(chan struct{}, 1)}
	// the first pass reads the current contents
	w.dirty <- struct{}{}

	db.mu.Lock()
	if db.closed {
		db.mu.Unlock()
		close(out)
		return out
	}
	db.watchers[id] = w
	db.mu.Unlock()

	slog.Debug("live query opened", "subscription", id)

	go func() {
		defer func() {
			db.mu.Lock()
			delete(db.watchers, id)
			db.mu.Unlock()
			close(out)
			slog.Debug("live query closed", "subscription", id)
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case <-db.done:
				return
			case <-w.dirty:
			}

			records, err := query(ctx)
			if ctx.Err() != nil {
				return
			}
			select {
			case <-db.done:
				return
			default:
			}
			if err != nil {
				slog.Warn("live query failed", "subscription", id, "error", err)
			}
			live.Offer(out, Snapshot{Records: records, Err: err})
		}
	}()

	return out
}

// changed marks every live query dirty. Marks coalesce, so a burst of writes
// causes at most one pending re-read per subscriber.
func (db *DB) changed() {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, w := range db.watchers {
		select {
		case w.dirty <- struct{}{}:
		default:
		}
	}
}

// Subscribers returns the number of open live queries
func (db *DB) Subscribers() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.watchers)
}
