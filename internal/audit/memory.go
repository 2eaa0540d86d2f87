// internal/audit/memory.go
package audit

import (
	"context"
	"sync"
	"time"
)

// MemoryLog keeps events in process memory.
type MemoryLog struct {
	mu     sync.RWMutex
	events []Event
}

func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

func (l *MemoryLog) Append(ctx context.Context, events ...Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, e := range events {
		e.ID = int64(len(l.events)) + 1
		if e.CreatedAt.IsZero() {
			e.CreatedAt = time.Now().UTC()
		}
		l.events = append(l.events, e)
	}
	return nil
}

func (l *MemoryLog) List(ctx context.Context, afterID int64, limit int) ([]Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	limit = clampLimit(limit)
	out := []Event{}
	for _, e := range l.events {
		if e.ID <= afterID {
			continue
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}
