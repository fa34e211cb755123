// Package progress reports long running operations under named locations.
package progress

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"vsxregistry/internal/event"
	"vsxregistry/internal/utils"
)

type Service interface {
	WithProgress(ctx context.Context, location, message string, fn func(ctx context.Context) error) error
}

// Operation is one in-flight task.
type Operation struct {
	ID       string    `json:"id"`
	Location string    `json:"location"`
	Message  string    `json:"message"`
	Started  time.Time `json:"started"`
}

type Reporter struct {
	logger *utils.Logger

	mu     sync.Mutex
	active map[string]map[string]Operation

	changed *event.Emitter[string]
}

var _ Service = (*Reporter)(nil)

func NewReporter(logger *utils.Logger) *Reporter {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Reporter{
		logger:  logger,
		active:  make(map[string]map[string]Operation),
		changed: event.NewEmitter[string](),
	}
}

// WithProgress runs fn while an operation is listed under location. The
// error of fn is returned unchanged.
func (r *Reporter) WithProgress(ctx context.Context, location, message string, fn func(ctx context.Context) error) error {
	op := Operation{
		ID:       uuid.NewString(),
		Location: location,
		Message:  message,
		Started:  time.Now(),
	}

	r.mu.Lock()
	if r.active[location] == nil {
		r.active[location] = make(map[string]Operation)
	}
	r.active[location][op.ID] = op
	r.mu.Unlock()
	r.changed.Fire(location)
	r.logger.Debugw("progress started", "location", location, "id", op.ID, "message", message)

	err := fn(ctx)

	r.mu.Lock()
	delete(r.active[location], op.ID)
	if len(r.active[location]) == 0 {
		delete(r.active, location)
	}
	r.mu.Unlock()
	r.changed.Fire(location)

	if err != nil {
		r.logger.Warnw("progress failed", "location", location, "id", op.ID, "message", message, "error", err)
	} else {
		r.logger.LogPerformance(location+": "+message, time.Since(op.Started))
	}
	return err
}

// Active lists the running operations of location, oldest first.
func (r *Reporter) Active(location string) []Operation {
	r.mu.Lock()
	ops := make([]Operation, 0, len(r.active[location]))
	for _, op := range r.active[location] {
		ops = append(ops, op)
	}
	r.mu.Unlock()

	sort.Slice(ops, func(i, j int) bool {
		return ops[i].Started.Before(ops[j].Started)
	})
	return ops
}

func (r *Reporter) OnDidChangeProgress(fn func(location string)) event.Unsubscribe {
	return r.changed.Subscribe(fn)
}
