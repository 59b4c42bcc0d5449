package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"parceldesk/api/internal/model"
)

// Publisher is the slice of *nats.Conn the coordinator uses for sync
// events. Nil publisher means events are skipped.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// AuditSink records sync outcomes. Implementations must be best-effort:
// a failing sink must not fail the operation.
type AuditSink interface {
	Record(ctx context.Context, entry model.SyncAudit)
}

// SyncEvent is published on console.sync.<kind> after every operation.
type SyncEvent struct {
	Kind     string    `json:"kind"`
	Op       string    `json:"op"`
	Outcome  string    `json:"outcome"` // remote, fallback
	RecordID int64     `json:"record_id,omitempty"`
	At       time.Time `json:"at"`
}

// Coordinator is the CRUD façade every management screen goes through,
// one instance per entity kind. It tries the upstream service first and
// degrades to the redis snapshot when the upstream is unreachable, so a
// caller always gets an answer and never an upstream error.
//
// The trade-off is deliberate: availability over consistency. Fallback
// writes diverge silently from upstream truth until a successful List
// overwrites the snapshot with remote data again.
type Coordinator[T model.Record] struct {
	kind   string
	remote Remote[T]
	local  Snapshot[T]
	events Publisher
	audit  AuditSink

	mu    sync.Mutex
	items []T

	// idgen assigns ids to records created while the upstream is down.
	// The default is UnixMilli plus the record's position in the batch,
	// which keeps ids distinct within one import but is not guaranteed
	// collision-free against later remote ids.
	idgen func(offset int) int64
}

// NewCoordinator creates the sync façade for one entity kind.
func NewCoordinator[T model.Record](kind string, remote Remote[T], local Snapshot[T]) *Coordinator[T] {
	return &Coordinator[T]{
		kind:   kind,
		remote: remote,
		local:  local,
		idgen: func(offset int) int64 {
			return time.Now().UnixMilli() + int64(offset)
		},
	}
}

// SetPublisher attaches the sync event bus.
func (c *Coordinator[T]) SetPublisher(p Publisher) { c.events = p }

// SetAuditSink attaches the audit trail.
func (c *Coordinator[T]) SetAuditSink(a AuditSink) { c.audit = a }

// SetIDGenerator replaces the fallback id generator.
func (c *Coordinator[T]) SetIDGenerator(gen func(offset int) int64) { c.idgen = gen }

// Kind returns the entity kind this coordinator manages.
func (c *Coordinator[T]) Kind() string { return c.kind }

// List returns the collection. Upstream success replaces both the
// in-memory view and the snapshot (this is the reconciliation point);
// upstream failure serves the snapshot instead. List never fails.
func (c *Coordinator[T]) List(ctx context.Context) []T {
	items, err := c.remote.FetchAll(ctx)
	if err != nil {
		log.Printf("[Sync] %s getAll failed, serving cached snapshot: %v", c.kind, err)

		c.mu.Lock()
		c.items = c.local.Load(ctx)
		out := c.copyItems()
		c.mu.Unlock()

		c.report(ctx, "list", model.SyncOutcomeFallback, 0, err)
		return out
	}

	c.mu.Lock()
	c.items = items
	out := c.copyItems()
	c.mu.Unlock()

	if err := c.local.Save(ctx, items); err != nil {
		log.Printf("[Sync] %s snapshot write failed: %v", c.kind, err)
	}
	c.report(ctx, "list", model.SyncOutcomeRemote, 0, nil)
	return out
}

// Create stores a new record. On upstream success the remote-assigned
// id is authoritative; on failure the record gets a generated id and
// the whole collection is persisted locally. Either way the record is
// part of the collection afterwards.
func (c *Coordinator[T]) Create(ctx context.Context, rec T) T {
	return c.CreateAt(ctx, rec, 0)
}

// CreateAt is Create with a batch offset: bulk imports pass the row
// position so fallback ids stay distinct within one import.
func (c *Coordinator[T]) CreateAt(ctx context.Context, rec T, offset int) T {
	err := c.remote.Create(ctx, rec)
	if err != nil {
		log.Printf("[Sync] %s create failed, keeping record locally: %v", c.kind, err)
		rec.SetRecordID(c.idgen(offset))
	}

	c.mu.Lock()
	c.items = append(c.items, rec)
	items := c.copyItems()
	c.mu.Unlock()

	// Mirror on success, fall back on failure: in both cases the
	// snapshot holds the complete collection afterwards.
	if saveErr := c.local.Save(ctx, items); saveErr != nil {
		log.Printf("[Sync] %s snapshot write failed: %v", c.kind, saveErr)
	}

	outcome := model.SyncOutcomeRemote
	if err != nil {
		outcome = model.SyncOutcomeFallback
	}
	c.report(ctx, "create", outcome, rec.RecordID(), err)
	return rec
}

// Update replaces the record optimistically: the in-memory view always
// reflects the caller's record, and upstream failure persists the whole
// collection locally instead of rolling back.
func (c *Coordinator[T]) Update(ctx context.Context, rec T) {
	err := c.remote.Update(ctx, rec)
	if err != nil {
		log.Printf("[Sync] %s update %d failed, applying locally: %v", c.kind, rec.RecordID(), err)
	}

	c.mu.Lock()
	replaced := false
	for i, existing := range c.items {
		if existing.RecordID() == rec.RecordID() {
			c.items[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		// A patch during fallback must not silently disappear.
		c.items = append(c.items, rec)
	}
	items := c.copyItems()
	c.mu.Unlock()

	if err != nil {
		if saveErr := c.local.Save(ctx, items); saveErr != nil {
			log.Printf("[Sync] %s snapshot write failed: %v", c.kind, saveErr)
		}
		c.report(ctx, "update", model.SyncOutcomeFallback, rec.RecordID(), err)
		return
	}
	c.report(ctx, "update", model.SyncOutcomeRemote, rec.RecordID(), nil)
}

// Delete removes the record optimistically, same contract as Update.
func (c *Coordinator[T]) Delete(ctx context.Context, id int64) {
	err := c.remote.Delete(ctx, id)
	if err != nil {
		log.Printf("[Sync] %s delete %d failed, removing locally: %v", c.kind, id, err)
	}

	c.mu.Lock()
	kept := c.items[:0]
	for _, existing := range c.items {
		if existing.RecordID() != id {
			kept = append(kept, existing)
		}
	}
	c.items = kept
	items := c.copyItems()
	c.mu.Unlock()

	if err != nil {
		if saveErr := c.local.Save(ctx, items); saveErr != nil {
			log.Printf("[Sync] %s snapshot write failed: %v", c.kind, saveErr)
		}
		c.report(ctx, "delete", model.SyncOutcomeFallback, id, err)
		return
	}
	c.report(ctx, "delete", model.SyncOutcomeRemote, id, nil)
}

// Get returns one record from the in-memory view, loading the
// collection first if needed.
func (c *Coordinator[T]) Get(ctx context.Context, id int64) (T, bool) {
	c.mu.Lock()
	empty := len(c.items) == 0
	c.mu.Unlock()
	if empty {
		c.List(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, rec := range c.items {
		if rec.RecordID() == id {
			return rec, true
		}
	}
	var zero T
	return zero, false
}

// copyItems must be called with c.mu held.
func (c *Coordinator[T]) copyItems() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Coordinator[T]) report(ctx context.Context, op, outcome string, recordID int64, opErr error) {
	if c.events != nil {
		event := SyncEvent{
			Kind:     c.kind,
			Op:       op,
			Outcome:  outcome,
			RecordID: recordID,
			At:       time.Now(),
		}
		data, err := json.Marshal(event)
		if err == nil {
			subject := fmt.Sprintf("console.sync.%s", c.kind)
			if err := c.events.Publish(subject, data); err != nil {
				log.Printf("[Sync] publish %s failed: %v", subject, err)
			}
		}
	}

	if c.audit != nil {
		entry := model.SyncAudit{
			Kind:     c.kind,
			Op:       op,
			RecordID: recordID,
			Outcome:  outcome,
		}
		if opErr != nil {
			entry.ErrorMsg = opErr.Error()
		}
		c.audit.Record(ctx, entry)
	}
}
