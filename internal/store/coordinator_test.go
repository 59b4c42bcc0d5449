package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parceldesk/api/internal/model"
)

type fakeRemote struct {
	items   []*model.Location
	nextID  int64
	down    bool
	creates int
	updates int
	deletes int
}

func (r *fakeRemote) fail(op string) error {
	return &RemoteUnavailableError{Kind: "locations", Op: op, Err: errors.New("connection refused")}
}

func (r *fakeRemote) FetchAll(ctx context.Context) ([]*model.Location, error) {
	if r.down {
		return nil, r.fail("getAll")
	}
	out := make([]*model.Location, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *fakeRemote) Create(ctx context.Context, rec *model.Location) error {
	r.creates++
	if r.down {
		return r.fail("create")
	}
	r.nextID++
	rec.ID = r.nextID
	r.items = append(r.items, rec)
	return nil
}

func (r *fakeRemote) Update(ctx context.Context, rec *model.Location) error {
	r.updates++
	if r.down {
		return r.fail("update")
	}
	return nil
}

func (r *fakeRemote) Delete(ctx context.Context, id int64) error {
	r.deletes++
	if r.down {
		return r.fail("delete")
	}
	return nil
}

type fakeSnapshot struct {
	stored []*model.Location
	saves  int
}

func (s *fakeSnapshot) Load(ctx context.Context) []*model.Location {
	return s.stored
}

func (s *fakeSnapshot) Save(ctx context.Context, items []*model.Location) error {
	s.stored = make([]*model.Location, len(items))
	copy(s.stored, items)
	s.saves++
	return nil
}

func (s *fakeSnapshot) Clear(ctx context.Context) error {
	s.stored = nil
	return nil
}

func newTestCoordinator(remote *fakeRemote, local *fakeSnapshot) *Coordinator[*model.Location] {
	c := NewCoordinator[*model.Location]("locations", remote, local)
	c.SetIDGenerator(func(offset int) int64 { return 9000 + int64(offset) })
	return c
}

func TestListRemoteSuccessOverwritesSnapshot(t *testing.T) {
	remote := &fakeRemote{items: []*model.Location{{ID: 1, Name: "Dhaka"}}}
	local := &fakeSnapshot{stored: []*model.Location{{ID: 77, Name: "Stale"}}}
	c := newTestCoordinator(remote, local)

	got := c.List(context.Background())

	require.Len(t, got, 1)
	assert.Equal(t, "Dhaka", got[0].Name)
	// Reconciliation: the stale snapshot is replaced wholesale.
	require.Len(t, local.stored, 1)
	assert.Equal(t, int64(1), local.stored[0].ID)
}

func TestListFallsBackToSnapshot(t *testing.T) {
	remote := &fakeRemote{down: true}
	local := &fakeSnapshot{stored: []*model.Location{{ID: 5, Name: "Cached"}}}
	c := newTestCoordinator(remote, local)

	got := c.List(context.Background())

	require.Len(t, got, 1)
	assert.Equal(t, "Cached", got[0].Name)
}

func TestListNeverFails(t *testing.T) {
	remote := &fakeRemote{down: true}
	local := &fakeSnapshot{}
	c := newTestCoordinator(remote, local)

	got := c.List(context.Background())
	assert.Empty(t, got)
}

func TestCreateRemoteIDWins(t *testing.T) {
	remote := &fakeRemote{nextID: 41}
	local := &fakeSnapshot{}
	c := newTestCoordinator(remote, local)

	created := c.Create(context.Background(), &model.Location{Name: "Khulna"})

	assert.Equal(t, int64(42), created.ID)
	require.Len(t, local.stored, 1)
	assert.Equal(t, int64(42), local.stored[0].ID)
}

func TestCreateOfflineAssignsGeneratedID(t *testing.T) {
	remote := &fakeRemote{down: true}
	local := &fakeSnapshot{}
	c := newTestCoordinator(remote, local)

	created := c.Create(context.Background(), &model.Location{Name: "Offline"})

	assert.Equal(t, int64(9000), created.ID)
	// The record is part of the collection and the snapshot.
	got := listLocal(c)
	require.Len(t, got, 1)
	assert.Equal(t, "Offline", got[0].Name)
	require.Len(t, local.stored, 1)
}

func TestCreateAtDistinctOffsets(t *testing.T) {
	remote := &fakeRemote{down: true}
	local := &fakeSnapshot{}
	c := newTestCoordinator(remote, local)

	a := c.CreateAt(context.Background(), &model.Location{Name: "A"}, 0)
	b := c.CreateAt(context.Background(), &model.Location{Name: "B"}, 1)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, local.stored, 2)
}

func TestUpdateOptimistic(t *testing.T) {
	remote := &fakeRemote{items: []*model.Location{{ID: 1, Name: "Old"}}}
	local := &fakeSnapshot{}
	c := newTestCoordinator(remote, local)
	c.List(context.Background())
	savesBefore := local.saves

	remote.down = true
	c.Update(context.Background(), &model.Location{ID: 1, Name: "New"})

	got := listLocal(c)
	require.Len(t, got, 1)
	assert.Equal(t, "New", got[0].Name)
	// Fallback updates persist the whole collection.
	assert.Greater(t, local.saves, savesBefore)
	assert.Equal(t, "New", local.stored[0].Name)
}

func TestUpdateSuccessSkipsSnapshotWrite(t *testing.T) {
	remote := &fakeRemote{items: []*model.Location{{ID: 1, Name: "Old"}}}
	local := &fakeSnapshot{}
	c := newTestCoordinator(remote, local)
	c.List(context.Background())
	savesBefore := local.saves

	c.Update(context.Background(), &model.Location{ID: 1, Name: "New"})

	assert.Equal(t, savesBefore, local.saves)
	assert.Equal(t, "New", listLocal(c)[0].Name)
}

func TestUpdateUnknownIDAppends(t *testing.T) {
	remote := &fakeRemote{down: true}
	local := &fakeSnapshot{}
	c := newTestCoordinator(remote, local)

	c.Update(context.Background(), &model.Location{ID: 123, Name: "Ghost"})

	got := listLocal(c)
	require.Len(t, got, 1)
	assert.Equal(t, int64(123), got[0].ID)
}

func TestDeleteOptimistic(t *testing.T) {
	remote := &fakeRemote{items: []*model.Location{{ID: 1}, {ID: 2}}}
	local := &fakeSnapshot{}
	c := newTestCoordinator(remote, local)
	c.List(context.Background())

	remote.down = true
	c.Delete(context.Background(), 1)

	got := listLocal(c)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
	require.Len(t, local.stored, 1)
	assert.Equal(t, int64(2), local.stored[0].ID)
}

func TestGetLoadsLazily(t *testing.T) {
	remote := &fakeRemote{items: []*model.Location{{ID: 7, Name: "Bogra"}}}
	c := newTestCoordinator(remote, &fakeSnapshot{})

	got, ok := c.Get(context.Background(), 7)

	require.True(t, ok)
	assert.Equal(t, "Bogra", got.Name)
}

func TestGetMissing(t *testing.T) {
	remote := &fakeRemote{items: []*model.Location{{ID: 7}}}
	c := newTestCoordinator(remote, &fakeSnapshot{})

	_, ok := c.Get(context.Background(), 99)
	assert.False(t, ok)
}

type captureSink struct {
	entries []model.SyncAudit
}

func (s *captureSink) Record(ctx context.Context, entry model.SyncAudit) {
	s.entries = append(s.entries, entry)
}

func TestAuditOutcomes(t *testing.T) {
	remote := &fakeRemote{down: true}
	sink := &captureSink{}
	c := newTestCoordinator(remote, &fakeSnapshot{})
	c.SetAuditSink(sink)

	c.List(context.Background())
	remote.down = false
	c.Create(context.Background(), &model.Location{Name: "X"})

	require.Len(t, sink.entries, 2)
	assert.Equal(t, "list", sink.entries[0].Op)
	assert.Equal(t, model.SyncOutcomeFallback, sink.entries[0].Outcome)
	assert.NotEmpty(t, sink.entries[0].ErrorMsg)
	assert.Equal(t, "create", sink.entries[1].Op)
	assert.Equal(t, model.SyncOutcomeRemote, sink.entries[1].Outcome)
}

// listLocal reads the in-memory view without touching the remote.
func listLocal(c *Coordinator[*model.Location]) []*model.Location {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyItems()
}
