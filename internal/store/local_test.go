package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parceldesk/api/internal/model"
)

// fakeKV stands in for the redis client; values live in a plain map.
type fakeKV struct {
	values map[string]string
	getErr error
	setErr error
}

func newFakeKV() *fakeKV {
	return &fakeKV{values: make(map[string]string)}
}

func (f *fakeKV) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	val, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(val, nil)
}

func (f *fakeKV) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	f.values[key] = value.(string)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeKV) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(f.values, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func TestSnapshotRoundTrip(t *testing.T) {
	kv := newFakeKV()
	snap := newRedisSnapshotKV[*model.Location](kv, "locations")
	ctx := context.Background()

	items := []*model.Location{
		{ID: 1, Name: "Dhaka", Slug: "dhaka", Country: "BD"},
		{ID: 2, Name: "Sylhet", Slug: "sylhet", Country: "BD"},
	}
	require.NoError(t, snap.Save(ctx, items))

	got := snap.Load(ctx)
	require.Len(t, got, 2)
	assert.Equal(t, "Dhaka", got[0].Name)
	assert.Equal(t, int64(2), got[1].ID)
}

func TestSnapshotLoadMissingKey(t *testing.T) {
	snap := newRedisSnapshotKV[*model.Location](newFakeKV(), "locations")

	assert.Nil(t, snap.Load(context.Background()))
}

func TestSnapshotLoadRedisErrorDegrades(t *testing.T) {
	kv := newFakeKV()
	kv.getErr = errors.New("connection refused")
	snap := newRedisSnapshotKV[*model.Location](kv, "locations")

	assert.Nil(t, snap.Load(context.Background()))
}

func TestSnapshotLoadCorruptPayloadDegrades(t *testing.T) {
	kv := newFakeKV()
	kv.values["console:cache:locations"] = "{not json"
	snap := newRedisSnapshotKV[*model.Location](kv, "locations")

	assert.Nil(t, snap.Load(context.Background()))
}

func TestSnapshotSaveNilStoresEmptyCollection(t *testing.T) {
	kv := newFakeKV()
	snap := newRedisSnapshotKV[*model.Location](kv, "locations")
	ctx := context.Background()

	require.NoError(t, snap.Save(ctx, nil))
	assert.Equal(t, "[]", kv.values["console:cache:locations"])
	assert.Empty(t, snap.Load(ctx))
}

func TestSnapshotSaveError(t *testing.T) {
	kv := newFakeKV()
	kv.setErr = errors.New("connection refused")
	snap := newRedisSnapshotKV[*model.Location](kv, "locations")

	err := snap.Save(context.Background(), []*model.Location{{ID: 1}})
	assert.Error(t, err)
}

func TestSnapshotClear(t *testing.T) {
	kv := newFakeKV()
	snap := newRedisSnapshotKV[*model.Location](kv, "locations")
	ctx := context.Background()

	require.NoError(t, snap.Save(ctx, []*model.Location{{ID: 1}}))
	require.NoError(t, snap.Clear(ctx))
	assert.Nil(t, snap.Load(ctx))
}
