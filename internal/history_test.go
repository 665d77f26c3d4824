package internal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHistory(t *testing.T) *HistoryStore {
	t.Helper()
	db, err := OpenDatabase(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewHistoryStore(db)
}

func TestHistoryStore_SaveAndLoad(t *testing.T) {
	store := newTestHistory(t)
	ctx := context.Background()

	rec := CreateTestRecord("abc123def45")
	id, err := store.Save(ctx, rec)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, rec.ID)

	loaded, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, loaded.ID)
	assert.Equal(t, "abc123def45", loaded.VideoID)
	assert.Equal(t, "Test Video", loaded.VideoTitle)
	assert.True(t, loaded.ExportDate.Equal(testTime))

	require.Len(t, loaded.Messages, len(rec.Messages))
	for i, msg := range rec.Messages {
		assert.Equal(t, msg.Sender, loaded.Messages[i].Sender)
		assert.Equal(t, msg.Content, loaded.Messages[i].Content)
		assert.True(t, msg.Timestamp.Equal(loaded.Messages[i].Timestamp), "message %d timestamp", i)
	}
}

func TestHistoryStore_SaveEmpty(t *testing.T) {
	store := newTestHistory(t)

	_, err := store.Save(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyHistory)

	_, err = store.Save(context.Background(), CreateTestRecordWithMessages("abc", nil))
	assert.ErrorIs(t, err, ErrEmptyHistory)
}

func TestHistoryStore_ResaveReplacesMessages(t *testing.T) {
	store := newTestHistory(t)
	ctx := context.Background()

	rec := CreateTestRecord("abc")
	id, err := store.Save(ctx, rec)
	require.NoError(t, err)

	rec.Messages = rec.Messages[:1]
	_, err = store.Save(ctx, rec)
	require.NoError(t, err)

	loaded, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Len(t, loaded.Messages, 1)

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].MessageCount)
}

func TestHistoryStore_ListNewestFirst(t *testing.T) {
	store := newTestHistory(t)
	ctx := context.Background()

	for i, videoID := range []string{"first", "second", "third"} {
		rec := CreateTestRecord(videoID)
		rec.ExportDate = testTime.Add(time.Duration(i) * time.Hour)
		_, err := store.Save(ctx, rec)
		require.NoError(t, err)
	}

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "third", entries[0].VideoID)
	assert.Equal(t, "second", entries[1].VideoID)
	assert.Equal(t, "first", entries[2].VideoID)
	assert.Equal(t, 3, entries[0].MessageCount)
}

func TestHistoryStore_LoadByPrefix(t *testing.T) {
	store := newTestHistory(t)
	ctx := context.Background()

	a := CreateTestRecord("a")
	a.ID = "aaaa-1111"
	b := CreateTestRecord("b")
	b.ID = "aaaa-2222"
	c := CreateTestRecord("c")
	c.ID = "cccc-3333"
	for _, rec := range []*ExportRecord{a, b, c} {
		_, err := store.Save(ctx, rec)
		require.NoError(t, err)
	}

	loaded, err := store.Load(ctx, "cccc")
	require.NoError(t, err)
	assert.Equal(t, "c", loaded.VideoID)

	loaded, err = store.Load(ctx, "aaaa-2222")
	require.NoError(t, err)
	assert.Equal(t, "b", loaded.VideoID)

	_, err = store.Load(ctx, "aaaa")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = store.Load(ctx, "zzzz")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Load(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHistoryStore_Delete(t *testing.T) {
	store := newTestHistory(t)
	ctx := context.Background()

	id, err := store.Save(ctx, CreateTestRecord("abc"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, id))

	_, err = store.Load(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, id), ErrNotFound)

	var orphans int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM messages").Scan(&orphans))
	assert.Zero(t, orphans)
}

func TestStoredTimeSortsLexically(t *testing.T) {
	early := formatTime(testTime)
	late := formatTime(testTime.Add(500 * time.Millisecond))
	assert.Less(t, early, late)
	assert.Len(t, late, len(early))
	assert.True(t, parseTime(late).Equal(testTime.Add(500*time.Millisecond)))
	assert.True(t, parseTime("garbage").IsZero())
}
