package deadletter

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webhook-event-log/pkg/log"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()

	require.NoError(t, store.Record(ctx, Letter{DeliveryID: "d-1", EventType: "push", Reason: ReasonMalformedBody, ContentType: "application/json", Payload: "{bad"}))
	require.NoError(t, store.Record(ctx, Letter{DeliveryID: "d-2", EventType: "push", Reason: ReasonInvalidSignature, Payload: "{}"}))

	letters, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, letters, 2)

	// newest first
	assert.Equal(t, "d-2", letters[0].DeliveryID)
	assert.Equal(t, ReasonInvalidSignature, letters[0].Reason)
	assert.Equal(t, "d-1", letters[1].DeliveryID)
	assert.Equal(t, "{bad", letters[1].Payload)
	assert.Equal(t, "application/json", letters[1].ContentType)
	assert.False(t, letters[1].ReceivedAt.IsZero())
}

func TestList_Limit(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()

	for range 5 {
		require.NoError(t, store.Record(ctx, Letter{Reason: ReasonForbiddenIP}))
	}

	letters, err := store.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, letters, 2)

	letters, err = store.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, letters, 5)
}

func TestList_EmptyIsNonNil(t *testing.T) {
	store := newTestStore(t)
	letters, err := store.List(t.Context(), 10)
	require.NoError(t, err)
	assert.NotNil(t, letters)
}

func TestRecord_TruncatesPayload(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()

	require.NoError(t, store.Record(ctx, Letter{Reason: ReasonMalformedBody, Payload: strings.Repeat("x", MaxPayloadBytes+10)}))

	letters, err := store.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, letters, 1)
	assert.True(t, letters[0].Truncated)
	assert.Len(t, letters[0].Payload, MaxPayloadBytes)
}

func TestRecord_TruncatesOnRuneBoundary(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()

	// "é" is two bytes, so MaxPayloadBytes lands inside the last rune.
	payload := strings.Repeat("x", MaxPayloadBytes-1) + "é" + "tail"
	require.NoError(t, store.Record(ctx, Letter{Reason: ReasonMalformedBody, Payload: payload}))

	letters, err := store.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, letters, 1)
	assert.True(t, letters[0].Truncated)
	assert.True(t, utf8.ValidString(letters[0].Payload))
	assert.Equal(t, strings.Repeat("x", MaxPayloadBytes-1), letters[0].Payload)
}

func TestTruncateUTF8(t *testing.T) {
	assert.Equal(t, "abc", truncateUTF8("abc", 5))
	assert.Equal(t, "ab", truncateUTF8("abc", 2))
	assert.Equal(t, "a", truncateUTF8("a€", 3))
	assert.Equal(t, "", truncateUTF8("€", 2))
}

func TestPrune(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()
	now := time.Now().UTC()

	require.NoError(t, store.Record(ctx, Letter{DeliveryID: "old", Reason: ReasonMalformedBody, ReceivedAt: now.Add(-48 * time.Hour)}))
	require.NoError(t, store.Record(ctx, Letter{DeliveryID: "new", Reason: ReasonMalformedBody, ReceivedAt: now}))

	n, err := store.Prune(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	letters, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, letters, 1)
	assert.Equal(t, "new", letters[0].DeliveryID)
}

func TestNewSQLiteStore_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dead.db")
	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Record(t.Context(), Letter{Reason: ReasonMalformedBody}))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	letters, err := reopened.List(t.Context(), 10)
	require.NoError(t, err)
	assert.Len(t, letters, 1)
}

func TestPruner_PruneOnce(t *testing.T) {
	store := newTestStore(t)
	ctx := t.Context()
	fixed := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Record(ctx, Letter{DeliveryID: "old", Reason: ReasonMalformedBody, ReceivedAt: fixed.Add(-8 * 24 * time.Hour)}))
	require.NoError(t, store.Record(ctx, Letter{DeliveryID: "recent", Reason: ReasonMalformedBody, ReceivedAt: fixed.Add(-time.Hour)}))

	p, err := NewPruner(store, 7*24*time.Hour, log.NewNop())
	require.NoError(t, err)
	p.now = func() time.Time { return fixed }

	p.PruneOnce(ctx)

	letters, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, letters, 1)
	assert.Equal(t, "recent", letters[0].DeliveryID)
}

func TestPruner_StartStop(t *testing.T) {
	store := newTestStore(t)
	p, err := NewPruner(store, time.Hour, log.NewNop())
	require.NoError(t, err)

	require.NoError(t, p.Start(t.Context(), time.Hour))
	require.NoError(t, p.Stop())
}
