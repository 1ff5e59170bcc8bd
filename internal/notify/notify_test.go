package notify

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stwalsh4118/ciftlik/internal/database"
	"github.com/stwalsh4118/ciftlik/internal/logger"
	"github.com/stwalsh4118/ciftlik/internal/repository"
)

// recorder collects notifications for assertions.
type recorder struct {
	mu       sync.Mutex
	sent     []Notification
	canceled int
	err      error
}

func (r *recorder) Send(ctx context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ctx.Err() != nil {
		r.canceled++
		return ctx.Err()
	}
	r.sent = append(r.sent, n)
	return r.err
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func TestDispatcher_DeliversAndDrains(t *testing.T) {
	rec := &recorder{}
	d := NewDispatcher(rec, 10, logger.Nop())
	d.Start()

	for i := 0; i < 5; i++ {
		require.NoError(t, d.Send(context.Background(), Notification{UserID: "u1", Type: TypeDebtCreated}))
	}
	d.Shutdown()

	assert.Equal(t, 5, rec.count())

	// Sends after shutdown are dropped without panicking.
	assert.NoError(t, d.Send(context.Background(), Notification{UserID: "u1"}))
	assert.Equal(t, 5, rec.count())
}

func TestDispatcher_DrainUsesLiveContext(t *testing.T) {
	const rounds, queued = 100, 20

	for i := 0; i < rounds; i++ {
		rec := &recorder{}
		d := NewDispatcher(rec, queued, logger.Nop())
		for j := 0; j < queued; j++ {
			require.NoError(t, d.Send(context.Background(), Notification{UserID: "u1", Type: TypeDebtCreated}))
		}

		d.Start()
		d.Shutdown()

		require.Zero(t, rec.canceled, "round %d delivered with a canceled context", i)
		require.Equal(t, queued, rec.count(), "round %d lost notifications", i)
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	var buf bytes.Buffer
	rec := &recorder{}
	d := NewDispatcher(rec, 1, logger.NewWithWriter(&buf, zerolog.DebugLevel))

	// Not started: the first send fills the queue, the second is dropped.
	require.NoError(t, d.Send(context.Background(), Notification{UserID: "u1"}))
	require.NoError(t, d.Send(context.Background(), Notification{UserID: "u2"}))
	assert.Contains(t, buf.String(), "queue full")

	d.Start()
	d.Shutdown()
	assert.Equal(t, 1, rec.count())
}

func TestMulti_JoinsErrors(t *testing.T) {
	ok := &recorder{}
	failing := &recorder{err: errors.New("down")}

	err := Multi{failing, ok}.Send(context.Background(), Notification{UserID: "u1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "down")
	assert.Equal(t, 1, ok.count())
}

func TestStoreNotifier(t *testing.T) {
	db, err := database.NewSQLite(":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Migrate(context.Background()))
	store := repository.New(db)

	n := NewStoreNotifier(store.Notifications)
	require.NoError(t, n.Send(context.Background(), Notification{UserID: "u1", Title: "Yeni borç", Type: TypeDebtCreated}))
	assert.Error(t, n.Send(context.Background(), Notification{Title: "kimsesiz"}))

	inbox, err := store.Notifications.FindByUser(context.Background(), "u1", false)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, "Yeni borç", inbox[0].Title)
	assert.False(t, inbox[0].Read)
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(logger.NewWithWriter(&buf, zerolog.InfoLevel))

	require.NoError(t, n.Send(context.Background(), Notification{UserID: "u1", Title: "Borç ödendi", Type: TypeDebtPaid}))
	assert.Contains(t, buf.String(), TypeDebtPaid)
}
