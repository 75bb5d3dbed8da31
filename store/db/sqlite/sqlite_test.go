package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/chatdesk/internal/profile"
	"github.com/hrygo/chatdesk/store"
)

func newTestDriver(t *testing.T) store.Driver {
	t.Helper()

	p := &profile.Profile{
		Mode:   "dev",
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "chatdesk_test.db"),
	}
	driver, err := NewDB(p)
	require.NoError(t, err)
	t.Cleanup(func() { _ = driver.Close() })

	require.NoError(t, driver.Migrate(context.Background()))
	return driver
}

func TestConversationLogRoundTrip(t *testing.T) {
	ctx := context.Background()
	driver := newTestDriver(t)

	convID := "conv-1"
	for i, msg := range []string{"hi", "where is my order", "thanks"} {
		created, err := driver.CreateConversationLog(ctx, &store.ConversationLog{
			UID:            "uid",
			UserID:         "u1",
			ConversationID: convID,
			UserMessage:    msg,
			BotReply:       "reply",
			Intent:         "greet",
			Confidence:     0.6,
			Entities:       "{}",
			CreatedTs:      time.Now().Unix() + int64(i),
		})
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
	}

	limit := 2
	logs, err := driver.ListConversationLogs(ctx, &store.FindConversationLog{
		ConversationID: &convID,
		Limit:          &limit,
	})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	// Most recent first.
	assert.Equal(t, "thanks", logs[0].UserMessage)
	assert.Equal(t, "where is my order", logs[1].UserMessage)
}

func TestTicketRoundTrip(t *testing.T) {
	ctx := context.Background()
	driver := newTestDriver(t)

	created, err := driver.CreateTicket(ctx, &store.Ticket{
		UserID:         "u1",
		ConversationID: "conv-1",
		Subject:        "User requested human agent",
		Details:        "User said: talk to a human",
		CreatedTs:      time.Now().Unix(),
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, store.TicketStatusOpen, created.Status)

	got, err := driver.GetTicket(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "User requested human agent", got.Subject)

	closed := store.TicketStatusClosed
	updated, err := driver.UpdateTicket(ctx, &store.UpdateTicket{ID: created.ID, Status: &closed})
	require.NoError(t, err)
	assert.Equal(t, store.TicketStatusClosed, updated.Status)
}
