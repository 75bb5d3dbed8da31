package bot

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/chatdesk/ai/llm"
	"github.com/hrygo/chatdesk/internal/profile"
	"github.com/hrygo/chatdesk/nlp/faq"
	"github.com/hrygo/chatdesk/nlp/intent"
	"github.com/hrygo/chatdesk/nlp/policy"
	"github.com/hrygo/chatdesk/store"
	"github.com/hrygo/chatdesk/store/db/sqlite"
)

// fixedClassifier always reports the same result.
type fixedClassifier struct {
	result intent.Result
}

func (f *fixedClassifier) Name() string { return "fixed" }

func (f *fixedClassifier) Classify(_ context.Context, _ string) (intent.Result, bool) {
	return f.result, true
}

// stubAssistant is a scriptable llm.Service.
type stubAssistant struct {
	reply string
	err   error
	calls int
}

func (s *stubAssistant) Chat(_ context.Context, _ []llm.Message) (string, error) {
	s.calls++
	return s.reply, s.err
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	p := &profile.Profile{
		Mode:   "dev",
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "chatdesk_test.db"),
	}
	driver, err := sqlite.NewDB(p)
	require.NoError(t, err)
	t.Cleanup(func() { _ = driver.Close() })
	require.NoError(t, driver.Migrate(context.Background()))

	return store.New(driver, p)
}

func emptyMatcher() *faq.Matcher {
	return faq.NewMatcher(context.Background(), nil, faq.NewTFIDFVectorizer(nil))
}

func newTestOrchestrator(t *testing.T, classifier intent.Classifier, assistant llm.Service) (*Orchestrator, *store.Store) {
	t.Helper()
	st := newTestStore(t)
	cascade := intent.NewCascade(classifier, intent.NewKeywordClassifier())
	return New(cascade, emptyMatcher(), policy.New(), assistant, st, nil), st
}

func TestHandleMessageEscalationCreatesTicket(t *testing.T) {
	ctx := context.Background()
	o, st := newTestOrchestrator(t, &fixedClassifier{result: intent.Result{Intent: "escalate", Confidence: 0.6}}, nil)

	resp, err := o.HandleMessage(ctx, Request{Message: "get me a human", ConversationID: "conv-1"})
	require.NoError(t, err)

	require.NotNil(t, resp.TicketID)
	assert.Contains(t, resp.Reply, "#1")
	assert.Equal(t, "escalate", resp.Intent)

	ticket, err := st.GetTicket(ctx, *resp.TicketID)
	require.NoError(t, err)
	assert.Equal(t, policy.SubjectUserRequested, ticket.Subject)
	assert.Equal(t, "anonymous", ticket.UserID)
	assert.Contains(t, ticket.Details, "User said: get me a human")

	convID := "conv-1"
	logs, err := st.ListConversationLogs(ctx, &store.FindConversationLog{ConversationID: &convID})
	require.NoError(t, err)
	require.Len(t, logs, 1, "exactly one log entry per turn")
	assert.Equal(t, resp.Reply, logs[0].BotReply)
}

func TestHandleMessageGenerativeShortCircuit(t *testing.T) {
	ctx := context.Background()
	assistant := &stubAssistant{reply: "Here's a hand-crafted answer."}
	o, st := newTestOrchestrator(t, &fixedClassifier{result: intent.Result{Intent: "unknown", Confidence: 0.2}}, assistant)

	resp, err := o.HandleMessage(ctx, Request{Message: "something confusing", ConversationID: "conv-2"})
	require.NoError(t, err)

	assert.Equal(t, "Here's a hand-crafted answer.", resp.Reply)
	assert.Equal(t, 1, assistant.calls)
	assert.Nil(t, resp.TicketID, "generation bypasses ticket rules")
	assert.Empty(t, resp.NextAction)

	convID := "conv-2"
	logs, err := st.ListConversationLogs(ctx, &store.FindConversationLog{ConversationID: &convID})
	require.NoError(t, err)
	require.Len(t, logs, 1, "short-circuit still persists the turn")

	// Without a ticket at confidence 0.2 the policy path would have
	// auto-escalated; verify it did not run.
	tickets, err := st.ListTickets(ctx, &store.FindTicket{})
	require.NoError(t, err)
	assert.Empty(t, tickets)
}

func TestHandleMessageGenerationFailsClosed(t *testing.T) {
	ctx := context.Background()
	assistant := &stubAssistant{err: errors.New("upstream timeout")}
	o, st := newTestOrchestrator(t, &fixedClassifier{result: intent.Result{Intent: "unknown", Confidence: 0.2}}, assistant)

	resp, err := o.HandleMessage(ctx, Request{Message: "something confusing", ConversationID: "conv-3"})
	require.NoError(t, err, "generation failure must not surface to the caller")

	assert.Equal(t, 1, assistant.calls)
	// Policy path ran: confidence 0.2 with no FAQ auto-escalates.
	require.NotNil(t, resp.TicketID)

	ticket, err := st.GetTicket(ctx, *resp.TicketID)
	require.NoError(t, err)
	assert.Equal(t, policy.SubjectAutoEscalation, ticket.Subject)
}

func TestHandleMessageConfidentTurnSkipsAssistant(t *testing.T) {
	ctx := context.Background()
	assistant := &stubAssistant{reply: "should not be used"}
	o, _ := newTestOrchestrator(t, &fixedClassifier{result: intent.Result{Intent: "greet", Confidence: 0.9}}, assistant)

	resp, err := o.HandleMessage(ctx, Request{Message: "hello"})
	require.NoError(t, err)

	assert.Zero(t, assistant.calls)
	assert.Contains(t, resp.Reply, "I'm here to help")
	assert.NotEmpty(t, resp.ConversationID, "conversation id is generated when absent")
}

func TestHandleMessageSlotFlow(t *testing.T) {
	ctx := context.Background()
	o, _ := newTestOrchestrator(t, &fixedClassifier{result: intent.Result{Intent: "track_order", Confidence: 0.9}}, nil)

	resp, err := o.HandleMessage(ctx, Request{Message: "track my order", ConversationID: "conv-4"})
	require.NoError(t, err)
	assert.Equal(t, policy.ActionRequestSlots, resp.NextAction)

	resp, err = o.HandleMessage(ctx, Request{Message: "it is 123-4567890-1234567", ConversationID: "conv-4"})
	require.NoError(t, err)
	assert.Equal(t, policy.ActionFulfillTrackOrder, resp.NextAction)
	assert.Contains(t, resp.Reply, "123-4567890-1234567")
	assert.Equal(t, "123-4567890-1234567", resp.Entities["order_id"])
}

func TestHandleMessageEmptyMessage(t *testing.T) {
	o, _ := newTestOrchestrator(t, &fixedClassifier{result: intent.Result{Intent: "greet", Confidence: 0.9}}, nil)

	_, err := o.HandleMessage(context.Background(), Request{Message: "   "})
	assert.Error(t, err)
}

func TestHistoryOldestFirst(t *testing.T) {
	ctx := context.Background()
	o, st := newTestOrchestrator(t, &fixedClassifier{result: intent.Result{Intent: "greet", Confidence: 0.9}}, nil)

	for _, msg := range []string{"first", "second", "third"} {
		_, err := st.CreateConversationLog(ctx, &store.ConversationLog{
			UserID:         "u1",
			ConversationID: "conv-5",
			UserMessage:    msg,
			BotReply:       "re: " + msg,
			Entities:       "{}",
		})
		require.NoError(t, err)
	}

	turns := o.history(ctx, "conv-5", 2)
	require.Len(t, turns, 2)
	assert.Equal(t, "second", turns[0].UserMessage)
	assert.Equal(t, "third", turns[1].UserMessage)
}
