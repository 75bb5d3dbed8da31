// Package bot composes the NLP pipeline into a chat turn handler: classify,
// extract, match, decide, persist, and optionally delegate low-confidence
// turns to the generative assistant.
package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v4"
	"golang.org/x/sync/semaphore"

	"github.com/hrygo/chatdesk/ai/llm"
	"github.com/hrygo/chatdesk/internal/metrics"
	"github.com/hrygo/chatdesk/nlp/entity"
	"github.com/hrygo/chatdesk/nlp/faq"
	"github.com/hrygo/chatdesk/nlp/intent"
	"github.com/hrygo/chatdesk/nlp/policy"
	"github.com/hrygo/chatdesk/store"
)

const (
	// historyLimit caps how many prior turns feed the generative assistant.
	historyLimit = 8

	// generativeConfidence gates the generative short-circuit: below this
	// classifier confidence the assistant gets a chance to reply first.
	generativeConfidence = 0.50

	// maxConcurrentGenerations bounds in-flight assistant calls.
	maxConcurrentGenerations = 4

	systemPrompt = "You are a helpful customer support assistant for an e-commerce store. Be concise and friendly."
)

// Request is one incoming chat utterance.
type Request struct {
	Message        string
	UserID         string
	ConversationID string
}

// Response is the terminal output of a chat turn.
type Response struct {
	Reply          string
	Intent         string
	Confidence     float64
	Entities       entity.Set
	FAQAnswer      *string
	NextAction     string
	TicketID       *int64
	ConversationID string
}

// Orchestrator wires the pipeline. All fields are read-only after
// construction; turns may run concurrently.
type Orchestrator struct {
	cascade   *intent.Cascade
	matcher   *faq.Matcher
	policy    *policy.Policy
	assistant llm.Service // nil disables the generative short-circuit
	store     *store.Store
	exporter  *metrics.Exporter
	genSem    *semaphore.Weighted
}

// New creates an orchestrator. assistant may be nil when the generative
// capability is not provisioned; exporter may be nil to disable metrics.
func New(cascade *intent.Cascade, matcher *faq.Matcher, pol *policy.Policy, assistant llm.Service, st *store.Store, exporter *metrics.Exporter) *Orchestrator {
	return &Orchestrator{
		cascade:   cascade,
		matcher:   matcher,
		policy:    pol,
		assistant: assistant,
		store:     st,
		exporter:  exporter,
		genSem:    semaphore.NewWeighted(maxConcurrentGenerations),
	}
}

// HandleMessage processes one chat turn. Every code path persists exactly one
// conversation-log entry; an error is returned only when that persistence
// fails, never for degraded NLP capabilities.
func (o *Orchestrator) HandleMessage(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	text := strings.TrimSpace(req.Message)
	if text == "" {
		return nil, fmt.Errorf("empty message")
	}

	userID := req.UserID
	if userID == "" {
		userID = "anonymous"
	}
	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	result, tier := o.cascade.Classify(ctx, text)
	entities := entity.Extract(text)
	match := o.matcher.Search(ctx, text)

	if o.exporter != nil {
		o.exporter.ObserveClassifierTier(tier)
		defer func() {
			o.exporter.ObserveTurn(result.Intent, time.Since(start).Seconds())
		}()
	}

	// Low classifier confidence: let the generative assistant try a
	// context-aware reply first. This is an explicit terminal state that
	// bypasses the dialog policy, including its ticket rules. Any failure
	// fails closed into the policy path.
	if result.Confidence < generativeConfidence && o.assistant != nil {
		if reply := o.generate(ctx, conversationID, text); reply != "" {
			response := &Response{
				Reply:          reply,
				Intent:         result.Intent,
				Confidence:     result.Confidence,
				Entities:       entities,
				FAQAnswer:      match.Answer,
				ConversationID: conversationID,
			}
			if err := o.appendLog(ctx, userID, conversationID, text, reply, result, entities); err != nil {
				return nil, err
			}
			return response, nil
		}
	}

	decision := o.policy.Decide(result.Intent, result.Confidence, entities, match)
	reply := decision.Reply

	var ticketID *int64
	if decision.CreateTicket {
		ticket, err := o.createTicket(ctx, userID, conversationID, decision.TicketSubject, text, entities)
		if err != nil {
			// The reply still stands; the user is told an agent is coming
			// even when the ticket insert fails.
			slog.Error("bot: failed to create ticket", "error", err)
		} else {
			ticketID = &ticket.ID
			reply += fmt.Sprintf("\nI created a support ticket for you: #%d. Our team will reach out soon.", ticket.ID)
			if o.exporter != nil {
				o.exporter.ObserveTicket(decision.TicketSubject)
			}
		}
	}

	if err := o.appendLog(ctx, userID, conversationID, text, reply, result, entities); err != nil {
		return nil, err
	}

	return &Response{
		Reply:          reply,
		Intent:         result.Intent,
		Confidence:     result.Confidence,
		Entities:       entities,
		FAQAnswer:      match.Answer,
		NextAction:     decision.NextAction,
		TicketID:       ticketID,
		ConversationID: conversationID,
	}, nil
}

// generate asks the assistant for a reply using recent conversation history.
// Returns "" when generation is unavailable, times out, or produces nothing.
func (o *Orchestrator) generate(ctx context.Context, conversationID, text string) string {
	if err := o.genSem.Acquire(ctx, 1); err != nil {
		return ""
	}
	defer o.genSem.Release(1)

	messages := []llm.Message{llm.SystemPrompt(systemPrompt)}
	for _, turn := range o.history(ctx, conversationID, historyLimit) {
		if turn.UserMessage != "" {
			messages = append(messages, llm.UserMessage(turn.UserMessage))
		}
		if turn.BotReply != "" {
			messages = append(messages, llm.AssistantMessage(turn.BotReply))
		}
	}
	messages = append(messages, llm.UserMessage(text))

	reply, err := o.assistant.Chat(ctx, messages)
	if err != nil {
		slog.Warn("bot: generative assistant unavailable, falling back to policy", "error", err)
		if o.exporter != nil {
			o.exporter.ObserveGenerative("error")
		}
		return ""
	}

	reply = strings.TrimSpace(reply)
	if o.exporter != nil {
		if reply == "" {
			o.exporter.ObserveGenerative("empty")
		} else {
			o.exporter.ObserveGenerative("delegated")
		}
	}
	return reply
}

// history returns up to limit most-recent turns for a conversation, oldest
// first. Storage errors degrade to empty history, never failing the turn.
func (o *Orchestrator) history(ctx context.Context, conversationID string, limit int) []*store.ConversationLog {
	logs, err := o.store.ListConversationLogs(ctx, &store.FindConversationLog{
		ConversationID: &conversationID,
		Limit:          &limit,
	})
	if err != nil {
		slog.Warn("bot: failed to fetch conversation history", "error", err)
		return nil
	}

	// The store returns newest first; replay oldest first.
	for i, j := 0, len(logs)-1; i < j; i, j = i+1, j-1 {
		logs[i], logs[j] = logs[j], logs[i]
	}
	return logs
}

func (o *Orchestrator) createTicket(ctx context.Context, userID, conversationID, subject, text string, entities entity.Set) (*store.Ticket, error) {
	return o.store.CreateTicket(ctx, &store.Ticket{
		UserID:         userID,
		ConversationID: conversationID,
		Subject:        subject,
		Details:        fmt.Sprintf("User said: %s\nEntities: %s", text, encodeEntities(entities)),
		CreatedTs:      time.Now().Unix(),
	})
}

func (o *Orchestrator) appendLog(ctx context.Context, userID, conversationID, text, reply string, result intent.Result, entities entity.Set) error {
	if _, err := o.store.CreateConversationLog(ctx, &store.ConversationLog{
		UID:            shortuuid.New(),
		UserID:         userID,
		ConversationID: conversationID,
		UserMessage:    text,
		BotReply:       reply,
		Intent:         result.Intent,
		Confidence:     result.Confidence,
		Entities:       encodeEntities(entities),
		CreatedTs:      time.Now().Unix(),
	}); err != nil {
		return fmt.Errorf("failed to append conversation log: %w", err)
	}
	return nil
}

func encodeEntities(entities entity.Set) string {
	encoded, err := json.Marshal(entities)
	if err != nil {
		return "{}"
	}
	return string(encoded)
}
