package v1

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/chatdesk/bot"
	"github.com/hrygo/chatdesk/nlp/entity"
)

// ChatRequest is the transport schema for one chat turn.
type ChatRequest struct {
	Message        string `json:"message"`
	UserID         string `json:"user_id,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// ChatResponse mirrors the pipeline's terminal output.
type ChatResponse struct {
	Reply          string     `json:"reply"`
	Intent         string     `json:"intent"`
	Confidence     float64    `json:"confidence"`
	Entities       entity.Set `json:"entities"`
	FAQAnswer      *string    `json:"faq_answer,omitempty"`
	NextAction     string     `json:"next_action,omitempty"`
	TicketID       *int64     `json:"ticket_id,omitempty"`
	ConversationID string     `json:"conversation_id"`
}

// Chat handles POST /api/v1/chat. Malformed input is rejected here; past
// this boundary every turn yields a well-formed reply.
func (s *APIV1Service) Chat(c echo.Context) error {
	request := &ChatRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
	}
	if strings.TrimSpace(request.Message) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message must not be empty")
	}

	response, err := s.Orchestrator.HandleMessage(c.Request().Context(), bot.Request{
		Message:        request.Message,
		UserID:         request.UserID,
		ConversationID: request.ConversationID,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to handle message").SetInternal(err)
	}

	return c.JSON(http.StatusOK, &ChatResponse{
		Reply:          response.Reply,
		Intent:         response.Intent,
		Confidence:     response.Confidence,
		Entities:       response.Entities,
		FAQAnswer:      response.FAQAnswer,
		NextAction:     response.NextAction,
		TicketID:       response.TicketID,
		ConversationID: response.ConversationID,
	})
}
