// Package v1 exposes the chat pipeline as a JSON HTTP API.
package v1

import (
	"github.com/labstack/echo/v4"

	"github.com/hrygo/chatdesk/bot"
	"github.com/hrygo/chatdesk/internal/profile"
)

type APIV1Service struct {
	Profile      *profile.Profile
	Orchestrator *bot.Orchestrator
}

func NewAPIV1Service(profile *profile.Profile, orchestrator *bot.Orchestrator) *APIV1Service {
	return &APIV1Service{
		Profile:      profile,
		Orchestrator: orchestrator,
	}
}

// Register mounts the API routes on the echo server.
func (s *APIV1Service) Register(e *echo.Echo) {
	group := e.Group("/api/v1")
	group.POST("/chat", s.Chat)
}
