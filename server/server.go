// Package server assembles the NLP pipeline and exposes it over HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/hrygo/chatdesk/ai/embedding"
	"github.com/hrygo/chatdesk/ai/llm"
	"github.com/hrygo/chatdesk/bot"
	"github.com/hrygo/chatdesk/internal/metrics"
	"github.com/hrygo/chatdesk/internal/profile"
	"github.com/hrygo/chatdesk/nlp/faq"
	"github.com/hrygo/chatdesk/nlp/intent"
	"github.com/hrygo/chatdesk/nlp/policy"
	apiv1 "github.com/hrygo/chatdesk/server/router/api/v1"
	"github.com/hrygo/chatdesk/store"
)

type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
}

// NewServer constructs every long-lived pipeline service once and wires them
// into the HTTP routes. Optional capabilities (embedding, trained model,
// generative assistant) that fail to initialize are skipped with a warning;
// the cascade's keyword tier keeps the service functional regardless.
func NewServer(ctx context.Context, profile *profile.Profile, store *store.Store) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{echo.GET, echo.POST, echo.OPTIONS},
		AllowHeaders:     []string{"*"},
		AllowCredentials: true,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			slog.Info("request", "uri", v.URI, "status", v.Status)
			return nil
		},
	}))

	s := &Server{
		Profile:    profile,
		Store:      store,
		echoServer: e,
	}

	orchestrator, exporter, err := buildPipeline(ctx, profile, store)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build chat pipeline")
	}

	apiv1.NewAPIV1Service(profile, orchestrator).Register(e)
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "mode": profile.Mode})
	})
	e.GET("/metrics", echo.WrapHandler(exporter.Handler()))

	return s, nil
}

// buildPipeline constructs the classifier cascade, FAQ matcher, policy,
// and optional generative assistant from the profile.
func buildPipeline(ctx context.Context, p *profile.Profile, st *store.Store) (*bot.Orchestrator, *metrics.Exporter, error) {
	exporter := metrics.NewExporter()

	var tiers []intent.Classifier
	var embeddingService embedding.Service

	if p.IsEmbeddingEnabled() {
		service, err := embedding.NewService(&embedding.Config{
			Provider: p.EmbeddingProvider,
			Model:    p.EmbeddingModel,
			APIKey:   p.EmbeddingAPIKey,
			BaseURL:  p.EmbeddingBaseURL,
		})
		if err != nil {
			slog.Warn("failed to initialize embedding service, semantic tier disabled", "error", err)
		} else {
			embeddingService = service
			semantic, err := intent.NewSemanticClassifier(ctx, service)
			if err != nil {
				slog.Warn("failed to build semantic classifier, tier disabled", "error", err)
			} else {
				tiers = append(tiers, semantic)
			}
		}
	}

	if p.IntentModelPath != "" {
		model, err := intent.LoadModel(p.IntentModelPath)
		if err != nil {
			slog.Warn("failed to load trained intent model, tier disabled",
				"path", p.IntentModelPath, "error", err)
		} else {
			tiers = append(tiers, intent.NewTrainedClassifier(model))
		}
	}

	tiers = append(tiers, intent.NewKeywordClassifier())
	cascade := intent.NewCascade(tiers...)

	corpus := faq.DefaultCorpus()
	if p.FAQPath != "" {
		loaded, err := faq.LoadCSV(p.FAQPath)
		if err != nil {
			slog.Warn("failed to load FAQ corpus, using built-in corpus",
				"path", p.FAQPath, "error", err)
		} else {
			corpus = loaded
		}
	}

	questions := make([]string, len(corpus))
	for i, entry := range corpus {
		questions[i] = entry.Question
	}
	var vectorizer faq.Vectorizer = faq.NewTFIDFVectorizer(questions)
	if embeddingService != nil {
		vectorizer = faq.NewEmbeddingVectorizer(embeddingService)
	}
	matcher := faq.NewMatcher(ctx, corpus, vectorizer)
	slog.Info("FAQ matcher ready", "entries", matcher.Size())

	pol := policy.New()
	pol.MinConfidence = p.MinConfidence
	pol.AutoEscalateConfidence = p.AutoEscalateConfidence

	var assistant llm.Service
	if p.IsLLMEnabled() {
		service, err := llm.NewService(&llm.Config{
			Provider: p.LLMProvider,
			Model:    p.LLMModel,
			APIKey:   p.LLMAPIKey,
			BaseURL:  p.LLMBaseURL,
			Timeout:  p.LLMTimeout,
		})
		if err != nil {
			slog.Warn("failed to initialize LLM service, generative fallback disabled", "error", err)
		} else {
			assistant = service
		}
	}

	return bot.New(cascade, matcher, pol, assistant, st, exporter), exporter, nil
}

// Start begins serving in the background; errors other than a clean close
// are logged.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	go func() {
		if err := s.echoServer.Start(addr); err != nil {
			slog.Debug("http server stopped", "error", err)
		}
	}()
	return nil
}

func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}
	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close store", "error", err)
	}

	slog.Info("chatdesk stopped properly")
}
