package decisions

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"decision-backend/internal/shared/metrics"
	"decision-backend/internal/shared/telemetry"
)

const (
	// StatusReady marks a completed analysis.
	StatusReady = "ready"

	minPromptRunes = 15
	recordType     = "decision_route"

	// Fixed advisory copy returned with every analysis.
	robotMessage = "Entiendo tu objetivo y voy a priorizar lo que más te importa. " +
		"Aquí tienes 2–3 rutas de decisión con sus trade-offs. " +
		"¿Prefieres optimizar portabilidad, rendimiento puro o un balance claro?"
)

// Metadata describes one analyze call.
type Metadata struct {
	ReceivedAt time.Time
	Length     int
}

// Result is the outcome of one analyze call. DecisionID is empty when the
// vault write was skipped or failed.
type Result struct {
	RobotMessage    string
	Status          string
	Recommendations []Recommendation
	DecisionID      string
	Metadata        Metadata
}

// Service contains business logic for decision analyses.
type Service struct {
	// Repo is the decision vault. It may be nil; persistence is optional
	// and its failures never fail an analyze call.
	Repo Repo
}

// Analyze validates the prompt, generates the three decision routes and
// persists them best-effort.
func (s *Service) Analyze(ctx context.Context, prompt string) (Result, error) {
	start := time.Now()

	if utf8.RuneCountInString(strings.TrimSpace(prompt)) < minPromptRunes {
		metrics.IncPromptRejected()
		return Result{}, ErrPromptTooShort
	}

	routes := GenerateRoutes(prompt)

	result := Result{
		RobotMessage:    robotMessage,
		Status:          StatusReady,
		Recommendations: routes.Recommendations,
		Metadata: Metadata{
			ReceivedAt: time.Now().UTC(),
			Length:     utf8.RuneCountInString(prompt),
		},
	}

	result.DecisionID = s.persist(ctx, prompt, routes, result.Metadata)

	metrics.IncDecisionAnalyzed()
	metrics.ObserveAnalyzeDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)

	return result, nil
}

// persist writes the generated routes to the decision vault. Any failure
// degrades to an empty identifier.
func (s *Service) persist(ctx context.Context, prompt string, routes RouteSet, meta Metadata) string {
	if s.Repo == nil {
		return ""
	}

	metadata := map[string]any{
		"received_at": meta.ReceivedAt.Format(time.RFC3339),
		"length":      meta.Length,
		"signals":     routes.Signals,
	}
	if routes.HasBudget {
		metadata["budget"] = routes.Budget
	}

	route := DecisionRoute{
		ID:              uuid.NewString(),
		Prompt:          prompt,
		RobotMessage:    robotMessage,
		Recommendations: routes.Recommendations,
		Metadata:        metadata,
		RecordType:      recordType,
		CreatedAt:       meta.ReceivedAt,
	}

	if err := s.Repo.Create(ctx, route); err != nil {
		metrics.IncPersistFailed()
		telemetry.Error("decision.persist_failed", map[string]any{
			"error": err.Error(),
		})
		return ""
	}
	return route.ID
}

// Get returns a persisted decision route by ID.
func (s *Service) Get(ctx context.Context, id string) (DecisionRoute, error) {
	if s.Repo == nil {
		return DecisionRoute{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, id)
}

// List returns persisted decision routes, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]DecisionRoute, error) {
	if s.Repo == nil {
		return []DecisionRoute{}, nil
	}
	return s.Repo.ListRecent(ctx, limit, offset)
}
