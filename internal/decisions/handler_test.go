package decisions_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"decision-backend/internal/bootstrap"
	"decision-backend/internal/decisions"
	"decision-backend/internal/shared/config"
	"decision-backend/internal/shared/server"
)

type analyzeResponseBody struct {
	RobotMessage    string `json:"robot_message"`
	Status          string `json:"status"`
	Recommendations []struct {
		ID          string   `json:"id"`
		Title       string   `json:"title"`
		Bullets     []string `json:"bullets"`
		Badge       string   `json:"badge"`
		Recommended bool     `json:"recommended"`
	} `json:"recommendations"`
	DecisionID *string `json:"decision_id"`
	Metadata   struct {
		ReceivedAt string `json:"received_at"`
		Length     int    `json:"length"`
	} `json:"metadata"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"*"},
		Env:             "dev",
	}
	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app.Router
}

func postAnalyze(t *testing.T, router *gin.Engine, payload string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/decision/analyze", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestAnalyzeShortPromptReturnsGuidance(t *testing.T) {
	router := newTestRouter(t)

	resp := postAnalyze(t, router, `{"prompt": "muy corta"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if body.Error.Code != "validation_error" {
		t.Fatalf("expected code validation_error, got %q", body.Error.Code)
	}
	want := "La descripción es muy corta. Agrega propósito, presupuesto y prioridades."
	if body.Error.Message != want {
		t.Fatalf("expected guidance message %q, got %q", want, body.Error.Message)
	}
}

func TestAnalyzeInvalidBody(t *testing.T) {
	router := newTestRouter(t)

	resp := postAnalyze(t, router, `not json`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestAnalyzeAndReadBackFromVault(t *testing.T) {
	router := newTestRouter(t)

	prompt := "portátil y ligera con 25k mxn para diseño"
	resp := postAnalyze(t, router, `{"prompt": "`+prompt+`"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body analyzeResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode analyze response: %v", err)
	}

	if body.Status != "ready" {
		t.Fatalf("expected status ready, got %q", body.Status)
	}
	if body.RobotMessage == "" {
		t.Fatalf("expected robot message")
	}
	if len(body.Recommendations) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(body.Recommendations))
	}
	wantIDs := []string{"route_balance", "route_power", "route_portability"}
	for i, rec := range body.Recommendations {
		if rec.ID != wantIDs[i] {
			t.Fatalf("slot %d: expected id %q, got %q", i, wantIDs[i], rec.ID)
		}
	}
	if !body.Recommendations[2].Recommended || body.Recommendations[0].Recommended {
		t.Fatalf("expected portability flagged for a portability prompt")
	}
	if !strings.Contains(body.Recommendations[0].Bullets[1], "25,000 MXN") {
		t.Fatalf("expected budget clause in balance bullet, got %q", body.Recommendations[0].Bullets[1])
	}
	if body.DecisionID == nil || *body.DecisionID == "" {
		t.Fatalf("expected decision id from the in-memory vault")
	}
	if body.Metadata.ReceivedAt == "" || body.Metadata.Length == 0 {
		t.Fatalf("expected receipt metadata, got %+v", body.Metadata)
	}

	// Read the persisted record back.
	reqGet := httptest.NewRequest(http.MethodGet, "/api/decision/routes/"+*body.DecisionID, nil)
	respGet := httptest.NewRecorder()
	router.ServeHTTP(respGet, reqGet)

	if respGet.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", respGet.Code)
	}
	var record struct {
		DecisionID string `json:"decision_id"`
		Prompt     string `json:"prompt"`
		RecordType string `json:"record_type"`
	}
	if err := json.NewDecoder(respGet.Body).Decode(&record); err != nil {
		t.Fatalf("decode record response: %v", err)
	}
	if record.Prompt != prompt {
		t.Fatalf("expected persisted prompt %q, got %q", prompt, record.Prompt)
	}
	if record.RecordType != "decision_route" {
		t.Fatalf("expected record_type decision_route, got %q", record.RecordType)
	}

	// And via the listing.
	reqList := httptest.NewRequest(http.MethodGet, "/api/decision/routes", nil)
	respList := httptest.NewRecorder()
	router.ServeHTTP(respList, reqList)

	if respList.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", respList.Code)
	}
	var listing []map[string]any
	if err := json.NewDecoder(respList.Body).Decode(&listing); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if len(listing) != 1 {
		t.Fatalf("expected 1 listed route, got %d", len(listing))
	}
}

func TestRouteRecordNotFound(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/decision/routes/does-not-exist", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

type failingRepo struct{}

func (failingRepo) Create(ctx context.Context, route decisions.DecisionRoute) error {
	return errors.New("vault unreachable")
}

func (failingRepo) GetByID(ctx context.Context, id string) (decisions.DecisionRoute, error) {
	return decisions.DecisionRoute{}, errors.New("vault unreachable")
}

func (failingRepo) ListRecent(ctx context.Context, limit, offset int) ([]decisions.DecisionRoute, error) {
	return nil, errors.New("vault unreachable")
}

func TestAnalyzeVaultFailureStillSucceeds(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &decisions.Service{Repo: failingRepo{}}
	router := server.NewRouter(server.RouterDeps{
		Config:          config.Config{CORSAllowOrigin: []string{"*"}},
		DecisionHandler: decisions.NewHandler(svc),
	})

	resp := postAnalyze(t, router, `{"prompt": "laptop para arquitectura y diseño"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 despite vault failure, got %d", resp.Code)
	}

	var body analyzeResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode analyze response: %v", err)
	}
	if body.DecisionID != nil {
		t.Fatalf("expected null decision_id on vault failure, got %q", *body.DecisionID)
	}
	if len(body.Recommendations) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(body.Recommendations))
	}
}

func TestGreetingAndDiagRoutes(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/", "/api/hello"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d", path, resp.Code)
		}
		var body struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("GET %s: decode: %v", path, err)
		}
		if !strings.Contains(body.Message, "Hello") {
			t.Fatalf("GET %s: expected greeting, got %q", path, body.Message)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("GET /test: expected 200, got %d", resp.Code)
	}
	var diag map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&diag); err != nil {
		t.Fatalf("decode diag response: %v", err)
	}
	if diag["backend"] != "✅ Running" {
		t.Fatalf("expected backend running, got %v", diag["backend"])
	}
	if diag["connection_status"] != "Not Connected" {
		t.Fatalf("expected Not Connected without a database, got %v", diag["connection_status"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "decision_analyze_total") {
		t.Fatalf("expected decision counters in metrics output")
	}
}
