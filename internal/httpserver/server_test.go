package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fdg312/gym-tracker/internal/config"
	"github.com/fdg312/gym-tracker/internal/storage/memory"
)

func newTestServer(cfg *config.Config) http.Handler {
	if cfg.ReportsMaxCustomers == 0 {
		cfg.ReportsMaxCustomers = 10
	}
	if cfg.CaloriesBatchConcurrency == 0 {
		cfg.CaloriesBatchConcurrency = 2
	}
	return NewWithStorage(cfg, memory.New(), nil).Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeID(t *testing.T, w *httptest.ResponseRecorder) int64 {
	t.Helper()
	var resp struct {
		ID int64 `json:"id"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp.ID
}

func TestHealthz(t *testing.T) {
	h := newTestServer(&config.Config{Port: 8080})

	w := do(t, h, http.MethodGet, "/healthz", nil)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("expected status=ok, got %s", resp["status"])
	}
	if w.Header().Get(requestIDHeader) == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestHealthzMethodNotAllowed(t *testing.T) {
	h := newTestServer(&config.Config{Port: 8080})

	w := do(t, h, http.MethodPost, "/healthz", nil)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func TestCalorieFlow(t *testing.T) {
	h := newTestServer(&config.Config{Port: 8080})

	w := do(t, h, http.MethodPost, "/v1/gyms", map[string]string{"name": "Iron Temple", "address_place": "Utrecht"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create gym: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	gymID := decodeID(t, w)

	w = do(t, h, http.MethodPost, "/v1/customers", map[string]any{
		"gym_id":          gymID,
		"first_name":      "Jan",
		"last_name":       "de Vries",
		"birth_date":      "1992-01-10",
		"sex":             "male",
		"height_cm":       180,
		"activity_factor": 1.5,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create customer: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	customerID := decodeID(t, w)

	// no data yet
	w = do(t, h, http.MethodGet, fmt.Sprintf("/v1/customers/%d/daily-calorie-intake", customerID), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("intake without data: expected 404, got %d", w.Code)
	}

	today := time.Now().UTC()
	w = do(t, h, http.MethodPost, fmt.Sprintf("/v1/customers/%d/progress", customerID), map[string]any{
		"weight_kg":   80,
		"recorded_on": today.Format("2006-01-02"),
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("add progress: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = do(t, h, http.MethodPost, fmt.Sprintf("/v1/customers/%d/goals", customerID), map[string]any{
		"target_weight_kg": 75,
		"start_date":       today.AddDate(0, 0, -10).Format("2006-01-02"),
		"end_date":         today.AddDate(0, 0, 90).Format("2006-01-02"),
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create goal: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = do(t, h, http.MethodGet, fmt.Sprintf("/v1/customers/%d/daily-calorie-intake?from_start_date=true", customerID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("intake: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var report struct {
		DeadlineDays int `json:"deadline_days"`
		Result       struct {
			GoalType    string `json:"goal_type"`
			IsRealistic bool   `json:"is_realistic"`
		} `json:"result"`
	}
	if err := json.NewDecoder(w.Body).Decode(&report); err != nil {
		t.Fatalf("failed to decode report: %v", err)
	}
	if report.DeadlineDays != 100 {
		t.Errorf("expected 100 deadline days from goal start, got %d", report.DeadlineDays)
	}
	if report.Result.GoalType != "weightloss" || !report.Result.IsRealistic {
		t.Errorf("unexpected result: %+v", report.Result)
	}

	w = do(t, h, http.MethodPost, "/v1/calories/batch", map[string]any{"customer_ids": []int64{customerID, 999}})
	if w.Code != http.StatusNotFound {
		t.Errorf("batch with unknown id: expected 404, got %d", w.Code)
	}

	w = do(t, h, http.MethodPost, "/v1/reports", map[string]any{"format": "csv"})
	if w.Code != http.StatusCreated {
		t.Fatalf("report: expected 201, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthRequiredInDevMode(t *testing.T) {
	h := newTestServer(&config.Config{
		Port:          8080,
		AuthMode:      config.AuthModeDev,
		AuthRequired:  true,
		JWTSecret:     "test-secret",
		JWTIssuer:     "gym-tracker-test",
		JWTTTLMinutes: 5,
	})

	if w := do(t, h, http.MethodGet, "/v1/gyms", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	w := do(t, h, http.MethodPost, "/v1/auth/dev", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("dev auth: expected 200, got %d", w.Code)
	}
	var tok struct {
		AccessToken string `json:"access_token"`
	}
	json.NewDecoder(w.Body).Decode(&tok)

	req := httptest.NewRequest(http.MethodGet, "/v1/gyms", nil)
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("expected 200 with token, got %d", rr.Code)
	}
}

func TestAuthRouteAbsentWhenDisabled(t *testing.T) {
	h := newTestServer(&config.Config{Port: 8080, AuthMode: config.AuthModeNone})

	if w := do(t, h, http.MethodPost, "/v1/auth/dev", nil); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for dev auth when disabled, got %d", w.Code)
	}
}
