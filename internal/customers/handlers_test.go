package customers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/fdg312/gym-tracker/internal/storage"
	"github.com/fdg312/gym-tracker/internal/storage/memory"
)

type testEnv struct {
	store   *memory.MemoryStorage
	service *Service
	handler *Handler
	gymID   int64
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	store := memory.New()
	gym := &storage.Gym{Name: "Iron Temple", AddressPlace: "Utrecht"}
	if err := store.CreateGym(context.Background(), gym); err != nil {
		t.Fatalf("create gym: %v", err)
	}

	service := NewService(store)
	service.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	return &testEnv{store: store, service: service, handler: NewHandler(service), gymID: gym.ID}
}

func (e *testEnv) request(gymID int64) CreateCustomerRequest {
	return CreateCustomerRequest{
		GymID:          gymID,
		FirstName:      "Anna",
		LastName:       "Jansen",
		BirthDate:      "1992-01-10",
		Sex:            "female",
		HeightCM:       168,
		ActivityFactor: 1.375,
	}
}

func (e *testEnv) post(t *testing.T, req CreateCustomerRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(req)
	r := httptest.NewRequest(http.MethodPost, "/v1/customers", bytes.NewReader(body))
	w := httptest.NewRecorder()
	e.handler.HandleCreate(w, r)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp.Error.Code
}

func TestHandleCreate(t *testing.T) {
	env := setup(t)

	w := env.post(t, env.request(env.gymID))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp CustomerDTO
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID == 0 || resp.BirthDate != "1992-01-10" || resp.CurrentWeightKG != nil {
		t.Errorf("unexpected customer: %+v", resp)
	}
}

func TestHandleCreateDuplicate(t *testing.T) {
	env := setup(t)

	if w := env.post(t, env.request(env.gymID)); w.Code != http.StatusCreated {
		t.Fatalf("first create: expected 201, got %d", w.Code)
	}
	w := env.post(t, env.request(env.gymID))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", w.Code)
	}
	if code := decodeError(t, w); code != "customer_exists" {
		t.Errorf("expected customer_exists, got %s", code)
	}
}

func TestHandleCreateValidation(t *testing.T) {
	env := setup(t)

	tests := []struct {
		name       string
		mut        func(*CreateCustomerRequest)
		wantStatus int
		wantCode   string
	}{
		{"empty name", func(r *CreateCustomerRequest) { r.FirstName = " " }, http.StatusBadRequest, "empty_name"},
		{"bad date", func(r *CreateCustomerRequest) { r.BirthDate = "10-01-1992" }, http.StatusBadRequest, "invalid_birth_date"},
		{"future birth", func(r *CreateCustomerRequest) { r.BirthDate = "2026-03-01" }, http.StatusBadRequest, "birth_date_in_future"},
		{"bad sex", func(r *CreateCustomerRequest) { r.Sex = "other" }, http.StatusBadRequest, "invalid_sex"},
		{"zero height", func(r *CreateCustomerRequest) { r.HeightCM = 0 }, http.StatusBadRequest, "invalid_height"},
		{"activity low", func(r *CreateCustomerRequest) { r.ActivityFactor = 1.19 }, http.StatusBadRequest, "invalid_activity_factor"},
		{"activity high", func(r *CreateCustomerRequest) { r.ActivityFactor = 1.8 }, http.StatusBadRequest, "invalid_activity_factor"},
		{"unknown gym", func(r *CreateCustomerRequest) { r.GymID = 99 }, http.StatusNotFound, "gym_not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := env.request(env.gymID)
			tt.mut(&req)

			w := env.post(t, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if code := decodeError(t, w); code != tt.wantCode {
				t.Errorf("expected error code %q, got %q", tt.wantCode, code)
			}
		})
	}
}

func TestHandleCreateAcceptsActivityBounds(t *testing.T) {
	env := setup(t)

	for i, factor := range []float64{1.2, 1.725} {
		req := env.request(env.gymID)
		req.LastName = "Bound" + strconv.Itoa(i)
		req.ActivityFactor = factor
		if w := env.post(t, req); w.Code != http.StatusCreated {
			t.Errorf("activity %v: expected 201, got %d", factor, w.Code)
		}
	}
}

func TestHandleGetIncludesCurrentWeight(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	created, err := env.service.CreateCustomer(ctx, env.request(env.gymID))
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	for _, p := range []storage.Progress{
		{CustomerID: created.ID, RecordedOn: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), WeightKG: 70},
		{CustomerID: created.ID, RecordedOn: time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC), WeightKG: 68.5},
		{CustomerID: created.ID, RecordedOn: time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), WeightKG: 69},
	} {
		env.store.AddProgress(ctx, &p)
	}

	id := strconv.FormatInt(created.ID, 10)
	req := httptest.NewRequest(http.MethodGet, "/v1/customers/"+id, nil)
	req.SetPathValue("id", id)
	w := httptest.NewRecorder()

	env.handler.HandleGet(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var resp CustomerDTO
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.CurrentWeightKG == nil || *resp.CurrentWeightKG != 68.5 {
		t.Errorf("expected current weight 68.5, got %v", resp.CurrentWeightKG)
	}
}

func TestHandleListSearch(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	for _, name := range [][2]string{{"Anna", "Jansen"}, {"Bram", "Jansen"}, {"Anna", "Smit"}} {
		req := env.request(env.gymID)
		req.FirstName, req.LastName = name[0], name[1]
		if _, err := env.service.CreateCustomer(ctx, req); err != nil {
			t.Fatalf("create %v: %v", name, err)
		}
	}

	tests := []struct {
		query string
		want  int
	}{
		{"", 3},
		{"?first_name=Anna", 2},
		{"?last_name=Jansen", 2},
		{"?first_name=Anna&last_name=Smit", 1},
		{"?first_name=Nobody", 0},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/v1/customers"+tt.query, nil)
		w := httptest.NewRecorder()

		env.handler.HandleList(w, req)

		var resp CustomersResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(resp.Customers) != tt.want {
			t.Errorf("query %q: expected %d customers, got %d", tt.query, tt.want, len(resp.Customers))
		}
	}
}

func TestHandleUpdate(t *testing.T) {
	env := setup(t)
	created, err := env.service.CreateCustomer(context.Background(), env.request(env.gymID))
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	id := strconv.FormatInt(created.ID, 10)

	patch := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPatch, "/v1/customers/"+id, bytes.NewBufferString(body))
		req.SetPathValue("id", id)
		w := httptest.NewRecorder()
		env.handler.HandleUpdate(w, req)
		return w
	}

	w := patch(`{"height_cm": 170.5, "activity_factor": 1.55}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp CustomerDTO
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.HeightCM != 170.5 || resp.ActivityFactor != 1.55 || resp.FirstName != "Anna" {
		t.Errorf("unexpected customer after patch: %+v", resp)
	}

	if w := patch(`{"sex": "unknown"}`); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid sex, got %d", w.Code)
	}
	if w := patch(`{"gym_id": 404}`); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown gym, got %d", w.Code)
	}
}

func TestHandleDeleteCascades(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	created, _ := env.service.CreateCustomer(ctx, env.request(env.gymID))
	env.store.AddProgress(ctx, &storage.Progress{CustomerID: created.ID, RecordedOn: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), WeightKG: 70})

	id := strconv.FormatInt(created.ID, 10)
	req := httptest.NewRequest(http.MethodDelete, "/v1/customers/"+id, nil)
	req.SetPathValue("id", id)
	w := httptest.NewRecorder()

	env.handler.HandleDelete(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", w.Code)
	}
	if list, _ := env.store.ListCustomerProgress(ctx, created.ID); len(list) != 0 {
		t.Errorf("expected progress to be removed, got %d entries", len(list))
	}

	w = httptest.NewRecorder()
	env.handler.HandleDelete(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 on second delete, got %d", w.Code)
	}
}
