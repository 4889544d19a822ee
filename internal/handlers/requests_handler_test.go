package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brbanco/go-account-opening/internal/requests"
)

// stubStore is an in-memory RequestStore for handler tests.
type stubStore struct {
	records   map[int64]*requests.Record
	nextID    int64
	activeCPF map[string]bool
	createErr error
}

func newStubStore() *stubStore {
	return &stubStore{records: map[int64]*requests.Record{}, activeCPF: map[string]bool{}}
}

func (s *stubStore) Create(ctx context.Context, rec requests.Record) (*requests.Record, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.nextID++
	rec.ID = s.nextID
	rec.Status = requests.StatusInitiated
	rec.CreatedAt = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	rec.UpdatedAt = rec.CreatedAt
	if rec.Brand == "" {
		rec.Brand = requests.DefaultBrand()
	}
	s.records[rec.ID] = &rec
	return &rec, nil
}

func (s *stubStore) Get(ctx context.Context, id int64) (*requests.Record, error) {
	return s.records[id], nil
}

func (s *stubStore) GetByCPF(ctx context.Context, cpf string) (*requests.Record, error) {
	for _, rec := range s.records {
		if rec.CPF == cpf {
			return rec, nil
		}
	}
	return nil, nil
}

func (s *stubStore) ExistsActiveByCPF(ctx context.Context, cpf string) (bool, error) {
	return s.activeCPF[cpf], nil
}

// stubStarter records which requests were started.
type stubStarter struct {
	started []int64
}

func (s *stubStarter) StartAsync(ctx context.Context, requestID int64) {
	s.started = append(s.started, requestID)
}

func testRouter(store *stubStore, starter *stubStarter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRequestRoutes(r, HandlerConfig{Store: store, Orchestrator: starter})
	return r
}

const validBody = `{"cpf":"12345678901","name":"Maria Silva","email":"maria@example.com","phone":"21999998888","brand":"FLAMENGO"}`

func TestPostRequests_Created(t *testing.T) {
	store := newStubStore()
	starter := &stubStarter{}
	r := testRouter(store, starter)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/requests", strings.NewReader(validBody)))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp["status"] != requests.StatusInitiated {
		t.Fatalf("expected INITIATED, got %v", resp["status"])
	}
	if resp["brand"] != "FLAMENGO" {
		t.Fatalf("expected FLAMENGO, got %v", resp["brand"])
	}
	if w.Header().Get("Location") != "/requests/1" {
		t.Fatalf("location header %q", w.Header().Get("Location"))
	}

	if len(starter.started) != 1 || starter.started[0] != 1 {
		t.Fatalf("pipeline not started for the new request: %v", starter.started)
	}
}

func TestPostRequests_DefaultsBrand(t *testing.T) {
	store := newStubStore()
	r := testRouter(store, &stubStarter{})

	body := `{"cpf":"12345678901","name":"Maria Silva","email":"maria@example.com","phone":"21999998888"}`
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/requests", strings.NewReader(body)))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if store.records[1].Brand != requests.DefaultBrand() {
		t.Fatalf("expected default brand, got %s", store.records[1].Brand)
	}
}

func TestPostRequests_ValidationFailure(t *testing.T) {
	starter := &stubStarter{}
	r := testRouter(newStubStore(), starter)

	body := `{"cpf":"123","name":"Maria Silva","email":"maria@example.com","phone":"21999998888"}`
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/requests", strings.NewReader(body)))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if len(starter.started) != 0 {
		t.Fatal("pipeline must not start for an invalid request")
	}
}

func TestPostRequests_DuplicateCPF(t *testing.T) {
	store := newStubStore()
	store.activeCPF["12345678901"] = true
	starter := &stubStarter{}
	r := testRouter(store, starter)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/requests", strings.NewReader(validBody)))

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	if len(starter.started) != 0 {
		t.Fatal("pipeline must not start for a duplicate cpf")
	}
}

func TestPostRequests_CreateFailure(t *testing.T) {
	store := newStubStore()
	store.createErr = errors.New("dynamodb unavailable")
	r := testRouter(store, &stubStarter{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/requests", strings.NewReader(validBody)))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestGetRequest(t *testing.T) {
	store := newStubStore()
	store.records[7] = &requests.Record{
		ID: 7, CPF: "12345678901", Name: "Maria Silva",
		Brand: requests.BrandAzul, Status: requests.StatusRejected,
		RejectionReason: "SERASA - pendências",
	}
	r := testRouter(store, &stubStarter{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/requests/7", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["rejectionReason"] != "SERASA - pendências" {
		t.Fatalf("rejection reason missing: %v", resp)
	}
}

func TestGetRequest_NotFound(t *testing.T) {
	r := testRouter(newStubStore(), &stubStarter{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/requests/99", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestGetRequest_InvalidID(t *testing.T) {
	r := testRouter(newStubStore(), &stubStarter{})

	for _, id := range []string{"abc", "0", "-1"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/requests/"+id, nil))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("id %q: expected 400, got %d", id, w.Code)
		}
	}
}

func TestGetByCPF(t *testing.T) {
	store := newStubStore()
	store.records[3] = &requests.Record{ID: 3, CPF: "12345678901", Status: requests.StatusAccountOpened}
	r := testRouter(store, &stubStarter{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/requests/cpf/12345678901", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/requests/cpf/00000000000", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestExistsByCPF_BareBooleanBody(t *testing.T) {
	store := newStubStore()
	store.activeCPF["12345678901"] = true
	r := testRouter(store, &stubStarter{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/requests/cpf/12345678901/exists", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	// The body is a bare JSON boolean that a client can decode directly.
	if got := strings.TrimSpace(w.Body.String()); got != "true" {
		t.Fatalf("expected bare boolean true, got %q", got)
	}
	var exists bool
	if err := json.Unmarshal(w.Body.Bytes(), &exists); err != nil {
		t.Fatalf("body does not decode as a boolean: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/requests/cpf/00000000000/exists", nil))
	if got := strings.TrimSpace(w.Body.String()); got != "false" {
		t.Fatalf("expected bare boolean false, got %q", got)
	}
}
