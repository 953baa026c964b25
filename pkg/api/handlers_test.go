package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-registration/pkg/clients/emailgateway"
	"user-registration/pkg/form"
	"user-registration/pkg/logging"
	"user-registration/pkg/models"
	"user-registration/pkg/services"
	"user-registration/pkg/store"
	"user-registration/pkg/store/memory"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// countingStore records how many documents were written per collection.
type countingStore struct {
	*memory.Store

	mu      sync.Mutex
	created map[string]int
}

func newCountingStore() *countingStore {
	return &countingStore{Store: memory.New(), created: map[string]int{}}
}

func (s *countingStore) CreateDocument(ctx context.Context, collection string, doc store.Document) (string, error) {
	id, err := s.Store.CreateDocument(ctx, collection, doc)
	if err == nil {
		s.mu.Lock()
		s.created[collection]++
		s.mu.Unlock()
	}
	return id, err
}

func (s *countingStore) count(collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.created[collection]
}

type testEnv struct {
	router *gin.Engine
	store  *countingStore
	cookie *http.Cookie
}

func newTestEnv(t *testing.T, gatewayStatus int) *testEnv {
	t.Helper()
	gw := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(gatewayStatus)
		_, _ = w.Write([]byte(`{"success":true,"taskId":"task-1"}`))
	}))
	t.Cleanup(gw.Close)

	mem := newCountingStore()
	logger := logging.Discard()
	svc := services.NewRegistrationService(mem, emailgateway.NewClient(gw.URL, nil), logger)
	sessions := form.NewSessions(time.Minute, func() *form.Controller {
		return form.NewController(svc, logger)
	})
	h := NewHandlers(sessions, time.Minute, logger)
	return &testEnv{router: NewRouter(h, logger, []string{"http://localhost:3000"}), store: mem}
}

func (e *testEnv) do(t *testing.T, method, path, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if e.cookie != nil {
		req.AddCookie(e.cookie)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookie {
			e.cookie = c
		}
	}
	return w
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var v map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t, http.StatusAccepted)
	w := env.do(t, http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestShowForm_RendersFieldsAndSetsCookie(t *testing.T) {
	env := newTestEnv(t, http.StatusAccepted)
	w := env.do(t, http.MethodGet, "/", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `<label for="email" class="form-label">Email Address *</label>`)
	assert.Contains(t, body, `name="firstName"`)
	assert.Contains(t, body, `name="lastName"`)
	assert.Contains(t, body, "Register")
	assert.Equal(t, 1, strings.Count(body, `aria-live="polite"`))
	assert.Contains(t, body, `<div id="status" class="status-message" role="status" aria-live="polite"></div>`)
	require.NotNil(t, env.cookie)
	assert.True(t, env.cookie.HttpOnly)
}

func TestSubmitForm_ValidationErrors(t *testing.T) {
	env := newTestEnv(t, http.StatusAccepted)
	form := url.Values{"email": {"nope"}, "firstName": {""}, "lastName": {"Doe"}}
	w := env.do(t, http.MethodPost, "/", "application/x-www-form-urlencoded", form.Encode())

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Please enter a valid email address")
	assert.Contains(t, body, "First name is required")
	assert.NotContains(t, body, "Last name is required")
	assert.Equal(t, 0, env.store.count(store.UsersCollection))
}

func TestSubmitForm_Success(t *testing.T) {
	env := newTestEnv(t, http.StatusAccepted)
	form := url.Values{"email": {"john@example.com"}, "firstName": {"John"}, "lastName": {"Doe"}}
	w := env.do(t, http.MethodPost, "/", "application/x-www-form-urlencoded", form.Encode())

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Equal(t, 1, strings.Count(body, `aria-live="polite"`))
	assert.Contains(t, body, `class="status-message status-success"`)
	assert.Contains(t, body, "Registration successful!")
	assert.NotContains(t, body, `value="john@example.com"`)
	assert.Equal(t, 1, env.store.count(store.UsersCollection))
}

func TestSubmitForm_GatewayFailureKeepsValues(t *testing.T) {
	env := newTestEnv(t, http.StatusInternalServerError)
	form := url.Values{"email": {"john@example.com"}, "firstName": {"John"}, "lastName": {"Doe"}}
	w := env.do(t, http.MethodPost, "/", "application/x-www-form-urlencoded", form.Encode())

	assert.Equal(t, http.StatusBadGateway, w.Code)
	body := w.Body.String()
	assert.Equal(t, 1, strings.Count(body, `aria-live="polite"`))
	assert.Contains(t, body, `class="status-message status-error"`)
	assert.Contains(t, body, "Email service error")
	assert.Contains(t, body, `value="john@example.com"`)
	// the record was written before the notification failed
	assert.Equal(t, 1, env.store.count(store.UsersCollection))
}

func TestJSONFlow(t *testing.T) {
	env := newTestEnv(t, http.StatusAccepted)

	w := env.do(t, http.MethodGet, "/api/form", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	v := decodeView(t, w)
	assert.Equal(t, "idle", v["state"])
	assert.Equal(t, "Register", v["submitLabel"])

	w = env.do(t, http.MethodPost, "/api/form/submit", "", "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	v = decodeView(t, w)
	assert.Len(t, v["errors"], 3)

	w = env.do(t, http.MethodPost, "/api/form/fields", "application/json", `{"name":"email","value":"john@example.com"}`)
	require.Equal(t, http.StatusOK, w.Code)
	v = decodeView(t, w)
	errs := v["errors"].(map[string]any)
	assert.NotContains(t, errs, models.FieldEmail)
	assert.Contains(t, errs, models.FieldFirstName)

	env.do(t, http.MethodPost, "/api/form/fields", "application/json", `{"name":"firstName","value":"John"}`)
	env.do(t, http.MethodPost, "/api/form/fields", "application/json", `{"name":"lastName","value":"Doe"}`)

	w = env.do(t, http.MethodPost, "/api/form/submit", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	v = decodeView(t, w)
	assert.Equal(t, "succeeded", v["state"])
	status := v["status"].(map[string]any)
	assert.Equal(t, "success", status["type"])
	values := v["values"].(map[string]any)
	assert.Equal(t, "", values["email"])
}

func TestEditField_Errors(t *testing.T) {
	env := newTestEnv(t, http.StatusAccepted)

	w := env.do(t, http.MethodPost, "/api/form/fields", "application/json", `{"name":"phone","value":"1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/form/fields", "application/json", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
