package garage

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servicetrack/backend/internal/middleware"
	"github.com/servicetrack/backend/internal/store"
)

// newTestRouter mounts the handlers the way main does, with a stub in
// place of the token middleware that stamps userID on every request.
func newTestRouter(t *testing.T) (*chi.Mux, *store.Memory, string) {
	t.Helper()
	svc, st := newTestService(t)
	userID := seedUser(t, st, "router@example.com")
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUserID(req.Context(), userID)))
		})
	})
	r.Route("/vehicles", func(r chi.Router) {
		r.Post("/", h.CreateVehicle)
		r.Get("/", h.ListVehicles)
		r.Get("/{id}", h.GetVehicle)
		r.Put("/{id}", h.UpdateVehicle)
		r.Delete("/{id}", h.DeleteVehicle)
	})
	r.Route("/service-records", func(r chi.Router) {
		r.Post("/", h.CreateServiceRecord)
		r.Get("/", h.ListServiceRecords)
	})
	return r, st, userID
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestVehicleEndpointStatusCodes(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rr := do(r, http.MethodPost, "/vehicles/", `{"nickname":"commuter"}`)
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), "Vehicle created.")

	rr = do(r, http.MethodPost, "/vehicles/", `{"vin":"SHORT"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(r, http.MethodPost, "/vehicles/", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid request body.")

	rr = do(r, http.MethodGet, "/vehicles/does-not-exist", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Vehicle not found.")
}

func TestListEndpointsReturnEmptyArrays(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rr := do(r, http.MethodGet, "/vehicles/", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"vehicles":[]`)

	rr = do(r, http.MethodGet, "/service-records/", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"service_records":[]`)
}

func TestServiceRecordEndpointValidation(t *testing.T) {
	r, _, _ := newTestRouter(t)

	rr := do(r, http.MethodPost, "/vehicles/", `{"nickname":"truck"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = do(r, http.MethodPost, "/service-records/", `{"title":"oil change"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "required")
}
