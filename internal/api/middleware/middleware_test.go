package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth(t *testing.T) {
	var gotUserID string
	h := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = GetUserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("user id stored in context", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(HeaderUserID, " client-1 ")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "client-1", gotUserID)
	})
}

func TestCountry(t *testing.T) {
	var got string
	h := Country(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetCountry(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(HeaderCountry, "in")
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, "IN", got)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "", got)
}

func TestInternalToken(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name       string
		configured string
		header     string
		wantStatus int
	}{
		{name: "not configured", configured: "", header: "", wantStatus: http.StatusForbidden},
		{name: "not configured with header", configured: "", header: "anything", wantStatus: http.StatusForbidden},
		{name: "valid", configured: "secret", header: "secret", wantStatus: http.StatusNoContent},
		{name: "wrong", configured: "secret", header: "nope", wantStatus: http.StatusForbidden},
		{name: "missing", configured: "secret", header: "", wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.header != "" {
				r.Header.Set(HeaderInternalToken, tt.header)
			}
			w := httptest.NewRecorder()
			InternalToken(tt.configured)(ok).ServeHTTP(w, r)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

type observed struct {
	method string
	path   string
	status int
}

type recorderStub struct {
	mu    sync.Mutex
	calls []observed
}

func (s *recorderStub) ObserveHTTPRequest(method, path string, status int, _ time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, observed{method: method, path: path, status: status})
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	rec := &recorderStub{}
	r := mux.NewRouter()
	r.Use(MetricsMiddleware(rec))
	r.HandleFunc("/bookings/{bookingId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bookings/abc", nil))

	require.Len(t, rec.calls, 1)
	assert.Equal(t, observed{method: http.MethodGet, path: "/bookings/{bookingId}", status: http.StatusNotFound}, rec.calls[0])
}
