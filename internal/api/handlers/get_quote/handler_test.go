package get_quote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/api/middleware"
	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/testfixtures"
	getQuote "github.com/m04kA/SMC-ConsultationService/internal/usecase/get_quote"
)

type useCaseStub struct {
	got *getQuote.Request
}

func (s *useCaseStub) Execute(ctx context.Context, req *getQuote.Request) (*getQuote.Response, error) {
	s.got = req
	return &getQuote.Response{ServiceID: req.ServiceID, Tier: domain.TierStandard, Country: req.Country, Amount: 6150}, nil
}

func serve(t *testing.T, uc GetQuoteUseCase, target string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewHandler(uc, testfixtures.NopLogger{})
	r := mux.NewRouter()
	r.Use(middleware.Country, middleware.Auth)
	r.HandleFunc("/api/v1/services/{serviceId}/quote", h.Handle).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandle_CountryFromGeoHeader(t *testing.T) {
	stub := &useCaseStub{}

	w := serve(t, stub, "/api/v1/services/1/quote?tier=standard", map[string]string{
		middleware.HeaderUserID:  "c1",
		middleware.HeaderCountry: "in",
	})

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, stub.got)
	assert.Equal(t, "IN", stub.got.Country)
	assert.Equal(t, "1", stub.got.ServiceID)
}

func TestHandle_QueryCountryIgnored(t *testing.T) {
	stub := &useCaseStub{}

	w := serve(t, stub, "/api/v1/services/1/quote?tier=standard&country=India", map[string]string{
		middleware.HeaderUserID: "c1",
	})

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, stub.got)
	assert.Equal(t, "", stub.got.Country)
}
