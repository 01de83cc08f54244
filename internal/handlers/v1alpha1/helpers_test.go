package v1alpha1_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
	. "github.com/onsi/gomega"
	"github.com/solosphere/marketplace/internal/auth"
	"github.com/solosphere/marketplace/internal/config"
	handlers "github.com/solosphere/marketplace/internal/handlers/v1alpha1"
	"github.com/solosphere/marketplace/internal/service"
	"github.com/solosphere/marketplace/internal/store"
)

func newRouter(s store.Store, opts ...service.BidServiceOption) (chi.Router, *auth.CookieAuthenticator) {
	cfg := config.NewDefault()
	authenticator, err := auth.NewCookieAuthenticator(cfg.Service.Auth, false)
	Expect(err).To(BeNil())

	router := chi.NewRouter()
	handlers.NewServiceHandler(service.NewJobService(s), service.NewBidService(s, opts...), authenticator).Routes(router)
	return router, authenticator
}

func do(router http.Handler, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var payload bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			payload.WriteString(raw)
		} else {
			Expect(json.NewEncoder(&payload).Encode(body)).To(Succeed())
		}
	}

	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](rec *httptest.ResponseRecorder) T {
	var v T
	Expect(json.Unmarshal(rec.Body.Bytes(), &v)).To(Succeed(), rec.Body.String())
	return v
}
