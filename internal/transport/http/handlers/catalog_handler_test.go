package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	pgrepo "github.com/LV27VELASCO/ApiFamaYa/internal/repo/postgres"
	catalogsvc "github.com/LV27VELASCO/ApiFamaYa/internal/services/catalog"
	"github.com/LV27VELASCO/ApiFamaYa/internal/transport/http/dto"
)

type catalogHandlerStoreStub struct {
	services map[string]pgrepo.ServiceRecord
}

func (s *catalogHandlerStoreStub) FindServiceBySlug(_ context.Context, slug string) (pgrepo.ServiceRecord, error) {
	record, ok := s.services[slug]
	if !ok {
		return pgrepo.ServiceRecord{}, pgrepo.ErrServiceNotFound
	}
	return record, nil
}

func (s *catalogHandlerStoreStub) ListServices(_ context.Context) ([]pgrepo.ServiceRecord, error) {
	records := make([]pgrepo.ServiceRecord, 0, len(s.services))
	for _, record := range s.services {
		records = append(records, record)
	}
	return records, nil
}

func newCatalogRouter(store *catalogHandlerStoreStub) *chi.Mux {
	handler := NewCatalogHandler(catalogsvc.NewService(store))
	r := chi.NewRouter()
	r.Get("/api/services/{slug}", handler.ServiceBySlug)
	r.Get("/api/all-services", handler.AllServices)
	return r
}

func TestServiceBySlugReturnsPrices(t *testing.T) {
	router := newCatalogRouter(&catalogHandlerStoreStub{services: map[string]pgrepo.ServiceRecord{
		"instagram-followers": {
			ID:   1,
			Slug: "instagram-followers",
			Name: "Instagram Followers",
			Prices: []pgrepo.PriceRecord{
				{ID: 11, Quantity: 100, Bonus: 10, Price: 2.5},
				{ID: 12, Quantity: 500, Bonus: 50, Price: 9.99},
			},
		},
	}})

	req := httptest.NewRequest(http.MethodGet, "/api/services/instagram-followers", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d, body %q", rr.Code, http.StatusOK, rr.Body.String())
	}

	var body dto.ServiceResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Slug != "instagram-followers" || body.Name != "Instagram Followers" {
		t.Fatalf("unexpected service: %+v", body)
	}
	if len(body.Prices) != 2 {
		t.Fatalf("unexpected prices: %+v", body.Prices)
	}
	if body.Prices[0].ID != 11 || body.Prices[0].Quantity != 100 || body.Prices[0].Bonus != 10 || body.Prices[0].Price != 2.5 {
		t.Fatalf("unexpected first price: %+v", body.Prices[0])
	}
}

func TestServiceBySlugUnknownAnswers404(t *testing.T) {
	router := newCatalogRouter(&catalogHandlerStoreStub{services: map[string]pgrepo.ServiceRecord{}})

	req := httptest.NewRequest(http.MethodGet, "/api/services/twitter-followers", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNotFound)
	}
}

func TestAllServicesEmptyCatalogAnswers404(t *testing.T) {
	router := newCatalogRouter(&catalogHandlerStoreStub{services: map[string]pgrepo.ServiceRecord{}})

	req := httptest.NewRequest(http.MethodGet, "/api/all-services", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNotFound)
	}
}

func TestAllServicesReturnsEveryService(t *testing.T) {
	router := newCatalogRouter(&catalogHandlerStoreStub{services: map[string]pgrepo.ServiceRecord{
		"instagram-followers": {ID: 1, Slug: "instagram-followers", Name: "Instagram Followers"},
		"tiktok-views":        {ID: 2, Slug: "tiktok-views", Name: "TikTok Views"},
	}})

	req := httptest.NewRequest(http.MethodGet, "/api/all-services", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusOK)
	}

	var body []dto.ServiceResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body) != 2 {
		t.Fatalf("unexpected services: %+v", body)
	}
}
