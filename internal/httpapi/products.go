package httpapi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/insurai/miria/internal/advisor"
	"github.com/insurai/miria/internal/catalog"
)

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := catalog.Filter{
		VehicleKind:  q.Get("vehicleKind"),
		MainCoverage: q.Get("mainCoverage"),
		Category:     q.Get("category"),
	}

	products, err := s.store.ListProducts(r.Context(), filter)
	if err != nil {
		s.log.Error("product listing failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "catalog_error", "Failed to load products")
		return
	}
	if products == nil {
		products = []catalog.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

type compareRequest struct {
	ProductAID int              `json:"product_a_id"`
	ProductBID int              `json:"product_b_id"`
	Profile    *advisor.Profile `json:"profile,omitempty"`
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if req.ProductAID <= 0 || req.ProductBID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_request", "both product IDs are required")
		return
	}

	result, err := s.comparer.Compare(r.Context(), req.ProductAID, req.ProductBID, req.Profile)
	if errors.Is(err, catalog.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "product_not_found", "one or both products not found")
		return
	}
	if err != nil {
		s.log.Error("comparison failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "comparison_failed",
			"Failed to generate comparison. Please ensure both services are running and try again.")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
