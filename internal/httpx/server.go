package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ariefcatur/go-shop-backend.git/internal/shop"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDomainErr memetakan error domain ke status + body; product_id ikut
// dikirim supaya client tahu item mana yang gagal.
func writeDomainErr(w http.ResponseWriter, err error) {
	var ve *shop.ValidationError
	var pnf *shop.ProductNotFoundError
	var oos *shop.OutOfStockError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": ve.Error()})
	case errors.As(err, &pnf):
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": pnf.Error(), "reason": "PRODUCT_NOT_FOUND", "product_id": pnf.ProductID,
		})
	case errors.As(err, &oos):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error": oos.Error(), "reason": "OUT_OF_STOCK", "product_id": oos.ProductID,
			"requested": oos.Requested, "available": oos.Available,
		})
	case errors.Is(err, shop.ErrOrderNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
