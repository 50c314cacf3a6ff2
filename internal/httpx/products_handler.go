package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ariefcatur/go-shop-backend.git/internal/auth"
	"github.com/ariefcatur/go-shop-backend.git/internal/shop"
	"github.com/go-chi/chi/v5"
)

type ProductsHandler struct {
	Catalog *shop.CatalogRepo
	Orders  *shop.OrderRepo // hanya untuk hitung dashboard
	Auth    *auth.Verifier
}

type ProductReq struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	PriceCents  int    `json:"price_cents"`
	Stock       int    `json:"stock"`
}

func (h *ProductsHandler) Register(r *chi.Mux) {
	r.Get("/api/products", h.list)
	r.Get("/api/products/{id}", h.get)
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireAdmin)
		r.Post("/api/products", h.create)
		r.Put("/api/products/{id}", h.update)
		r.Delete("/api/products/{id}", h.delete)
		r.Get("/api/admin/dashboard", h.dashboard)
	})
}

func (h *ProductsHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Catalog.List(ctx, r.URL.Query().Get("search"))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	if ps == nil {
		ps = []shop.Product{}
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *ProductsHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Catalog.GetProduct(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req ProductReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Name == "" || req.PriceCents < 0 || req.Stock < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing or invalid fields"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Catalog.Create(ctx, shop.Product{
		Name: req.Name, Category: req.Category, Description: req.Description,
		ImageURL: req.ImageURL, PriceCents: req.PriceCents, Stock: req.Stock,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProductsHandler) update(w http.ResponseWriter, r *http.Request) {
	var req ProductReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.PriceCents < 0 || req.Stock < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid fields"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// edit stok admin lewat katalog, bukan ledger; tidak atomik terhadap order berjalan
	p, err := h.Catalog.Update(ctx, shop.Product{
		ID: chi.URLParam(r, "id"), Name: req.Name, Category: req.Category,
		Description: req.Description, ImageURL: req.ImageURL,
		PriceCents: req.PriceCents, Stock: req.Stock,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Catalog.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

func (h *ProductsHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	totalProducts, err := h.Catalog.Count(ctx)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	totalOrders, err := h.Orders.Count(ctx)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"total_products": totalProducts,
		"total_orders":   totalOrders,
	})
}
