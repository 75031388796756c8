package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/greenmarket/greenmarket-backend/api/responses"
	"github.com/greenmarket/greenmarket-backend/internal/catalog"
	"github.com/greenmarket/greenmarket-backend/pkg/db/models"
	pkgerrors "github.com/greenmarket/greenmarket-backend/pkg/errors"
	"github.com/greenmarket/greenmarket-backend/pkg/logger"
)

// ProductsController serves the public catalog.
type ProductsController struct {
	catalog *catalog.Repository
	logger  *logger.Logger
}

func NewProductsController(repo *catalog.Repository, logg *logger.Logger) *ProductsController {
	return &ProductsController{catalog: repo, logger: logg}
}

type productResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	PriceCents  int64  `json:"price"`
	Category    string `json:"category"`
	Image       string `json:"image"`
	Description string `json:"description"`
	Stock       int    `json:"stock"`
}

func toProductResponse(p *models.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		PriceCents:  p.PriceCents,
		Category:    p.Category,
		Image:       p.Image,
		Description: p.Description,
		Stock:       p.Stock,
	}
}

// List returns every product as a bare JSON array.
func (c *ProductsController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	products, err := c.catalog.List(ctx)
	if err != nil {
		responses.WriteError(ctx, c.logger, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products"))
		return
	}

	out := make([]productResponse, len(products))
	for i := range products {
		out[i] = toProductResponse(&products[i])
	}
	responses.WriteSuccess(w, out)
}

// Detail returns one product. A non-numeric id is treated the same as a
// missing product.
func (c *ProductsController) Detail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	product, err := c.findByParam(r)
	if err != nil {
		responses.WriteError(ctx, c.logger, w, err)
		return
	}

	responses.WriteSuccess(w, toProductResponse(product))
}

// Stock reports whether a product can be purchased and how many remain.
func (c *ProductsController) Stock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	product, err := c.findByParam(r)
	if err != nil {
		responses.WriteError(ctx, c.logger, w, err)
		return
	}

	responses.WriteSuccess(w, map[string]any{
		"available": product.Stock > 0,
		"stock":     product.Stock,
	})
}

func (c *ProductsController) findByParam(r *http.Request) (*models.Product, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
	}
	return c.catalog.FindByID(r.Context(), id)
}
