package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jask/invoicedesk/internal/database/repository"
	"github.com/jask/invoicedesk/internal/money"
	"github.com/jask/invoicedesk/internal/service"
)

// ProductHandler serves /api/products.
type ProductHandler struct {
	BaseHandler
	svc *service.ProductService
}

func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/products", h.List)
	rg.POST("/products", h.Create)
	rg.PUT("/products/:id", h.Update)
	rg.DELETE("/products/:id", h.Delete)
}

func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req productRequest
	if !h.bind(c, &req) {
		return
	}
	if req.Price == nil {
		h.badRequest(c, "price is required")
		return
	}
	p := repository.Product{PriceCents: money.FromFloat(*req.Price)}
	apply(&p.Name, req.Name)
	apply(&p.Description, req.Description)
	id, err := h.svc.Create(c.Request.Context(), p)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.created(c, id)
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req productRequest
	if !h.bind(c, &req) {
		return
	}
	patch := service.ProductPatch{Name: req.Name, Description: req.Description}
	if req.Price != nil {
		cents := money.FromFloat(*req.Price)
		patch.PriceCents = &cents
	}
	if err := h.svc.Update(c.Request.Context(), id, patch); err != nil {
		h.fail(c, err)
		return
	}
	h.updated(c)
}

// Delete removes the product from every invoice and re-totals them.
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	h.deleted(c)
}
