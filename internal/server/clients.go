package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jask/invoicedesk/internal/database/repository"
	"github.com/jask/invoicedesk/internal/service"
)

// ClientHandler serves /api/clients.
type ClientHandler struct {
	BaseHandler
	svc *service.ClientService
}

func (h *ClientHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/clients", h.List)
	rg.POST("/clients", h.Create)
	rg.PUT("/clients/:id", h.Update)
	rg.DELETE("/clients/:id", h.Delete)
}

func (h *ClientHandler) List(c *gin.Context) {
	clients, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]clientResponse, 0, len(clients))
	for _, cl := range clients {
		out = append(out, toClientResponse(cl))
	}
	c.JSON(http.StatusOK, out)
}

func (h *ClientHandler) Create(c *gin.Context) {
	var req clientRequest
	if !h.bind(c, &req) {
		return
	}
	var cl repository.Client
	apply(&cl.Name, req.Name)
	apply(&cl.Email, req.Email)
	apply(&cl.Address, req.Address)
	apply(&cl.Phone, req.Phone)
	id, err := h.svc.Create(c.Request.Context(), cl)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.created(c, id)
}

func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req clientRequest
	if !h.bind(c, &req) {
		return
	}
	err := h.svc.Update(c.Request.Context(), id, service.ClientPatch{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		Phone:   req.Phone,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.updated(c)
}

// Delete also removes the client's invoices.
func (h *ClientHandler) Delete(c *gin.Context) {
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
