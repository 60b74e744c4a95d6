package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jask/invoicedesk/internal/database/repository"
	"github.com/jask/invoicedesk/internal/service"
)

// PresetHandler serves /api/presets.
type PresetHandler struct {
	BaseHandler
	svc *service.PresetService
}

func (h *PresetHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/presets", h.List)
	rg.POST("/presets", h.Create)
	rg.PUT("/presets/:id", h.Update)
	rg.DELETE("/presets/:id", h.Delete)
}

func (h *PresetHandler) List(c *gin.Context) {
	presets, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]presetResponse, 0, len(presets))
	for _, p := range presets {
		out = append(out, toPresetResponse(p))
	}
	c.JSON(http.StatusOK, out)
}

func (h *PresetHandler) Create(c *gin.Context) {
	var req presetRequest
	if !h.bind(c, &req) {
		return
	}
	p := repository.CompanyProfile{}
	apply(&p.CompanyName, req.CompanyName)
	apply(&p.CompanyAddress, req.CompanyAddress)
	apply(&p.CompanyEmail, req.CompanyEmail)
	apply(&p.CompanyPhone, req.CompanyPhone)
	id, err := h.svc.Create(c.Request.Context(), p)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.created(c, id)
}

func (h *PresetHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req presetRequest
	if !h.bind(c, &req) {
		return
	}
	err := h.svc.Update(c.Request.Context(), id, service.PresetPatch{
		CompanyName:    req.CompanyName,
		CompanyAddress: req.CompanyAddress,
		CompanyEmail:   req.CompanyEmail,
		CompanyPhone:   req.CompanyPhone,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.updated(c)
}

func (h *PresetHandler) Delete(c *gin.Context) {
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

func apply[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
