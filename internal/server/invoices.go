package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jask/invoicedesk/internal/logger"
	"github.com/jask/invoicedesk/internal/money"
	"github.com/jask/invoicedesk/internal/printing"
	"github.com/jask/invoicedesk/internal/service"
)

// InvoiceHandler serves /api/invoices including PDF download and email.
type InvoiceHandler struct {
	BaseHandler
	svc  *service.InvoiceService
	mail *service.MailService
}

func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/invoices", h.List)
	rg.POST("/invoices", h.Create)
	rg.GET("/invoices/:id", h.Get)
	rg.PUT("/invoices/:id", h.Update)
	rg.DELETE("/invoices/:id", h.Delete)
	rg.GET("/invoices/:id/pdf", h.PDF)
	rg.POST("/invoices/:id/send", h.Send)
}

// List is ordered newest date first.
func (h *InvoiceHandler) List(c *gin.Context) {
	invoices, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]invoiceSummaryResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, invoiceSummaryResponse{
			ID:     inv.ID,
			Client: inv.ClientName,
			Date:   inv.Date,
			Total:  money.ToFloat(inv.TotalCents),
		})
	}
	c.JSON(http.StatusOK, out)
}

func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	inv, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toInvoiceResponse(inv))
}

func (h *InvoiceHandler) Create(c *gin.Context) {
	var req invoiceRequest
	if !h.bind(c, &req) {
		return
	}
	if req.ClientID == 0 {
		h.badRequest(c, "client_id is required")
		return
	}
	id, total, err := h.svc.Create(c.Request.Context(), req.input())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "total": money.ToFloat(total)})
}

// Update replaces every line; omitted company fields keep their values.
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req invoiceRequest
	if !h.bind(c, &req) {
		return
	}
	if err := h.svc.Update(c.Request.Context(), id, req.input()); err != nil {
		h.fail(c, err)
		return
	}
	h.updated(c)
}

func (h *InvoiceHandler) Delete(c *gin.Context) {
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

func (h *InvoiceHandler) PDF(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	pdf, _, err := h.svc.RenderPDF(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	logger.FromGin(c, h.log).Debug("invoice pdf rendered", zap.Int64("invoice_id", id), zap.Int("bytes", len(pdf)))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", printing.Filename(id)))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// Send mails the invoice PDF to the client from the chosen SMTP account.
func (h *InvoiceHandler) Send(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req accountRequest
	if !h.bind(c, &req) {
		return
	}
	if err := h.mail.SendInvoice(c.Request.Context(), id, req.ref()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}
