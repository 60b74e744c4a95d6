package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jask/invoicedesk/internal/service"
)

// SMTPHandler serves sender accounts plus the verify and test-email actions.
type SMTPHandler struct {
	BaseHandler
	svc *service.MailService
}

func (h *SMTPHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/smtp-configs", h.List)
	rg.POST("/smtp-configs", h.Create)
	rg.DELETE("/smtp-configs/:id", h.Delete)
	rg.POST("/verify-smtp", h.Verify)
	rg.POST("/test-email", h.TestEmail)
}

func (h *SMTPHandler) List(c *gin.Context) {
	accounts, err := h.svc.ListAccounts(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]smtpResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, smtpResponse{ID: a.ID, Email: a.Email})
	}
	c.JSON(http.StatusOK, out)
}

// Create stores the account only after the SMTP server accepts the login.
func (h *SMTPHandler) Create(c *gin.Context) {
	var req createSMTPRequest
	if !h.bind(c, &req) {
		return
	}
	id, err := h.svc.AddAccount(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.created(c, id)
}

func (h *SMTPHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteAccount(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	h.deleted(c)
}

func (h *SMTPHandler) Verify(c *gin.Context) {
	var req accountRequest
	if !h.bind(c, &req) {
		return
	}
	if err := h.svc.Verify(c.Request.Context(), req.ref()); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SMTPHandler) TestEmail(c *gin.Context) {
	var req accountRequest
	if !h.bind(c, &req) {
		return
	}
	if err := h.svc.SendTest(c.Request.Context(), req.ref()); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
