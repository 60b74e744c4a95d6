package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jask/invoicedesk/internal/database/repository"
	"github.com/jask/invoicedesk/internal/logger"
	"github.com/jask/invoicedesk/internal/service"
)

// BaseHandler provides the response helpers shared by every handler.
type BaseHandler struct {
	log *zap.Logger
}

func (h *BaseHandler) created(c *gin.Context, id int64) {
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *BaseHandler) updated(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *BaseHandler) deleted(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *BaseHandler) badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

func (h *BaseHandler) notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
}

// fail maps a service error onto a status code and an {error} body.
func (h *BaseHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		h.notFound(c)
	case errors.Is(err, service.ErrVerification):
		c.JSON(http.StatusBadRequest, gin.H{"error": "verification failed"})
	case errors.Is(err, service.ErrInvalid):
		h.badRequest(c, err.Error())
	case errors.Is(err, service.ErrDelivery):
		logger.FromGin(c, h.log).Warn("mail delivery failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		logger.FromGin(c, h.log).Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// pathID parses :id; a malformed id is reported as not found.
func (h *BaseHandler) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.notFound(c)
		return 0, false
	}
	return id, true
}

// bind decodes the JSON body, answering 400 on failure.
func (h *BaseHandler) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.badRequest(c, bindMessage(err))
		return false
	}
	return true
}
