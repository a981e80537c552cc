package benefit

import (
	"net/http"

	"go-welfare/internal/shared/apperror"
	"go-welfare/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("benefit.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("benefit.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) GetLimits(c *gin.Context) {
	resp, err := h.service.GetLimits(c.Request.Context(), c.GetString("company_id"))
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetRemaining(c *gin.Context) {
	resp, err := h.service.GetRemaining(
		c.Request.Context(),
		c.GetString("company_id"),
		c.GetString("employee_id"),
		c.Param("type"),
	)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		h.logger.Warn("remaining lookup failed",
			zap.String("request_type", c.Param("type")),
			zap.String("code", httpErr.Code),
		)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
