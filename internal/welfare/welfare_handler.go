package welfare

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	"go-welfare/internal/shared/apperror"
	"go-welfare/internal/shared/response"
	"go-welfare/internal/shared/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	files   *storage.FileStorage
	logger  *zap.Logger
}

func NewHandler(service Service, files *storage.FileStorage, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("welfare.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("welfare.handler")
	}
	return &Handler{service: service, files: files, logger: l}
}

// actorFromContext builds the explicit session object every service call
// receives. The auth middleware has already validated these keys.
func actorFromContext(c *gin.Context) Actor {
	role, _ := ParseRole(c.GetString("role"))
	return Actor{
		UserID:     c.GetString("user_id"),
		EmployeeID: c.GetString("employee_id"),
		CompanyID:  c.GetString("company_id"),
		Name:       c.GetString("employee_name"),
		Role:       role,
	}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("welfare request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	actor := actorFromContext(c)

	var req CreateWelfareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create welfare validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid input", err.Error())
		return
	}

	resp, err := h.service.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	actor := actorFromContext(c)

	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid input", err.Error())
		return
	}

	resp, err := h.service.GetAll(c.Request.Context(), actor, q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if pageSize < 1 {
		pageSize = 10
	}

	total := int64(len(resp))
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(resp) {
		start = len(resp)
	}
	if end > len(resp) {
		end = len(resp)
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, resp[start:end], &meta)
}

func (h *Handler) GetById(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.GetString("company_id"), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetTrail(c *gin.Context) {
	resp, err := h.service.GetTrail(c.Request.Context(), c.GetString("company_id"), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	var req DecisionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid input", err.Error())
			return
		}
	}

	resp, err := h.service.Approve(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Reject(c *gin.Context) {
	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid input", err.Error())
		return
	}

	resp, err := h.service.Reject(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) RequestRevision(c *gin.Context) {
	var req RevisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid input", err.Error())
		return
	}

	resp, err := h.service.RequestRevision(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Resubmit(c *gin.Context) {
	resp, err := h.service.Resubmit(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) AddAttachment(c *gin.Context) {
	id := c.Param("id")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "file is required", err.Error())
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "cannot read uploaded file", err.Error())
		return
	}
	defer src.Close()

	relPath := filepath.Join("attachments", id, fmt.Sprintf("%s_%s", uuid.NewString()[:8], filepath.Base(fileHeader.Filename)))
	storedPath, err := h.files.Save(relPath, src)
	if err != nil {
		h.logger.Error("store attachment failed", zap.String("welfare_id", id), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to store attachment", nil)
		return
	}

	resp, err := h.service.AddAttachment(c.Request.Context(), actorFromContext(c), id, AttachmentUpload{
		FileName:    fileHeader.Filename,
		FilePath:    storedPath,
		ContentType: fileHeader.Header.Get("Content-Type"),
	})
	if err != nil {
		// The blob must not outlive a rejected attachment row.
		if rmErr := h.files.Remove(storedPath); rmErr != nil {
			h.logger.Warn("remove rejected attachment blob failed", zap.String("path", storedPath), zap.Error(rmErr))
		}
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetForm(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.GetString("company_id"), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if resp.FormPath == nil || !h.files.Exists(*resp.FormPath) {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "form has not been generated yet", nil)
		return
	}

	f, err := h.files.Open(*resp.FormPath)
	if err != nil {
		h.logger.Error("open form failed", zap.String("welfare_id", resp.ID), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to open form", nil)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", resp.RequestNumber+".pdf"))
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, f)
}
