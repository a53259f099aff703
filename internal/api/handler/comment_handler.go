package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"unitable/backend/internal/dto"
	"unitable/backend/internal/service"
	"unitable/backend/pkg/response"
)

// CommentHandler 课程备注模块 HTTP 处理器
type CommentHandler struct {
	commentSvc service.CommentService
}

// NewCommentHandler 创建 CommentHandler
func NewCommentHandler(commentSvc service.CommentService) *CommentHandler {
	return &CommentHandler{commentSvc: commentSvc}
}

// ListComments 获取课程备注（本人全部 + 他人公开）
// GET /api/v1/courses/:id/comments
func (h *CommentHandler) ListComments(c *gin.Context) {
	courseID := c.Param("id")
	if courseID == "" {
		response.BadRequest(c, 10001, "课程ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	comments, err := h.commentSvc.List(c.Request.Context(), courseID, callerID)
	if err != nil {
		h.handleCommentError(c, err)
		return
	}

	response.OK(c, gin.H{"list": comments})
}

// CreateComment 创建课程备注
// POST /api/v1/courses/:id/comments
func (h *CommentHandler) CreateComment(c *gin.Context) {
	courseID := c.Param("id")
	if courseID == "" {
		response.BadRequest(c, 10001, "课程ID不能为空")
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	comment, err := h.commentSvc.Create(c.Request.Context(), courseID, &req, callerID)
	if err != nil {
		h.handleCommentError(c, err)
		return
	}

	response.Created(c, comment)
}

// UpdateComment 更新备注（仅作者本人）
// PUT /api/v1/comments/:id
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "备注ID不能为空")
		return
	}

	var req dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	comment, err := h.commentSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleCommentError(c, err)
		return
	}

	response.OK(c, comment)
}

// DeleteComment 删除备注（仅作者本人）
// DELETE /api/v1/comments/:id
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "备注ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.commentSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleCommentError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleCommentError 统一处理备注模块业务错误
func (h *CommentHandler) handleCommentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCommentNotFound):
		response.NotFound(c, 24001, "备注不存在")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 21001, "课程不存在")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/comment_handler.go
