package handler

import "unitable/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Catalog    *CatalogHandler
	Timetable  *TimetableHandler
	Enrollment *EnrollmentHandler
	Comment    *CommentHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Catalog:    NewCatalogHandler(svc.Catalog),
		Timetable:  NewTimetableHandler(svc.Timetable),
		Enrollment: NewEnrollmentHandler(svc.Enrollment),
		Comment:    NewCommentHandler(svc.Comment),
		Export:     NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
