package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"unitable/backend/config"
	"unitable/backend/internal/api/handler"
	"unitable/backend/internal/api/middleware"
	"unitable/backend/pkg/jwt"
	"unitable/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1（全部需要认证）──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr))
	{
		// 课程目录模块
		courses := v1.Group("/courses")
		{
			courses.GET("", h.Catalog.ListCourses)
			courses.POST("/search", middleware.RateLimit(rdb, 30, time.Minute), h.Catalog.SearchCourses)
			courses.GET("/types", h.Catalog.ListCourseTypes)
			courses.GET("/instructors", h.Catalog.ListInstructors)
			courses.GET("/:id", h.Catalog.GetCourse)
			courses.GET("/:id/sessions", h.Catalog.ListCourseSessions)
			courses.POST("", middleware.RoleAuth("admin"), h.Catalog.CreateCourse)
			courses.PUT("/:id", middleware.RoleAuth("admin"), h.Catalog.UpdateCourse)
			courses.DELETE("/:id", middleware.RoleAuth("admin"), h.Catalog.DeleteCourse)
			courses.POST("/:id/sessions", middleware.RoleAuth("admin"), h.Catalog.AddCourseSession)

			// 备注模块（挂在课程下的部分）
			courses.GET("/:id/comments", h.Comment.ListComments)
			courses.POST("/:id/comments", h.Comment.CreateComment)
		}

		// 课表模块
		timetables := v1.Group("/timetables")
		{
			timetables.POST("", h.Timetable.CreateTimetable)
			timetables.GET("", h.Timetable.ListTimetables)
			timetables.GET("/:id", h.Timetable.GetTimetable)
			timetables.DELETE("/:id", h.Timetable.DeleteTimetable)
			timetables.GET("/:id/schedule", h.Timetable.GetSchedule)
			timetables.GET("/:id/schedule/ics", h.Timetable.GetScheduleICS)
		}

		// 选课模块
		enrollments := v1.Group("/enrollments")
		{
			enrollments.POST("", h.Enrollment.Enroll)
			enrollments.GET("/my", h.Enrollment.ListMyEnrollments)
			enrollments.PUT("/:id", h.Enrollment.UpdateEnrollment)
			enrollments.DELETE("/:id", h.Enrollment.Unenroll)
		}

		// 备注模块
		comments := v1.Group("/comments")
		{
			comments.PUT("/:id", h.Comment.UpdateComment)
			comments.DELETE("/:id", h.Comment.DeleteComment)
		}

		// 导出模块
		// 导出开销大，限制频率
		export := v1.Group("/export")
		export.Use(middleware.RateLimit(rdb, 10, time.Minute))
		{
			export.GET("/schedule", h.Export.ExportSchedule)
		}
	}

	return r
}
