package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"schooltt/backend/config"
	"schooltt/backend/internal/api/handler"
	"schooltt/backend/internal/api/middleware"
	"schooltt/backend/internal/model"
	"schooltt/backend/pkg/jwt"
	"schooltt/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	manage := middleware.RoleAuth(model.RoleAdmin, model.RoleManager)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("", manage, h.User.ListUsers)
				users.GET("/:id", manage, h.User.GetUser)
				users.POST("", middleware.RoleAuth(model.RoleAdmin), h.User.CreateUser)
				users.PUT("/:id", middleware.RoleAuth(model.RoleAdmin), h.User.UpdateUser)
				users.DELETE("/:id", middleware.RoleAuth(model.RoleAdmin), h.User.DeleteUser)
			}

			// 学期模块
			terms := authorized.Group("/terms")
			{
				terms.GET("", h.Term.ListTerms)
				terms.GET("/:id", h.Term.GetTerm)
				terms.POST("", manage, h.Term.CreateTerm)
				terms.PUT("/:id/schooldays", manage, h.Term.UpdateSchooldays)
				terms.DELETE("/:id", manage, h.Term.DeleteTerm)
			}

			// 时间表模式模块
			schemas := authorized.Group("/schemas")
			{
				schemas.GET("", h.Schema.ListSchemas)
				schemas.GET("/:id", h.Schema.GetSchema)
				schemas.POST("", manage, h.Schema.CreateSchema)
				schemas.DELETE("/:id", manage, h.Schema.DeleteSchema)
				schemas.PUT("/:id/exception-days", manage, h.Schema.SetExceptionDay)
				schemas.PUT("/:id/exception-day-ids", manage, h.Schema.SetExceptionDayID)
				schemas.DELETE("/:id/exception-day-ids/:date", manage, h.Schema.RemoveExceptionDayID)
			}

			// 教学班模块
			sections := authorized.Group("/sections")
			{
				sections.GET("", h.Section.ListSections)
				sections.GET("/:id", h.Section.GetSection)
				sections.POST("", manage, h.Section.CreateSection)
				sections.DELETE("/:id", manage, h.Section.DeleteSection)
				sections.POST("/:id/members", manage, h.Section.AddMember)
				sections.DELETE("/:id/members/:person_id", manage, h.Section.RemoveMember)
				sections.GET("/:id/timetables", h.Timetable.ListBySection)
				sections.GET("/:id/events", h.Calendar.ListBySection)
			}

			// 时间表模块
			timetables := authorized.Group("/timetables")
			{
				timetables.POST("", manage, h.Timetable.Bind)
				timetables.GET("/:id", h.Timetable.GetTimetable)
				timetables.DELETE("/:id", manage, h.Timetable.Unbind)
				timetables.POST("/:id/activities", manage, h.Timetable.AddActivity)
				timetables.DELETE("/:id/activities/:activity_id", manage, h.Timetable.RemoveActivity)
				timetables.GET("/:id/grid", h.Timetable.Grid)
				timetables.GET("/:id/days/:date", h.Timetable.PreviewDay)
				timetables.GET("/:id/events", h.Calendar.ListByTimetable)
				timetables.POST("/:id/events/resync", manage, h.Calendar.Resync)
				timetables.GET("/:id/feed.ics", h.Feed.TimetableFeed)
				timetables.GET("/:id/export/grid", h.Export.ExportGrid)
				timetables.GET("/:id/export/events", h.Export.ExportEvents)
			}

			// 合成课表模块（始终以当前用户为主体）
			composite := authorized.Group("/composite")
			{
				composite.GET("/sources", h.Composite.ListSources)
				composite.GET("/timetables/:term_id/:schema_id", h.Composite.GetComposite)
				composite.GET("/events", h.Composite.ListEvents)
				composite.GET("/feed.ics", h.Feed.MyFeed)
			}
		}
	}

	return r
}
