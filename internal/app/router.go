package app

import (
	"drouple_backend/docs"
	"drouple_backend/internal/config"
	"drouple_backend/internal/middleware"
	"drouple_backend/internal/model"
	"drouple_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerMemberRoutes(authGroup, c)
		a.registerLeaderRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerMemberRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.PUT("/profile", c.member.UpdateProfile)
	rg.POST("/profile/avatar", c.member.UploadAvatar)
	rg.GET("/dashboard", c.dashboard.GetDashboard)

	rg.GET("/members", c.member.Directory)
	rg.GET("/members/:id", c.member.GetMember)

	// Pathways
	rg.GET("/pathways", c.pathway.ListPathways)
	rg.GET("/pathways/my-progress", c.pathway.MyProgress)
	rg.GET("/pathways/:id", c.pathway.GetPathway)
	rg.POST("/pathways/:id/enroll", c.pathway.Enroll)
	rg.POST("/pathways/:id/drop", c.pathway.Drop)
	rg.POST("/pathways/steps/:id/complete", c.pathway.CompleteStep)

	// Check-in
	rg.GET("/services", c.checkin.ListServices)
	rg.GET("/services/today", c.checkin.TodayServices)
	rg.POST("/services/:id/checkin", c.checkin.CheckIn)

	// Life groups
	rg.GET("/groups", c.group.List)
	rg.GET("/groups/mine", c.group.MyGroups)
	rg.GET("/groups/:id", c.group.Get)
	rg.POST("/groups/:id/join", c.group.Join)
	rg.POST("/groups/:id/leave", c.group.Leave)

	// Events
	rg.GET("/events", c.event.ListUpcoming)
	rg.GET("/events/:id", c.event.Get)
	rg.POST("/events/:id/rsvp", c.event.RSVP)

	rg.GET("/announcements", c.announcement.Feed)
}

func (a *App) registerLeaderRoutes(rg *gin.RouterGroup, c *controllers) {
	leader := rg.Group("")
	leader.Use(middleware.RoleMiddleware(model.Leader))
	{
		leader.GET("/pathways/members/:id/progress", c.pathway.MemberProgress)
		leader.GET("/services/:id/attendance", c.checkin.Attendance)
		leader.GET("/groups/:id/roster", c.group.Roster)
		leader.GET("/events/:id/attendees", c.event.Attendees)
	}
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/stats", c.dashboard.GetChurchStats)

		admin.PUT("/members/:id/disabled", c.member.SetDisabled)
		admin.POST("/members/:id/auto-enroll", c.pathway.AutoEnroll)

		admin.POST("/pathways", c.pathway.CreatePathway)
		admin.PUT("/pathways/:id", c.pathway.UpdatePathway)
		admin.POST("/pathways/:id/steps", c.pathway.AddStep)
		admin.PUT("/pathways/steps/:id", c.pathway.UpdateStep)
		admin.DELETE("/pathways/steps/:id", c.pathway.RemoveStep)

		admin.POST("/services", c.checkin.CreateService)

		admin.POST("/groups", c.group.Create)
		admin.PUT("/groups/:id", c.group.Update)
		admin.DELETE("/groups/:id", c.group.Delete)

		admin.POST("/events", c.event.Create)
		admin.PUT("/events/:id", c.event.Update)
		admin.DELETE("/events/:id", c.event.Delete)

		admin.GET("/announcements", c.announcement.ListAll)
		admin.POST("/announcements", c.announcement.Create)
		admin.PUT("/announcements/:id", c.announcement.Update)
		admin.POST("/announcements/:id/publish", c.announcement.Publish)
		admin.DELETE("/announcements/:id", c.announcement.Delete)
	}
}
