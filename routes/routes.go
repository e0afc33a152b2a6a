package routes

import (
	"github.com/avivhostel-jpg/Smart-Aviv/config"
	"github.com/avivhostel-jpg/Smart-Aviv/controllers"
	"github.com/avivhostel-jpg/Smart-Aviv/middleware"
	"github.com/avivhostel-jpg/Smart-Aviv/services/container"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// SetupRouter 初始化并返回配置好的路由
func SetupRouter(db *gorm.DB, cfg *config.Config, redisClient *redis.Client) (*gin.Engine, *container.ServiceContainer) {
	// 初始化 Gin
	r := gin.Default()

	// 添加 CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})
	// 设置正确的Content-Type，确保UTF-8编码
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json; charset=utf-8")
		c.Next()
	})
	// 创建服务容器
	serviceContainer := container.NewServiceContainer(db, cfg, redisClient)
	// 初始化中间件
	middleware.InitAuthMiddleware(cfg)
	// 添加 Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 注册路由
	registerRoutes(r, serviceContainer)
	return r, serviceContainer
}

// registerRoutes 配置所有API路由
func registerRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
) {
	// API 路由根路径
	api := r.Group("/api")
	// 注册公共路由
	registerPublicRoutes(api, container)
	// 注册需要认证的路由
	registerAuthenticatedRoutes(api, container)
}

// registerPublicRoutes 注册公共路由
func registerPublicRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// 健康检查
	api.GET("/ping", controllers.HandleHealthFunc(container, "ping"))
	api.GET("/health/sync", controllers.HandleHealthFunc(container, "syncStatus"))

	// 认证路由
	api.POST("/auth/login", controllers.HandleAuthFunc(container, "login"))
}

// registerAuthenticatedRoutes 注册需要认证的路由
func registerAuthenticatedRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// 添加认证中间件
	auth := api.Group("/")
	auth.Use(middleware.AuthenticateStaff())

	// 仪表盘路由
	auth.Group("/dashboard").GET("", controllers.HandleDashboardFunc(container, "getDashboard"))
	auth.Group("/dashboard").GET("/export", controllers.HandleDashboardFunc(container, "exportPerformanceReport"))

	// 住房单元路由
	auth.Group("/houses").GET("", controllers.HandleHouseFunc(container, "getHouses"))
	auth.Group("/houses").GET("/:id", controllers.HandleHouseFunc(container, "getHouse"))

	// 住户路由
	auth.Group("/residents").GET("", controllers.HandleResidentFunc(container, "getResidents"))
	auth.Group("/residents").GET("/:id", controllers.HandleResidentFunc(container, "getResident"))
	auth.Group("/residents").POST("", controllers.HandleResidentFunc(container, "createResident"))
	auth.Group("/residents").PUT("/:id", controllers.HandleResidentFunc(container, "updateResident"))
	auth.Group("/residents").POST("/:id/attachments", controllers.HandleResidentFunc(container, "addAttachment"))
	auth.Group("/residents").DELETE("/:id/attachments/:attachment_id", controllers.HandleResidentFunc(container, "deleteAttachment"))

	// 报告路由
	auth.Group("/reports").GET("", controllers.HandleReportFunc(container, "getReports"))
	auth.Group("/reports").GET("/:id", controllers.HandleReportFunc(container, "getReport"))
	auth.Group("/reports").POST("", controllers.HandleReportFunc(container, "createReport"))
	auth.Group("/reports").PUT("/:id", controllers.HandleReportFunc(container, "updateReport"))
	auth.Group("/reports").PUT("/:id/status", controllers.HandleReportFunc(container, "updateReportStatus"))
	auth.Group("/reports").POST("/:id/close", controllers.HandleReportFunc(container, "closeReport"))
	auth.Group("/reports").DELETE("/:id", controllers.HandleReportFunc(container, "deleteReport"))

	// 会话路由
	auth.Group("/session").GET("", controllers.HandleSessionFunc(container, "getSession"))
	auth.Group("/session").PUT("/events", controllers.HandleSessionFunc(container, "applySessionEvent"))
}
