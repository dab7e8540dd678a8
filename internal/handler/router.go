package handler

import (
	"pointledger/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRouter 配置路由
func SetupRouter(pointService *service.PointService) *gin.Engine {
	// 设置 gin 为发布模式（减少日志输出）
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// 注册中间件
	r.Use(RecoveryMiddleware())
	r.Use(LoggerMiddleware())
	r.Use(CORSMiddleware())

	// 创建处理器
	h := NewHandler(pointService)

	// 积分相关
	point := r.Group("/point")
	{
		point.GET("/:id", h.GetPoint)
		point.GET("/:id/histories", h.GetHistories)
		point.PATCH("/:id/charge", h.Charge)
		point.PATCH("/:id/use", h.Use)
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
