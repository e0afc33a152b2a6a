package controllers

import (
	"net/http"

	"github.com/avivhostel-jpg/Smart-Aviv/internal/error/code"
	"github.com/avivhostel-jpg/Smart-Aviv/internal/error/response"
	"github.com/avivhostel-jpg/Smart-Aviv/services/container"

	"github.com/gin-gonic/gin"
)

// HealthController 处理健康检查与同步状态请求
type HealthController struct {
	BaseControllerImpl
}

// NewHealthController 创建一个新的健康检查控制器
func (f *ControllerFactory) NewHealthController(ctx *gin.Context) *HealthController {
	return &HealthController{
		BaseControllerImpl: BaseControllerImpl{
			Container: f.Container,
			Context:   ctx,
		},
	}
}

// Ping 健康检查
// @Summary      Ping
// @Description  Liveness check
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /ping [get]
func (c *HealthController) Ping() {
	c.Context.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// SyncStatus 获取当前同步状态
// @Summary      Get Sync Status
// @Description  Get the coarse synchronization signal (synced, syncing, local, error)
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /health/sync [get]
func (c *HealthController) SyncStatus() {
	response.Success(c.Context, gin.H{
		"status": c.Container.GetSyncService().Status(),
	})
}

// HandleHealthFunc 返回一个处理健康检查请求的Gin处理函数
func HandleHealthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	factory := NewControllerFactory(container)

	return func(ctx *gin.Context) {
		controller := factory.NewHealthController(ctx)

		switch method {
		case "ping":
			controller.Ping()
		case "syncStatus":
			controller.SyncStatus()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    code.ErrValidation,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}
