package controllers

import (
	"net/http"

	"github.com/avivhostel-jpg/Smart-Aviv/internal/error/code"
	"github.com/avivhostel-jpg/Smart-Aviv/internal/error/response"
	"github.com/avivhostel-jpg/Smart-Aviv/models"
	"github.com/avivhostel-jpg/Smart-Aviv/services/container"

	"github.com/gin-gonic/gin"
)

// SessionController 处理会话视图状态相关的请求
type SessionController struct {
	BaseControllerImpl
}

// NewSessionController 创建一个新的会话控制器
func (f *ControllerFactory) NewSessionController(ctx *gin.Context) *SessionController {
	return &SessionController{
		BaseControllerImpl: BaseControllerImpl{
			Container: f.Container,
			Context:   ctx,
		},
	}
}

// GetSession 获取当前会话状态
// @Summary      Get Session State
// @Description  Get the persisted view state of the client session
// @Tags         Session
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /session [get]
// @Security     BearerAuth
func (c *SessionController) GetSession() {
	response.Success(c.Context, c.Container.GetSessionService().CurrentState())
}

// ApplySessionEvent 应用会话事件
// @Summary      Apply Session Event
// @Description  Run one navigation or auth event through the session reducer and return the resulting state
// @Tags         Session
// @Accept       json
// @Produce      json
// @Param        request body models.SessionEvent true "Session event"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /session/events [put]
// @Security     BearerAuth
func (c *SessionController) ApplySessionEvent() {
	var event models.SessionEvent
	if err := c.Context.ShouldBindJSON(&event); err != nil {
		response.ParamError(c.Context, "")
		return
	}

	state, err := c.Container.GetSessionService().ApplyEvent(event)
	if err != nil {
		c.failFromError(err)
		return
	}
	response.Success(c.Context, state)
}

// HandleSessionFunc 返回一个处理会话请求的Gin处理函数
func HandleSessionFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	factory := NewControllerFactory(container)

	return func(ctx *gin.Context) {
		controller := factory.NewSessionController(ctx)

		switch method {
		case "getSession":
			controller.GetSession()
		case "applySessionEvent":
			controller.ApplySessionEvent()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    code.ErrValidation,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}
