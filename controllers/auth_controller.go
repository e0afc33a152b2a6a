package controllers

import (
	"net/http"

	"github.com/avivhostel-jpg/Smart-Aviv/internal/error/code"
	"github.com/avivhostel-jpg/Smart-Aviv/internal/error/response"
	"github.com/avivhostel-jpg/Smart-Aviv/models"
	"github.com/avivhostel-jpg/Smart-Aviv/services/container"

	"github.com/gin-gonic/gin"
)

// AuthController 处理员工登录相关的请求
type AuthController struct {
	BaseControllerImpl
}

// NewAuthController 创建一个新的认证控制器
func (f *ControllerFactory) NewAuthController(ctx *gin.Context) *AuthController {
	return &AuthController{
		BaseControllerImpl: BaseControllerImpl{
			Container: f.Container,
			Context:   ctx,
		},
	}
}

// LoginRequest 表示员工登录的请求体
type LoginRequest struct {
	Name string `json:"name" binding:"required" example:"שרה כהן"`
	Role string `json:"role" binding:"required" example:"מנהל"`
	Code string `json:"code" binding:"required" example:"0001"`
}

// Login 员工登录
// @Summary      Staff Login
// @Description  Authenticate a staff member by name, role and the role's four-digit access code
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Staff name, role and access code"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/login [post]
func (c *AuthController) Login() {
	var req LoginRequest
	if err := c.Context.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Context, "")
		return
	}

	role := models.StaffRole(req.Role)
	if !role.Valid() {
		response.Fail(c.Context, code.ErrRoleUnknown, nil)
		return
	}

	// 访问码按角色校验
	if expected, ok := models.RoleForCode(req.Code); !ok || expected != role {
		response.Fail(c.Context, code.ErrRoleCodeIncorrect, nil)
		return
	}

	token, err := c.Container.GetJWTService().GenerateToken(req.Name, string(role))
	if err != nil {
		response.ServerError(c.Context)
		return
	}

	// 登录同时推进会话状态
	user := &models.CurrentUser{Name: req.Name, Role: role}
	state, err := c.Container.GetSessionService().ApplyEvent(models.SessionEvent{
		Type: models.EventLogin,
		User: user,
	})
	if err != nil {
		response.ServerError(c.Context)
		return
	}

	response.Success(c.Context, gin.H{
		"token":   token,
		"user":    user,
		"session": state,
	})
}

// HandleAuthFunc 返回一个处理认证请求的Gin处理函数
func HandleAuthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	factory := NewControllerFactory(container)

	return func(ctx *gin.Context) {
		controller := factory.NewAuthController(ctx)

		switch method {
		case "login":
			controller.Login()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    code.ErrValidation,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}
