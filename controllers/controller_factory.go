package controllers

import (
	"errors"

	"github.com/avivhostel-jpg/Smart-Aviv/internal/error/code"
	"github.com/avivhostel-jpg/Smart-Aviv/internal/error/response"
	"github.com/avivhostel-jpg/Smart-Aviv/models"
	"github.com/avivhostel-jpg/Smart-Aviv/services"
	"github.com/avivhostel-jpg/Smart-Aviv/services/container"

	"github.com/gin-gonic/gin"
)

// ErrorResponse 用于swagger文档的错误响应结构
type ErrorResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// BaseController 是所有控制器的基础接口
type BaseController interface {
	// 获取服务容器
	GetContainer() *container.ServiceContainer
	// 获取Gin上下文
	GetContext() *gin.Context
}

// BaseControllerImpl 是控制器的基础实现
type BaseControllerImpl struct {
	Container *container.ServiceContainer
	Context   *gin.Context
}

// GetContainer 实现 BaseController 接口
func (c *BaseControllerImpl) GetContainer() *container.ServiceContainer {
	return c.Container
}

// GetContext 实现 BaseController 接口
func (c *BaseControllerImpl) GetContext() *gin.Context {
	return c.Context
}

// currentRole 从上下文读取认证中间件写入的角色
func (c *BaseControllerImpl) currentRole() models.StaffRole {
	role, _ := c.Context.Get("staffRole")
	name, _ := role.(string)
	return models.StaffRole(name)
}

// failFromError 将业务错误映射为统一的错误响应
func (c *BaseControllerImpl) failFromError(err error) {
	response.Fail(c.Context, errorCodeFor(err), nil)
}

func errorCodeFor(err error) int {
	switch {
	case errors.Is(err, services.ErrResidentNotFound):
		return code.ErrResidentNotFound
	case errors.Is(err, services.ErrHouseNotFound):
		return code.ErrHouseNotFound
	case errors.Is(err, services.ErrHouseMismatch):
		return code.ErrHouseMismatch
	case errors.Is(err, services.ErrAttachmentNotFound):
		return code.ErrAttachmentNotFound
	case errors.Is(err, services.ErrReportNotFound):
		return code.ErrReportNotFound
	case errors.Is(err, services.ErrDeleteForbidden):
		return code.ErrDeleteForbidden
	case errors.Is(err, services.ErrClosureRequired):
		return code.ErrClosureRequired
	case errors.Is(err, services.ErrUnknownSessionEvent):
		return code.ErrValidation
	default:
		return code.ErrUnknown
	}
}

// ControllerFactory 用于创建控制器的工厂
type ControllerFactory struct {
	Container *container.ServiceContainer
}

// NewControllerFactory 创建一个新的控制器工厂
func NewControllerFactory(container *container.ServiceContainer) *ControllerFactory {
	return &ControllerFactory{
		Container: container,
	}
}
