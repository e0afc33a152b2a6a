package controllers

import (
	"net/http"
	"strings"

	"github.com/avivhostel-jpg/Smart-Aviv/internal/error/code"
	"github.com/avivhostel-jpg/Smart-Aviv/internal/error/response"
	"github.com/avivhostel-jpg/Smart-Aviv/models"
	"github.com/avivhostel-jpg/Smart-Aviv/services/container"

	"github.com/gin-gonic/gin"
)

// ResidentController 处理住户相关的请求
type ResidentController struct {
	BaseControllerImpl
}

// NewResidentController 创建一个新的住户控制器
func (f *ControllerFactory) NewResidentController(ctx *gin.Context) *ResidentController {
	return &ResidentController{
		BaseControllerImpl: BaseControllerImpl{
			Container: f.Container,
			Context:   ctx,
		},
	}
}

// GetResidents 获取住户列表
// @Summary      Get Residents
// @Description  Get the resident collection, optionally filtered by house name and a free-text search over name and national id
// @Tags         Resident
// @Produce      json
// @Param        house query string false "House display name" example:"שיקמה"
// @Param        search query string false "Search over full name and national id"
// @Success      200  {object}  map[string]interface{}
// @Router       /residents [get]
// @Security     BearerAuth
func (c *ResidentController) GetResidents() {
	house := c.Context.Query("house")
	search := strings.TrimSpace(c.Context.Query("search"))

	residents := make([]models.Resident, 0)
	for _, r := range c.Container.GetSyncService().Residents() {
		if house != "" && r.HouseName != house {
			continue
		}
		if search != "" && !strings.Contains(r.FullName(), search) && !strings.Contains(r.TZ, search) {
			continue
		}
		residents = append(residents, r)
	}

	response.Success(c.Context, gin.H{
		"total": len(residents),
		"data":  residents,
	})
}

// GetResident 获取单个住户详情
// @Summary      Get Resident By ID
// @Description  Get one resident with their full clinical record and reports
// @Tags         Resident
// @Produce      json
// @Param        id path string true "Resident ID" example:"SH-1024"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /residents/{id} [get]
// @Security     BearerAuth
func (c *ResidentController) GetResident() {
	id := c.Context.Param("id")

	syncService := c.Container.GetSyncService()
	resident, ok := syncService.ResidentByID(id)
	if !ok {
		response.Fail(c.Context, code.ErrResidentNotFound, nil)
		return
	}

	reports := make([]models.ResidentReport, 0)
	for _, r := range syncService.Reports() {
		if r.ResidentID == id {
			reports = append(reports, r)
		}
	}

	response.Success(c.Context, gin.H{
		"resident": resident,
		"reports":  reports,
	})
}

// CreateResident 添加新住户
// @Summary      Create Resident
// @Description  Register a new resident in one of the residential units; the id is assigned by the server
// @Tags         Resident
// @Accept       json
// @Produce      json
// @Param        request body models.Resident true "Resident record, id ignored"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /residents [post]
// @Security     BearerAuth
func (c *ResidentController) CreateResident() {
	var req models.Resident
	if err := c.Context.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Context, "")
		return
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		response.ParamError(c.Context, "שם פרטי ושם משפחה הם שדות חובה")
		return
	}

	resident, err := c.Container.GetSyncService().AddResident(req)
	if err != nil {
		c.failFromError(err)
		return
	}
	response.Created(c.Context, resident)
}

// UpdateResident 更新住户信息
// @Summary      Update Resident
// @Description  Replace the resident record with the given id; the id itself is immutable
// @Tags         Resident
// @Accept       json
// @Produce      json
// @Param        id path string true "Resident ID" example:"SH-1024"
// @Param        request body models.Resident true "Updated resident record"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /residents/{id} [put]
// @Security     BearerAuth
func (c *ResidentController) UpdateResident() {
	var req models.Resident
	if err := c.Context.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Context, "")
		return
	}
	req.ID = c.Context.Param("id")

	resident, err := c.Container.GetSyncService().UpdateResident(req)
	if err != nil {
		c.failFromError(err)
		return
	}
	response.Success(c.Context, resident)
}

// AddAttachmentRequest 表示添加档案文件的请求体
type AddAttachmentRequest struct {
	Name string                `json:"name" binding:"required" example:"סיכום רפואי.pdf"`
	Type models.AttachmentType `json:"type" example:"רפואי"`
	URL  string                `json:"url" binding:"required"`
}

// AddAttachment 向住户档案添加文件
// @Summary      Add Resident Attachment
// @Description  Add a document to the resident's archive
// @Tags         Resident
// @Accept       json
// @Produce      json
// @Param        id path string true "Resident ID" example:"SH-1024"
// @Param        request body AddAttachmentRequest true "Document name, category and inline payload"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /residents/{id}/attachments [post]
// @Security     BearerAuth
func (c *ResidentController) AddAttachment() {
	var req AddAttachmentRequest
	if err := c.Context.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Context, "")
		return
	}

	resident, err := c.Container.GetSyncService().AddAttachment(c.Context.Param("id"), models.FileAttachment{
		Name: req.Name,
		Type: req.Type,
		URL:  req.URL,
	})
	if err != nil {
		c.failFromError(err)
		return
	}
	response.Created(c.Context, resident)
}

// DeleteAttachment 删除住户档案文件
// @Summary      Delete Resident Attachment
// @Description  Remove a document from the resident's archive; requires an authorized role
// @Tags         Resident
// @Produce      json
// @Param        id path string true "Resident ID" example:"SH-1024"
// @Param        attachment_id path string true "Attachment ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /residents/{id}/attachments/{attachment_id} [delete]
// @Security     BearerAuth
func (c *ResidentController) DeleteAttachment() {
	resident, err := c.Container.GetSyncService().DeleteAttachment(
		c.Context.Param("id"),
		c.Context.Param("attachment_id"),
		c.currentRole(),
	)
	if err != nil {
		c.failFromError(err)
		return
	}
	response.Success(c.Context, resident)
}

// HandleResidentFunc 返回一个处理住户请求的Gin处理函数
func HandleResidentFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	factory := NewControllerFactory(container)

	return func(ctx *gin.Context) {
		controller := factory.NewResidentController(ctx)

		switch method {
		case "getResidents":
			controller.GetResidents()
		case "getResident":
			controller.GetResident()
		case "createResident":
			controller.CreateResident()
		case "updateResident":
			controller.UpdateResident()
		case "addAttachment":
			controller.AddAttachment()
		case "deleteAttachment":
			controller.DeleteAttachment()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    code.ErrValidation,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}
