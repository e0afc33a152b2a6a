package controllers

import (
	"net/http"
	"sort"

	"github.com/avivhostel-jpg/Smart-Aviv/internal/error/code"
	"github.com/avivhostel-jpg/Smart-Aviv/internal/error/response"
	"github.com/avivhostel-jpg/Smart-Aviv/models"
	"github.com/avivhostel-jpg/Smart-Aviv/services/container"

	"github.com/gin-gonic/gin"
)

// HouseController 处理住房单元相关的请求
type HouseController struct {
	BaseControllerImpl
}

// NewHouseController 创建一个新的住房单元控制器
func (f *ControllerFactory) NewHouseController(ctx *gin.Context) *HouseController {
	return &HouseController{
		BaseControllerImpl: BaseControllerImpl{
			Container: f.Container,
			Context:   ctx,
		},
	}
}

// GetHouses 获取住房单元列表
// @Summary      Get Houses
// @Description  Get the fixed set of residential units
// @Tags         House
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /houses [get]
// @Security     BearerAuth
func (c *HouseController) GetHouses() {
	houses := make([]models.House, 0, len(models.Houses))
	for _, h := range models.Houses {
		houses = append(houses, h)
	}
	sort.Slice(houses, func(i, j int) bool { return houses[i].ID < houses[j].ID })
	response.Success(c.Context, houses)
}

// GetHouse 获取单个住房单元及其住户与报告
// @Summary      Get House By ID
// @Description  Get one residential unit with its current residents and reports
// @Tags         House
// @Produce      json
// @Param        id path string true "House ID" example:"shikma"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /houses/{id} [get]
// @Security     BearerAuth
func (c *HouseController) GetHouse() {
	id := c.Context.Param("id")
	house, ok := models.HouseByID(id)
	if !ok {
		response.Fail(c.Context, code.ErrHouseNotFound, nil)
		return
	}

	syncService := c.Container.GetSyncService()

	residents := make([]models.Resident, 0)
	for _, r := range syncService.Residents() {
		if r.HouseName == house.Name {
			residents = append(residents, r)
		}
	}

	reports := make([]models.ResidentReport, 0)
	for _, r := range syncService.Reports() {
		if r.HouseName == house.Name {
			reports = append(reports, r)
		}
	}

	response.Success(c.Context, gin.H{
		"house":     house,
		"residents": residents,
		"reports":   reports,
	})
}

// HandleHouseFunc 返回一个处理住房单元请求的Gin处理函数
func HandleHouseFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	factory := NewControllerFactory(container)

	return func(ctx *gin.Context) {
		controller := factory.NewHouseController(ctx)

		switch method {
		case "getHouses":
			controller.GetHouses()
		case "getHouse":
			controller.GetHouse()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    code.ErrValidation,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}
