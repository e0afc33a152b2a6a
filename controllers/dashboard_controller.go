package controllers

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/avivhostel-jpg/Smart-Aviv/internal/error/code"
	"github.com/avivhostel-jpg/Smart-Aviv/internal/error/response"
	"github.com/avivhostel-jpg/Smart-Aviv/models"
	"github.com/avivhostel-jpg/Smart-Aviv/services"
	"github.com/avivhostel-jpg/Smart-Aviv/services/container"

	"github.com/gin-gonic/gin"
)

// DashboardController 处理仪表盘统计与绩效报告导出
type DashboardController struct {
	BaseControllerImpl
}

// NewDashboardController 创建一个新的仪表盘控制器
func (f *ControllerFactory) NewDashboardController(ctx *gin.Context) *DashboardController {
	return &DashboardController{
		BaseControllerImpl: BaseControllerImpl{
			Container: f.Container,
			Context:   ctx,
		},
	}
}

// GetDashboard 获取仪表盘统计
// @Summary      Get Dashboard
// @Description  Get the panoramic overview: report counts per status and per house
// @Tags         Dashboard
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /dashboard [get]
// @Security     BearerAuth
func (c *DashboardController) GetDashboard() {
	syncService := c.Container.GetSyncService()
	reports := syncService.Reports()
	residents := syncService.Residents()

	var open, inProgress, completed int
	reportCounts := make(map[string]int, len(models.Houses))
	for _, r := range reports {
		switch r.Status {
		case models.TaskStatusOpen:
			open++
		case models.TaskStatusInProgress:
			inProgress++
		case models.TaskStatusCompleted:
			completed++
		}
		reportCounts[r.HouseName]++
	}

	residentCounts := make(map[string]int, len(models.Houses))
	for _, r := range residents {
		residentCounts[r.HouseName]++
	}

	response.Success(c.Context, gin.H{
		"totalReports":     len(reports),
		"openReports":      open,
		"inProgress":       inProgress,
		"completed":        completed,
		"totalResidents":   len(residents),
		"reportsByHouse":   reportCounts,
		"residentsByHouse": residentCounts,
		"syncStatus":       syncService.Status(),
	})
}

// ExportPerformanceReport 导出绩效报告
// @Summary      Export Performance Report
// @Description  Download the performance report as a CSV (default) or XLSX file
// @Tags         Dashboard
// @Produce      application/octet-stream
// @Param        format query string false "Export format: csv or xlsx" example:"csv"
// @Success      200  {file}  binary
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /dashboard/export [get]
// @Security     BearerAuth
func (c *DashboardController) ExportPerformanceReport() {
	format := c.Context.DefaultQuery("format", services.ExportFormatCSV)

	syncService := c.Container.GetSyncService()
	exportService := c.Container.GetExportService()

	var (
		content     []byte
		filename    string
		contentType string
		err         error
	)
	switch format {
	case services.ExportFormatCSV:
		content, filename, err = exportService.PerformanceReportCSV(syncService.Reports(), syncService.Residents())
		contentType = "text/csv; charset=utf-8"
	case services.ExportFormatXLSX:
		content, filename, err = exportService.PerformanceReportXLSX(syncService.Reports(), syncService.Residents())
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		response.ParamError(c.Context, "")
		return
	}
	if err != nil {
		response.Fail(c.Context, code.ErrExportFailed, nil)
		return
	}

	disposition := fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(filename))
	c.Context.Header("Content-Disposition", disposition)
	// 覆盖全局JSON字符集中间件设置的Content-Type
	c.Context.Header("Content-Type", contentType)
	c.Context.Data(http.StatusOK, contentType, content)
}

// HandleDashboardFunc 返回一个处理仪表盘请求的Gin处理函数
func HandleDashboardFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	factory := NewControllerFactory(container)

	return func(ctx *gin.Context) {
		controller := factory.NewDashboardController(ctx)

		switch method {
		case "getDashboard":
			controller.GetDashboard()
		case "exportPerformanceReport":
			controller.ExportPerformanceReport()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    code.ErrValidation,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}
