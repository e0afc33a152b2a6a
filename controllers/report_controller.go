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

// ReportController 处理干预报告相关的请求
type ReportController struct {
	BaseControllerImpl
}

// NewReportController 创建一个新的报告控制器
func (f *ControllerFactory) NewReportController(ctx *gin.Context) *ReportController {
	return &ReportController{
		BaseControllerImpl: BaseControllerImpl{
			Container: f.Container,
			Context:   ctx,
		},
	}
}

// GetReports 获取报告列表
// @Summary      Get Reports
// @Description  Get intervention reports, newest first, with optional house, status, resident and free-text filters
// @Tags         Report
// @Produce      json
// @Param        house query string false "House display name" example:"שיקמה"
// @Param        status query string false "Task status" example:"פתוח"
// @Param        resident_id query string false "Resident ID" example:"SH-1024"
// @Param        search query string false "Search over essence, details and staff name"
// @Param        pageNum query int false "Page number, default is 1"
// @Param        pageSize query int false "Items per page, default is 50"
// @Success      200  {object}  map[string]interface{}
// @Router       /reports [get]
// @Security     BearerAuth
func (c *ReportController) GetReports() {
	house := c.Context.Query("house")
	status := c.Context.Query("status")
	residentID := c.Context.Query("resident_id")
	search := strings.TrimSpace(c.Context.Query("search"))

	reports := make([]models.ResidentReport, 0)
	for _, r := range c.Container.GetSyncService().Reports() {
		if house != "" && r.HouseName != house {
			continue
		}
		if status != "" && status != models.TaskFilterAll && string(r.Status) != status {
			continue
		}
		if residentID != "" && r.ResidentID != residentID {
			continue
		}
		if search != "" && !reportMatches(r, search) {
			continue
		}
		reports = append(reports, r)
	}

	page, total := paginate(c.Context, reports)
	response.Success(c.Context, gin.H{
		"pagination": total,
		"data":       page,
	})
}

// paginate slices one page out of an already filtered, newest-first list
func paginate(ctx *gin.Context, reports []models.ResidentReport) ([]models.ResidentReport, models.PaginationResult) {
	var query models.PaginationQuery
	_ = ctx.ShouldBindQuery(&query)
	query.Normalize()

	start, end := query.Bounds(len(reports))
	return reports[start:end], models.NewPaginationResult(len(reports), query)
}

func reportMatches(r models.ResidentReport, search string) bool {
	return strings.Contains(r.Essence, search) ||
		strings.Contains(r.CaseDetails, search) ||
		strings.Contains(r.StaffName, search)
}

// GetReport 获取单个报告详情
// @Summary      Get Report By ID
// @Description  Get one intervention report
// @Tags         Report
// @Produce      json
// @Param        id path string true "Report ID" example:"REP-1716890000000-a1b2c"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /reports/{id} [get]
// @Security     BearerAuth
func (c *ReportController) GetReport() {
	report, ok := c.Container.GetSyncService().ReportByID(c.Context.Param("id"))
	if !ok {
		response.Fail(c.Context, code.ErrReportNotFound, nil)
		return
	}
	response.Success(c.Context, report)
}

// CreateReport 添加新报告
// @Summary      Create Report
// @Description  File a new intervention report; id and timestamp are assigned by the server, status defaults to open
// @Tags         Report
// @Accept       json
// @Produce      json
// @Param        request body models.ResidentReport true "Report, id and timestamp ignored"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /reports [post]
// @Security     BearerAuth
func (c *ReportController) CreateReport() {
	var req models.ResidentReport
	if err := c.Context.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Context, "")
		return
	}
	if strings.TrimSpace(req.Essence) == "" {
		response.ParamError(c.Context, "יש להזין את מהות ההתערבות")
		return
	}

	report, err := c.Container.GetSyncService().AddReport(req)
	if err != nil {
		c.failFromError(err)
		return
	}
	response.Created(c.Context, report)
}

// UpdateReport 更新报告
// @Summary      Update Report
// @Description  Replace the report with the given id; id and timestamp are immutable
// @Tags         Report
// @Accept       json
// @Produce      json
// @Param        id path string true "Report ID"
// @Param        request body models.ResidentReport true "Updated report"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /reports/{id} [put]
// @Security     BearerAuth
func (c *ReportController) UpdateReport() {
	var req models.ResidentReport
	if err := c.Context.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Context, "")
		return
	}
	req.ID = c.Context.Param("id")

	report, err := c.Container.GetSyncService().UpdateReport(req)
	if err != nil {
		c.failFromError(err)
		return
	}
	response.Success(c.Context, report)
}

// UpdateReportStatusRequest 表示更新报告状态的请求体
type UpdateReportStatusRequest struct {
	Status models.TaskStatus `json:"status" binding:"required" example:"בתהליך"`
}

// UpdateReportStatus 更新报告状态
// @Summary      Update Report Status
// @Description  Move a report between the open, in-progress and completed statuses
// @Tags         Report
// @Accept       json
// @Produce      json
// @Param        id path string true "Report ID"
// @Param        request body UpdateReportStatusRequest true "Target status"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /reports/{id}/status [put]
// @Security     BearerAuth
func (c *ReportController) UpdateReportStatus() {
	var req UpdateReportStatusRequest
	if err := c.Context.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Context, "")
		return
	}
	if !req.Status.Valid() {
		response.ParamError(c.Context, "")
		return
	}

	syncService := c.Container.GetSyncService()
	report, ok := syncService.ReportByID(c.Context.Param("id"))
	if !ok {
		response.Fail(c.Context, code.ErrReportNotFound, nil)
		return
	}

	report.Status = req.Status
	updated, err := syncService.UpdateReport(report)
	if err != nil {
		c.failFromError(err)
		return
	}
	response.Success(c.Context, updated)
}

// CloseReportRequest 表示结案的请求体
type CloseReportRequest struct {
	ClosureSummary string `json:"closureSummary" binding:"required" example:"הטיפול הושלם בהצלחה"`
}

// CloseReport 结案：报告转入已完成状态并记录总结
// @Summary      Close Report
// @Description  Complete a report with a mandatory closure summary
// @Tags         Report
// @Accept       json
// @Produce      json
// @Param        id path string true "Report ID"
// @Param        request body CloseReportRequest true "Closure summary"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /reports/{id}/close [post]
// @Security     BearerAuth
func (c *ReportController) CloseReport() {
	var req CloseReportRequest
	if err := c.Context.ShouldBindJSON(&req); err != nil {
		response.Fail(c.Context, code.ErrClosureRequired, nil)
		return
	}

	report, err := c.Container.GetSyncService().CloseReport(c.Context.Param("id"), req.ClosureSummary)
	if err != nil {
		c.failFromError(err)
		return
	}
	response.Success(c.Context, report)
}

// DeleteReport 删除报告
// @Summary      Delete Report
// @Description  Permanently delete a report; requires an authorized role
// @Tags         Report
// @Produce      json
// @Param        id path string true "Report ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /reports/{id} [delete]
// @Security     BearerAuth
func (c *ReportController) DeleteReport() {
	if err := c.Container.GetSyncService().DeleteReport(c.Context.Param("id"), c.currentRole()); err != nil {
		c.failFromError(err)
		return
	}
	response.Success(c.Context, nil)
}

// HandleReportFunc 返回一个处理报告请求的Gin处理函数
func HandleReportFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	factory := NewControllerFactory(container)

	return func(ctx *gin.Context) {
		controller := factory.NewReportController(ctx)

		switch method {
		case "getReports":
			controller.GetReports()
		case "getReport":
			controller.GetReport()
		case "createReport":
			controller.CreateReport()
		case "updateReport":
			controller.UpdateReport()
		case "updateReportStatus":
			controller.UpdateReportStatus()
		case "closeReport":
			controller.CloseReport()
		case "deleteReport":
			controller.DeleteReport()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    code.ErrValidation,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}
