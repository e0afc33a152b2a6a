package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/avivhostel-jpg/Smart-Aviv/models"

	"github.com/xuri/excelize/v2"
)

// Export formats
const (
	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"
)

// exportHeaders are the performance report columns, right-to-left order as
// presented to the staff
var exportHeaders = []string{
	"תאריך", "בית", "שם דייר", "מהות ההתערבות", "סטטוס", "צוות מדווח",
	"תפקיד", "פירוט המקרה", "פעולות שננקטו", "מסקנות ולקחים", "הערות נוספות",
}

const unknownResidentName = "לא ידוע"

// InterfaceExportService 定义绩效报告导出服务接口
type InterfaceExportService interface {
	PerformanceReportCSV(reports []models.ResidentReport, residents []models.Resident) ([]byte, string, error)
	PerformanceReportXLSX(reports []models.ResidentReport, residents []models.Resident) ([]byte, string, error)
}

// ExportService 绩效报告导出服务
type ExportService struct{}

// NewExportService 创建一个新的导出服务
func NewExportService() InterfaceExportService {
	return &ExportService{}
}

// exportFilename builds the download name with the localized date, dots
// replaced by dashes
func exportFilename(extension string) string {
	date := time.Now().Format("2-1-2006")
	return fmt.Sprintf("דוח_ביצועים_אביב_PRO_%s.%s", date, extension)
}

// exportRow flattens one report into its spreadsheet row. Resident names are
// resolved from the current collection; an unresolvable or house-level report
// shows the unknown marker.
func exportRow(report models.ResidentReport, byID map[string]models.Resident) []string {
	name := unknownResidentName
	if resident, ok := byID[report.ResidentID]; ok {
		name = resident.FullName()
	}
	return []string{
		report.Date,
		report.HouseName,
		name,
		report.Essence,
		string(report.Status),
		report.StaffName,
		string(report.StaffRole),
		report.CaseDetails,
		report.ActionsTaken,
		report.Conclusions,
		report.Notes,
	}
}

func residentIndex(residents []models.Resident) map[string]models.Resident {
	byID := make(map[string]models.Resident, len(residents))
	for _, r := range residents {
		byID[r.ID] = r
	}
	return byID
}

// PerformanceReportCSV renders the report as UTF-8 CSV. The BOM prefix keeps
// spreadsheet applications from misreading the Hebrew text.
func (s *ExportService) PerformanceReportCSV(reports []models.ResidentReport, residents []models.Resident) ([]byte, string, error) {
	var buf bytes.Buffer
	buf.Write([]byte{0xEF, 0xBB, 0xBF})

	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeaders); err != nil {
		return nil, "", err
	}

	byID := residentIndex(residents)
	for _, report := range reports {
		if err := w.Write(exportRow(report, byID)); err != nil {
			return nil, "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), exportFilename("csv"), nil
}

// PerformanceReportXLSX renders the same report as an Excel workbook
func (s *ExportService) PerformanceReportXLSX(reports []models.ResidentReport, residents []models.Resident) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "דוח ביצועים"
	f.SetSheetName("Sheet1", sheet)
	if err := f.SetSheetView(sheet, 0, &excelize.ViewOptions{RightToLeft: boolPtr(true)}); err != nil {
		return nil, "", err
	}

	for col, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, "", err
		}
	}

	byID := residentIndex(residents)
	for rowIdx, report := range reports {
		row := exportRow(report, byID)
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return nil, "", err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, "", err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}
	return buf.Bytes(), exportFilename("xlsx"), nil
}

func boolPtr(b bool) *bool { return &b }
