package code

// 错误码消息映射（面向用户的消息使用希伯来语，与客户端一致）
var codeMessageMap = map[int]string{
	// 通用错误码
	ErrSuccess:      "成功",
	ErrUnknown:      "未知错误",
	ErrBind:         "请求参数绑定错误",
	ErrValidation:   "请求参数验证错误",
	ErrTokenInvalid: "无效的认证令牌",

	// 登录相关错误码
	ErrRoleUnknown:       "אנא בחר איש צוות",
	ErrRoleCodeIncorrect: "קוד גישה שגוי לתפקיד הנבחר",

	// 住户相关错误码
	ErrResidentNotFound:   "הדייר לא נמצא במערכת",
	ErrHouseNotFound:      "הבית המבוקש אינו קיים",
	ErrHouseMismatch:      "הדייר אינו משויך לבית שצוין",
	ErrAttachmentNotFound: "המסמך לא נמצא בארכיון",

	// 报告相关错误码
	ErrReportNotFound:  "הדיווח לא נמצא במערכת",
	ErrDeleteForbidden: `הרשאת מנהל/רכז/עו"ס נדרשת למחיקת תיעוד מהמערכת`,
	ErrClosureRequired: "יש להזין סיכום טיפול לפני סגירת ההתערבות",

	// 存储相关错误码
	ErrExportFailed: "שגיאה בהפקת הדוח. וודא שהנתונים תקינים ונסה שוב.",
	ErrLocalStore:   "本地缓存错误",
}

// 错误码HTTP状态码映射
var codeStatusMap = map[int]int{
	ErrSuccess:      StatusOK,
	ErrUnknown:      StatusInternalServerError,
	ErrBind:         StatusBadRequest,
	ErrValidation:   StatusBadRequest,
	ErrTokenInvalid: StatusUnauthorized,

	ErrRoleUnknown:       StatusBadRequest,
	ErrRoleCodeIncorrect: StatusUnauthorized,

	ErrResidentNotFound:   StatusNotFound,
	ErrHouseNotFound:      StatusBadRequest,
	ErrHouseMismatch:      StatusBadRequest,
	ErrAttachmentNotFound: StatusNotFound,

	ErrReportNotFound:  StatusNotFound,
	ErrDeleteForbidden: StatusForbidden,
	ErrClosureRequired: StatusBadRequest,

	ErrExportFailed: StatusInternalServerError,
	ErrLocalStore:   StatusInternalServerError,
}

// GetMessage 返回错误码对应的消息
func GetMessage(errorCode int) string {
	if msg, ok := codeMessageMap[errorCode]; ok {
		return msg
	}
	return codeMessageMap[ErrUnknown]
}

// GetStatus 返回错误码对应的HTTP状态码
func GetStatus(errorCode int) int {
	if status, ok := codeStatusMap[errorCode]; ok {
		return status
	}
	return StatusInternalServerError
}
