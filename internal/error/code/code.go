package code

// HTTP状态码.
const (
	// StatusOK - 200: 成功.
	StatusOK = 200
	// StatusBadRequest - 400: 请求参数错误.
	StatusBadRequest = 400
	// StatusUnauthorized - 401: 未授权.
	StatusUnauthorized = 401
	// StatusForbidden - 403: 禁止访问.
	StatusForbidden = 403
	// StatusNotFound - 404: 资源不存在.
	StatusNotFound = 404
	// StatusInternalServerError - 500: 服务器内部错误.
	StatusInternalServerError = 500
)

// 通用错误码 (100xxx).
const (
	// ErrSuccess - 200: 成功.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: 未知错误.
	ErrUnknown
	// ErrBind - 400: 请求参数绑定错误.
	ErrBind
	// ErrValidation - 400: 请求参数验证错误.
	ErrValidation
	// ErrTokenInvalid - 401: 令牌无效.
	ErrTokenInvalid
)

// 登录相关错误码 (101xxx).
const (
	// ErrRoleUnknown - 400: 所选角色不存在.
	ErrRoleUnknown int = iota + 101000
	// ErrRoleCodeIncorrect - 401: 访问码与角色不匹配.
	ErrRoleCodeIncorrect
)

// 住户相关错误码 (102xxx).
const (
	// ErrResidentNotFound - 404: 住户不存在.
	ErrResidentNotFound int = iota + 102000
	// ErrHouseNotFound - 400: 住房单元不存在.
	ErrHouseNotFound
	// ErrHouseMismatch - 400: 住户与住房单元不匹配.
	ErrHouseMismatch
	// ErrAttachmentNotFound - 404: 档案文件不存在.
	ErrAttachmentNotFound
)

// 报告相关错误码 (103xxx).
const (
	// ErrReportNotFound - 404: 报告不存在.
	ErrReportNotFound int = iota + 103000
	// ErrDeleteForbidden - 403: 当前角色无权删除.
	ErrDeleteForbidden
	// ErrClosureRequired - 400: 结案必须填写总结.
	ErrClosureRequired
)

// 存储相关错误码 (104xxx).
const (
	// ErrExportFailed - 500: 导出失败.
	ErrExportFailed int = iota + 104000
	// ErrLocalStore - 500: 本地缓存错误.
	ErrLocalStore
)
