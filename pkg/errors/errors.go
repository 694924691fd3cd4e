package errors

// ========== 错误码常量定义 ==========

// CodeSuccess 成功码
const (
	CodeSuccess = 200
)

// HTTP层错误码 (400-599)
const (
	CodeInvalidParam = 400
	CodeUnauthorized = 401
	CodeForbidden    = 403
	CodeNotFound     = 404
	CodeServerError  = 500
)

// 默认错误消息
var codeMessages = map[int]string{
	CodeSuccess:      "success",
	CodeInvalidParam: "请求参数错误",
	CodeUnauthorized: "未登录或登录已过期",
	CodeForbidden:    "没有操作权限",
	CodeNotFound:     "资源不存在",
	CodeServerError:  "服务器内部错误",
}

// Message 返回错误码的默认消息
func Message(code int) string {
	if msg, ok := codeMessages[code]; ok {
		return msg
	}
	return "未知错误"
}
