package response

import "github.com/gin-gonic/gin"

// Resp 错误响应体；成功响应直接返回实体
type Resp struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Error customMsg 为空时使用默认提示语
func Error(code int, customMsg string) Resp {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return Resp{Code: code, Message: msg}
}

func WithDetails(code int, msg string, details any) Resp {
	r := Error(code, msg)
	r.Details = details
	return r
}

// Abort HTTP 状态码与 code 一致
func Abort(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, Error(code, msg))
}
