package response

import (
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorBody 所有服务统一的错误响应
type ErrorBody struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}

// Error message 为空时使用状态码的默认描述
func Error(status int, msg, path string) ErrorBody {
	if msg == "" {
		msg = reason(status)
	}
	return ErrorBody{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     reason(status),
		Message:   msg,
		Path:      path,
	}
}

func Abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Error(status, msg, c.Request.URL.Path))
}
