package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	resp "shop-microservices/internal/transport/http/response"
)

// 网关注入的身份头
const (
	HeaderUserID    = "X-User-Id"
	HeaderUserEmail = "X-User-Email"
	HeaderUserRole  = "X-User-Role"
)

const (
	KeyUserID = "userId"
	KeyEmail  = "email"
	KeyRole   = "role"
)

// Identity 读取网关注入的 X-User-*；没有头时放行，id 非正整数返回 400
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := c.GetHeader(HeaderUserID); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				resp.Abort(c, http.StatusBadRequest, HeaderUserID+" must be a positive integer")
				return
			}
			c.Set(KeyUserID, id)
		}
		if v := c.GetHeader(HeaderUserEmail); v != "" {
			c.Set(KeyEmail, v)
		}
		if v := c.GetHeader(HeaderUserRole); v != "" {
			c.Set(KeyRole, v)
		}
		c.Next()
	}
}
