package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"shop-microservices/internal/core/auth"
	resp "shop-microservices/internal/transport/http/response"
)

const KeyClaims = "claims"

type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// AuthJWT 网关鉴权：先剥离客户端自带的 X-User-*，公开路径直接放行，
// 其余校验 Bearer token 并把身份写入转发请求头
func AuthJWT(j TokenParser, isPublic func(path string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Request.Header
		h.Del(HeaderUserID)
		h.Del(HeaderUserEmail)
		h.Del(HeaderUserRole)

		if isPublic != nil && isPublic(c.Request.URL.Path) {
			c.Next()
			return
		}

		tok, ok := bearer(h.Get("Authorization"))
		if !ok {
			resp.Abort(c, http.StatusUnauthorized, "missing bearer token")
			return
		}
		claims, err := j.Parse(tok)
		if err != nil {
			resp.Abort(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		id, err := claims.AccountID()
		if err != nil {
			resp.Abort(c, http.StatusUnauthorized, "invalid token subject")
			return
		}

		h.Set(HeaderUserID, strconv.FormatInt(id, 10))
		h.Set(HeaderUserEmail, claims.Email)
		h.Set(HeaderUserRole, claims.Role)
		c.Set(KeyUserID, id)
		c.Set(KeyEmail, claims.Email)
		c.Set(KeyRole, claims.Role)
		c.Set(KeyClaims, claims)
		c.Next()
	}
}

func bearer(header string) (string, bool) {
	const prefix = "bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	tok := strings.TrimSpace(header[len(prefix):])
	return tok, tok != ""
}
