package ez

import (
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	mdw "shop-microservices/internal/transport/http/middleware"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// Action 一个接口：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string
	Path    string
	Binder  Binder
	Auth    bool     // 要求 X-User-Id
	Roles   []string // 非空时要求 X-User-Role 属于其中之一
	Status  int      // 成功状态码，默认 200；204 不写 body
	Handler func(c *gin.Context, in *I) (O, error)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}

	h := func(c *gin.Context) {
		// 1) 身份/角色
		if a.Auth {
			if _, ok := UserID(c); !ok {
				Fail(c, Unauthorized("missing user identity"))
				return
			}
		}
		if len(a.Roles) > 0 && !slices.Contains(a.Roles, c.GetString(mdw.KeyRole)) {
			Fail(c, Forbidden("insufficient role"))
			return
		}

		// 2) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			Fail(c, bindError(bindErr))
			return
		}

		// 3) 执行
		out, err := a.Handler(c, &in)
		if err != nil {
			Fail(c, err)
			return
		}
		if status == http.StatusNoContent {
			c.Status(status)
			return
		}
		c.JSON(status, out)
	}

	e.g.Handle(strings.ToUpper(a.Method), a.Path, h)
}

func bindError(err error) error {
	var ve validator.ValidationErrors
	var mbe *http.MaxBytesError
	if errors.As(err, &ve) || errors.As(err, &mbe) {
		return err
	}
	return &AErr{Code: http.StatusBadRequest, Msg: "malformed request", Err: err}
}

// PathID 路径参数必须是正整数
func PathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, BadRequest(name + " must be a positive integer")
	}
	return id, nil
}

// UserID Identity 中间件解析出的调用方 id
func UserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(mdw.KeyUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
