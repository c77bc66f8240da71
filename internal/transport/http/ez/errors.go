package ez

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"shop-microservices/internal/domain"
	resp "shop-microservices/internal/transport/http/response"
)

// AErr 直接指定 HTTP 状态码的错误
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &AErr{Code: http.StatusBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: http.StatusUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &AErr{Code: http.StatusForbidden, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Code: http.StatusNotFound, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: http.StatusInternalServerError, Msg: msg, Err: err}
}

// StatusOf 统一错误映射：AErr > 校验错误 > 领域错误 > 500
func StatusOf(err error) (int, string) {
	var (
		ae  *AErr
		ve  validator.ValidationErrors
		nf  *domain.NotFoundError
		mbe *http.MaxBytesError
	)
	switch {
	case errors.As(err, &ae):
		return ae.Code, ae.Error()
	case errors.As(err, &ve):
		return http.StatusBadRequest, ValidationMessage(ve)
	case errors.As(err, &mbe):
		return http.StatusRequestEntityTooLarge, "request body too large"
	case errors.As(err, &nf):
		return http.StatusNotFound, nf.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, domain.ErrNotFound.Error()
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, domain.ErrEmailTaken.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, domain.ErrInvalidCredentials.Error()
	case errors.Is(err, domain.ErrMissingRole):
		return http.StatusInternalServerError, domain.ErrMissingRole.Error()
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway, domain.ErrUpstream.Error()
	}
	return http.StatusInternalServerError, "internal server error"
}

// Fail 写错误响应；错误挂到 c.Errors 供访问日志输出
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	code, msg := StatusOf(err)
	resp.Abort(c, code, msg)
}
