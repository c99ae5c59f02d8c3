package shared

import (
	"errors"
	"net/http"

	"github.com/ecofinds/internal/service"

	"github.com/gin-gonic/gin"
)

// ErrorRule 定义业务错误到接口错误响应的映射关系。
type ErrorRule struct {
	Target error
	Status int
	Key    string
}

// CommonErrorRules 所有接口共用的映射。
var CommonErrorRules = []ErrorRule{
	{Target: service.ErrCaptchaRequired, Status: http.StatusBadRequest, Key: "error.captcha_required"},
	{Target: service.ErrCaptchaInvalid, Status: http.StatusBadRequest, Key: "error.captcha_invalid"},
	{Target: service.ErrUserNotFound, Status: http.StatusNotFound, Key: "error.user_not_found"},
	{Target: service.ErrNotFound, Status: http.StatusNotFound, Key: "error.not_found"},
	{Target: service.ErrForbidden, Status: http.StatusForbidden, Key: "error.forbidden"},
}

type keyedError interface {
	Key() string
	Args() []interface{}
}

// RespondMappedError 按规则映射业务错误；未命中的错误统一返回 500 并记录日志。
func RespondMappedError(c *gin.Context, err error, rules ...[]ErrorRule) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		RespondFieldError(c, verr.Field, verr.Key, verr.Args...)
		return
	}
	var unavailable *service.ProductUnavailableError
	if errors.As(err, &unavailable) {
		RespondErrorWithMsg(c, http.StatusBadRequest, T(c, "error.product_unavailable_title", unavailable.Title), nil)
		return
	}
	if errors.Is(err, service.ErrWeakPassword) {
		var keyed keyedError
		if errors.As(err, &keyed) {
			RespondFieldError(c, "password", keyed.Key(), keyed.Args()...)
			return
		}
	}
	for _, group := range append(rules, CommonErrorRules) {
		for _, rule := range group {
			if errors.Is(err, rule.Target) {
				RespondError(c, rule.Status, rule.Key, nil)
				return
			}
		}
	}
	RespondError(c, http.StatusInternalServerError, "error.server", err)
}
