package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/ecofinds/internal/http/response"
	"github.com/ecofinds/internal/i18n"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidatorTagNames 让校验错误使用 json/form 标签名作为字段名。
func RegisterValidatorTagNames() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return field.Name
		})
	})
}

// BindJSON 绑定并校验 JSON 请求体，失败时写出 400 响应。
func BindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		RespondBindError(c, err)
		return false
	}
	return true
}

// BindQuery 绑定并校验查询参数，失败时写出 400 响应。
func BindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		RespondBindError(c, err)
		return false
	}
	return true
}

// RespondBindError 将绑定错误转换为字段级校验响应。
func RespondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		locale := Locale(c)
		fields := make([]response.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, response.FieldError{
				Field:   fe.Field(),
				Message: fieldMessage(locale, fe.Field(), fe.Tag()),
			})
		}
		respondValidation(c, fields, err)
		return
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		field := typeErr.Field
		respondValidation(c, []response.FieldError{{
			Field:   field,
			Message: fieldMessage(Locale(c), field, ""),
		}}, err)
		return
	}
	RespondError(c, http.StatusBadRequest, "error.bad_request", err)
}

// RespondFieldError 返回单字段校验失败响应。
func RespondFieldError(c *gin.Context, field, key string, args ...interface{}) {
	respondValidation(c, []response.FieldError{{
		Field:   field,
		Message: T(c, key, args...),
	}}, nil)
}

func respondValidation(c *gin.Context, fields []response.FieldError, err error) {
	if err != nil {
		RequestLog(c).Debugw("request_validation_failed", "error", err)
	}
	response.ValidationError(c, T(c, "error.validation_failed"), fields)
}

func fieldMessage(locale, field, tag string) string {
	candidates := make([]string, 0, 2)
	if tag != "" {
		candidates = append(candidates, "validation."+field+"_"+tag)
	}
	candidates = append(candidates, "validation."+field)
	for _, key := range candidates {
		if msg := i18n.T(locale, key); msg != key {
			return msg
		}
	}
	return i18n.Sprintf(locale, "validation.field_invalid", field)
}
