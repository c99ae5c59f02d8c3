package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound              = errors.New("资源不存在")
	ErrForbidden             = errors.New("无权操作")
	ErrValidation            = errors.New("参数校验失败")
	ErrInvalidEmail          = errors.New("邮箱格式无效")
	ErrEmailExists           = errors.New("邮箱已注册")
	ErrUsernameTaken         = errors.New("用户名已被占用")
	ErrInvalidCredentials    = errors.New("账号或密码错误")
	ErrUserDisabled          = errors.New("账号已禁用")
	ErrUserNotFound          = errors.New("用户不存在")
	ErrWeakPassword          = errors.New("密码强度不足")
	ErrCaptchaRequired       = errors.New("缺少验证码")
	ErrCaptchaInvalid        = errors.New("验证码错误")
	ErrCaptchaConfigInvalid  = errors.New("验证码配置无效")
	ErrProductNotFound       = errors.New("商品不存在")
	ErrProductUnavailable    = errors.New("商品不可购买")
	ErrInvalidProductStatus  = errors.New("商品状态不允许变更")
	ErrSelfPurchase          = errors.New("不能购买自己的商品")
	ErrCategoryNotFound      = errors.New("分类不存在")
	ErrCategoryExists        = errors.New("分类已存在")
	ErrCategoryInUse         = errors.New("分类仍被商品引用")
	ErrCartItemNotFound      = errors.New("购物车条目不存在")
	ErrCartEmpty             = errors.New("购物车为空")
	ErrCheckoutInProgress    = errors.New("结算进行中")
	ErrPurchaseNotFound      = errors.New("购买记录不存在")
	ErrInvalidPurchaseStatus = errors.New("购买记录状态变更不合法")
	ErrAdminNotFound         = errors.New("管理员不存在")
)

// ValidationError 字段级校验失败，Key 为 i18n 文案 key
type ValidationError struct {
	Field string
	Key   string
	Args  []interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Key)
}

// Is 匹配 ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError(field, key string, args ...interface{}) error {
	return &ValidationError{Field: field, Key: key, Args: args}
}

// ProductUnavailableError 结算时商品已不可购买
type ProductUnavailableError struct {
	ProductID uint
	Title     string
}

func (e *ProductUnavailableError) Error() string {
	return fmt.Sprintf("product %q is no longer available", e.Title)
}

// Is 匹配 ErrProductUnavailable
func (e *ProductUnavailableError) Is(target error) bool {
	return target == ErrProductUnavailable
}
