package service

import (
	"unicode"
	"unicode/utf8"

	"github.com/ecofinds/internal/config"
)

// passwordPolicyError 携带 i18n key 与格式化参数的弱密码错误
type passwordPolicyError struct {
	key  string
	args []interface{}
}

func (e passwordPolicyError) Error() string { return e.key }
func (e passwordPolicyError) Is(target error) bool { return target == ErrWeakPassword }
func (e passwordPolicyError) Key() string { return e.key }
func (e passwordPolicyError) Args() []interface{} { return e.args }

type charClassRule struct {
	enabled func(config.PasswordPolicyConfig) bool
	match   func(rune) bool
	key string
}

var charClassRules = []charClassRule{
	{func(p config.PasswordPolicyConfig) bool { return p.RequireUpper }, unicode.IsUpper, "error.password_upper"},
	{func(p config.PasswordPolicyConfig) bool { return p.RequireLower }, unicode.IsLower, "error.password_lower"},
	{func(p config.PasswordPolicyConfig) bool { return p.RequireNumber }, unicode.IsDigit, "error.password_number"},
	{func(p config.PasswordPolicyConfig) bool { return p.RequireSpecial }, isSpecialRune, "error.password_special"},
}

func isSpecialRune(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r)
}

// validatePassword 长度按字符计；字符类规则按配置依次检查，返回第一条不满足的
func validatePassword(policy config.PasswordPolicyConfig, password string) error {
	if policy.MinLength > 0 && utf8.RuneCountInString(password) < policy.MinLength {
		return passwordPolicyError{key: "error.password_too_short", args: []interface{}{policy.MinLength}}
	}
	for _, rule := range charClassRules {
		if !rule.enabled(policy) {
			continue
		}
		if !containsRune(password, rule.match) {
			return passwordPolicyError{key: rule.key}
		}
	}
	return nil
}

func containsRune(s string, match func(rune) bool) bool {
	for _, r := range s {
		if match(r) {
			return true
		}
	}
	return false
}
