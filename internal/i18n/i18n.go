// Package i18n 提供接口提示文案的多语言解析
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// 支持的语言
const (
	LocaleEN      = "en-US"
	LocaleZH      = "zh-CN"
	DefaultLocale = LocaleEN
)

var (
	supportedTags = []language.Tag{
		language.AmericanEnglish,
		language.SimplifiedChinese,
	}
	supportedLocales = []string{LocaleEN, LocaleZH}
	matcher          = language.NewMatcher(supportedTags)
)

// ResolveLocale 根据 Accept-Language 或显式语言参数解析语言
func ResolveLocale(explicit, acceptLanguage string) string {
	if locale, ok := normalize(explicit); ok {
		return locale
	}
	if strings.TrimSpace(acceptLanguage) == "" {
		return DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultLocale
	}
	return supportedLocales[index]
}

// T 返回指定 key 的文案，缺失时回退到默认语言，再回退到 key 本身
func T(locale, key string) string {
	if table, ok := catalog[locale]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	if msg, ok := catalog[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 返回格式化后的文案
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}

func normalize(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return "", false
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return "", false
	}
	return supportedLocales[index], true
}
