package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// 支持的语言
const (
	LocaleEN = "en-US"
	LocaleZH = "zh-CN"
)

// DefaultLocale 默认语言
const DefaultLocale = LocaleEN

var catalogs = map[string]map[string]string{
	LocaleEN: messagesEN,
	LocaleZH: messagesZH,
}

// NormalizeLocale 将任意语言标签归一为支持的语言
func NormalizeLocale(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return DefaultLocale
	}
	if idx := strings.IndexAny(value, ",;"); idx >= 0 {
		value = strings.TrimSpace(value[:idx])
	}
	value = strings.ReplaceAll(value, "_", "-")
	switch {
	case strings.HasPrefix(value, "zh"):
		return LocaleZH
	case strings.HasPrefix(value, "en"):
		return LocaleEN
	default:
		return DefaultLocale
	}
}

// ResolveLocale 从请求中解析语言：lang 参数优先，其次 Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if lang := strings.TrimSpace(c.Query("lang")); lang != "" {
		return NormalizeLocale(lang)
	}
	if c.Request != nil {
		if header := c.GetHeader("Accept-Language"); header != "" {
			return NormalizeLocale(header)
		}
	}
	return DefaultLocale
}

// T 翻译 key，找不到时回退到默认语言，再回退到 key 本身
func T(locale, key string) string {
	if msgs, ok := catalogs[NormalizeLocale(locale)]; ok {
		if msg, ok := msgs[key]; ok {
			return msg
		}
	}
	if msg, ok := catalogs[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译后格式化
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}

// Has 判断 key 是否存在于默认语言表
func Has(key string) bool {
	_, ok := catalogs[DefaultLocale][key]
	return ok
}
