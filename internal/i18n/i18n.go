package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// 支持的语言
const (
	LocaleZH = "zh-CN"
	LocaleEN = "en-US"

	// DefaultLocale 店铺面向马来西亚代理人，默认英文
	DefaultLocale = LocaleEN
)

var catalogs = map[string]map[string]string{
	LocaleZH: messagesZH,
	LocaleEN: messagesEN,
}

// T 查找翻译，未命中时回退默认语言，再回退 key 本身
func T(locale, key string) string {
	if msg, ok := lookup(NormalizeLocale(locale), key); ok {
		return msg
	}
	if msg, ok := lookup(DefaultLocale, key); ok {
		return msg
	}
	return key
}

// Sprintf 翻译后格式化
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}

// Has 判断 key 是否存在
func Has(locale, key string) bool {
	_, ok := lookup(NormalizeLocale(locale), key)
	return ok
}

// NormalizeLocale 归一化语言标识
func NormalizeLocale(locale string) string {
	l := strings.ToLower(strings.TrimSpace(locale))
	switch {
	case l == "":
		return DefaultLocale
	case strings.HasPrefix(l, "zh"):
		return LocaleZH
	case strings.HasPrefix(l, "en"):
		return LocaleEN
	default:
		return DefaultLocale
	}
}

// ResolveLocale 从请求解析语言：?lang= 优先，其次 Accept-Language 首项
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if lang := strings.TrimSpace(c.Query("lang")); lang != "" {
		return NormalizeLocale(lang)
	}
	header := c.GetHeader("Accept-Language")
	if header == "" {
		return DefaultLocale
	}
	first := strings.Split(header, ",")[0]
	first = strings.Split(first, ";")[0]
	return NormalizeLocale(first)
}

func lookup(locale, key string) (string, bool) {
	messages, ok := catalogs[locale]
	if !ok {
		return "", false
	}
	msg, ok := messages[key]
	return msg, ok
}
