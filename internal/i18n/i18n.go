// Package i18n 提供汇编器诊断与命令行输出的多语言消息目录
package i18n

import (
	"fmt"
	"strings"
	"sync"
)

// Language 语言类型
type Language string

const (
	LangEnglish Language = "en"
	LangChinese Language = "zh"
)

var catalogs = map[Language]map[string]string{
	LangEnglish: messagesEN,
	LangChinese: messagesZH,
}

// 全局语言设置
var (
	currentLang = LangEnglish
	mu          sync.RWMutex
)

// SetLanguage 设置当前语言，未知语言回退到英文
func SetLanguage(lang Language) {
	if _, ok := catalogs[lang]; !ok {
		lang = LangEnglish
	}
	mu.Lock()
	currentLang = lang
	mu.Unlock()
}

// SetLanguageFromString 从字符串设置语言（如 "zh-CN"、"en_US.UTF-8"）
func SetLanguageFromString(lang string) {
	SetLanguage(ParseLanguage(lang))
}

// ParseLanguage 解析语言标签
func ParseLanguage(lang string) Language {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if strings.HasPrefix(lang, "zh") || lang == "chinese" {
		return LangChinese
	}
	return LangEnglish
}

// GetLanguage 获取当前语言
func GetLanguage() Language {
	mu.RLock()
	defer mu.RUnlock()
	return currentLang
}

// T 翻译消息（支持格式化参数）
//
// 当前语言缺少该消息时回退到英文，英文也缺少时返回消息 ID 本身。
func T(msgID string, args ...interface{}) string {
	msg, ok := catalogs[GetLanguage()][msgID]
	if !ok {
		if msg, ok = messagesEN[msgID]; !ok {
			return msgID
		}
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}
