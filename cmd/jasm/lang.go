package main

import (
	"os"
	"runtime"
	"strings"

	"github.com/tangzhangming/jasm/internal/i18n"
)

// InitLanguage 初始化语言设置
// 优先级: 命令行参数 > 环境变量 JASM_LANG > 操作系统语言 > 默认英文
func InitLanguage(langOverride string) {
	if langOverride != "" {
		i18n.SetLanguageFromString(langOverride)
		return
	}

	if envLang := os.Getenv("JASM_LANG"); envLang != "" {
		i18n.SetLanguageFromString(envLang)
		return
	}

	if detectChineseOS() {
		i18n.SetLanguage(i18n.LangChinese)
		return
	}

	i18n.SetLanguage(i18n.LangEnglish)
}

// detectChineseOS 检测操作系统是否为中文环境
func detectChineseOS() bool {
	if runtime.GOOS == "windows" && detectWindowsChinese() {
		return true
	}

	// Unix/Linux/Mac: 检查环境变量
	for _, v := range []string{"LC_ALL", "LC_MESSAGES", "LANGUAGE", "LANG"} {
		if val := os.Getenv(v); val != "" {
			lower := strings.ToLower(val)
			return strings.HasPrefix(lower, "zh") || strings.Contains(lower, "chinese")
		}
	}
	return false
}
