//go:build windows

package main

import (
	"strings"

	"golang.org/x/sys/windows"
)

// detectWindowsChinese 读取用户界面语言列表，首选语言为中文时返回 true
func detectWindowsChinese() bool {
	langs, err := windows.GetUserPreferredUILanguages(windows.MUI_LANGUAGE_NAME)
	if err != nil || len(langs) == 0 {
		return false
	}
	return strings.HasPrefix(strings.ToLower(langs[0]), "zh")
}
