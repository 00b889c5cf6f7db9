package errors

import (
	"strings"

	"github.com/tangzhangming/jasm/internal/i18n"
)

// ============================================================================
// 修复建议
// ============================================================================

// GetSuggestions 根据错误码获取默认的修复建议
func GetSuggestions(code string) []string {
	info, ok := GetErrorInfo(code)
	if !ok || info.HintID == "" {
		return nil
	}
	return []string{i18n.T(info.HintID)}
}

// DidYouMean 在候选名称中查找拼写相近的一个，返回 "did you mean" 建议
func DidYouMean(name string, candidates []string) string {
	maxDistance := len(name) / 3
	if maxDistance < 1 {
		maxDistance = 1
	}
	if similar := FindSimilar(name, candidates, maxDistance); similar != "" {
		return i18n.T(i18n.HintDidYouMean, similar)
	}
	return ""
}

// ============================================================================
// 相似名称查找
// ============================================================================

// FindSimilar 查找编辑距离不超过 maxDistance 的最相近名称
func FindSimilar(name string, candidates []string, maxDistance int) string {
	bestMatch := ""
	bestDistance := maxDistance + 1

	for _, candidate := range candidates {
		if candidate == name {
			continue
		}
		if d := levenshteinDistance(name, candidate); d < bestDistance {
			bestDistance = d
			bestMatch = candidate
		}
	}
	return bestMatch
}

// levenshteinDistance 计算忽略大小写的 Levenshtein 编辑距离
func levenshteinDistance(s1, s2 string) int {
	a := []rune(strings.ToLower(s1))
	b := []rune(strings.ToLower(s2))

	// 只保留两行
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
