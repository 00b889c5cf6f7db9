package i18n

import (
	"regexp"
	"testing"
)

var verbPattern = regexp.MustCompile(`%[-+# 0]*[0-9]*[a-zA-Z]`)

func TestCatalogsCoverSameMessages(t *testing.T) {
	for id, en := range messagesEN {
		zh, ok := messagesZH[id]
		if !ok {
			t.Errorf("message %s missing from zh catalogue", id)
			continue
		}
		enVerbs := verbPattern.FindAllString(en, -1)
		zhVerbs := verbPattern.FindAllString(zh, -1)
		if len(enVerbs) != len(zhVerbs) {
			t.Errorf("message %s: en has %v, zh has %v", id, enVerbs, zhVerbs)
			continue
		}
		for i := range enVerbs {
			if enVerbs[i] != zhVerbs[i] {
				t.Errorf("message %s: verb %d is %s in en but %s in zh", id, i, enVerbs[i], zhVerbs[i])
			}
		}
	}
	for id := range messagesZH {
		if _, ok := messagesEN[id]; !ok {
			t.Errorf("message %s only exists in zh catalogue", id)
		}
	}
}

func TestTranslate(t *testing.T) {
	defer SetLanguage(LangEnglish)

	tests := []struct {
		lang     string
		id       string
		args     []interface{}
		expected string
	}{
		{"en", ErrUndefinedLabel, []interface{}{"Loop"}, `undefined label "Loop"`},
		{"zh-CN", ErrUndefinedLabel, []interface{}{"Loop"}, `未定义的标签 "Loop"`},
		{"en_US.UTF-8", ErrMissingClass, nil, "missing .class or .interface directive"},
		{"fr", ErrMissingClass, nil, "missing .class or .interface directive"},
		{"en", "no.such.message", nil, "no.such.message"},
	}

	for _, tt := range tests {
		SetLanguageFromString(tt.lang)
		if got := T(tt.id, tt.args...); got != tt.expected {
			t.Errorf("[%s] T(%s) = %q, want %q", tt.lang, tt.id, got, tt.expected)
		}
	}
}
