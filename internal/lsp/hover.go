package lsp

import (
	"fmt"
	"strings"

	"go.lsp.dev/protocol"

	"github.com/tangzhangming/jasm/internal/bytecode"
)

// hover 光标位于指令助记符上时返回操作码、操作数格式和栈效果
func (s *Server) hover(docURI string, line, character int) *protocol.Hover {
	doc := s.documents.Get(docURI)
	if doc == nil {
		return nil
	}

	lineText := doc.GetLine(line)
	word, start, end := wordAt(lineText, character)
	if word == "" {
		return nil
	}
	info, ok := bytecode.Lookup(word)
	if !ok {
		return nil
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: describeOpcode(info),
		},
		Range: &protocol.Range{
			Start: protocol.Position{Line: uint32(line), Character: uint32(start)},
			End:   protocol.Position{Line: uint32(line), Character: uint32(end)},
		},
	}
}

// describeOpcode 生成指令说明的 Markdown 文本
func describeOpcode(info *bytecode.Info) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s** `0x%02x`\n\n", info.Name, byte(info.Code))

	if size := info.Format.Size(); size > 0 {
		fmt.Fprintf(&sb, "length: %d bytes\n\n", size)
	} else {
		sb.WriteString("length: variable\n\n")
	}

	if info.HasVariableEffect() {
		sb.WriteString("stack: depends on the operand")
	} else {
		fmt.Fprintf(&sb, "stack: pop %d, push %d", info.Pop, info.Push)
	}
	return sb.String()
}

// wordAt 返回 character 所在的单词及其起止列
func wordAt(lineText string, character int) (word string, start, end int) {
	if character < 0 || character > len(lineText) {
		return "", 0, 0
	}

	start = character
	for start > 0 && isWordChar(lineText[start-1]) {
		start--
	}
	end = character
	for end < len(lineText) && isWordChar(lineText[end]) {
		end++
	}
	return lineText[start:end], start, end
}

// isWordChar 判断是否是助记符字符
func isWordChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '_'
}
