package lsp

import (
	"strings"
	"sync"

	"go.lsp.dev/protocol"

	"github.com/tangzhangming/jasm/internal/ast"
	"github.com/tangzhangming/jasm/internal/compiler"
	"github.com/tangzhangming/jasm/internal/verifier"
)

// Document 表示一个打开的文档
type Document struct {
	URI     string
	Content string
	Version int
	Lines   []string // 按行分割的内容

	// 缓存的分析结果
	unit     *ast.CompilationUnit // 语法错误时为部分结果，可为 nil
	err      error
	verified bool
	dirty    bool
	mu       sync.Mutex
}

// DocumentManager 文档管理器
type DocumentManager struct {
	documents map[string]*Document
	mu        sync.RWMutex
}

// NewDocumentManager 创建文档管理器
func NewDocumentManager() *DocumentManager {
	return &DocumentManager{
		documents: make(map[string]*Document),
	}
}

// Open 打开文档
func (dm *DocumentManager) Open(uri, content string, version int) *Document {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	doc := &Document{
		URI:     uri,
		Content: content,
		Version: version,
		Lines:   splitLines(content),
		dirty:   true,
	}
	dm.documents[uri] = doc
	return doc
}

// Close 关闭文档
func (dm *DocumentManager) Close(uri string) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	delete(dm.documents, uri)
}

// Get 获取文档
func (dm *DocumentManager) Get(uri string) *Document {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.documents[uri]
}

// UpdateContent 用完整内容替换文档
func (dm *DocumentManager) UpdateContent(uri, content string) {
	doc := dm.Get(uri)
	if doc == nil {
		return
	}

	doc.mu.Lock()
	defer doc.mu.Unlock()
	doc.setContent(content)
	doc.Version++
}

// ApplyChange 应用一次变更，没有范围的变更替换整个文档
func (dm *DocumentManager) ApplyChange(uri string, change protocol.TextDocumentContentChangeEvent, version int) {
	doc := dm.Get(uri)
	if doc == nil {
		return
	}

	doc.mu.Lock()
	defer doc.mu.Unlock()

	// LSP 规范：如果 range 被省略，新文本被认为是文档的完整内容
	isFullReplace := change.Range == (protocol.Range{}) && change.RangeLength == 0
	if isFullReplace {
		doc.setContent(change.Text)
	} else {
		doc.setContent(applyTextEdit(doc.Content, change.Range, change.Text))
	}
	doc.Version = version
}

func (doc *Document) setContent(content string) {
	doc.Content = content
	doc.Lines = splitLines(content)
	doc.dirty = true
}

// maxDocumentSize 超过此大小的文档不做分析
const maxDocumentSize = 4 * 1024 * 1024

// analyze 运行完整流水线，结果缓存到内容变化为止
func (doc *Document) analyze(verify bool) {
	if !doc.dirty && doc.verified == verify {
		return
	}
	doc.dirty = false
	doc.verified = verify

	if len(doc.Content) > maxDocumentSize {
		doc.unit, doc.err = nil, errDocumentTooLarge
		return
	}

	filename := uriToPath(doc.URI)
	unit, err := compiler.Parse([]byte(doc.Content), filename, "")
	doc.unit = unit
	if err != nil {
		doc.err = err
		return
	}

	v := verifier.Skip
	if verify {
		v = verifier.New()
	}
	_, doc.err = compiler.Assemble(unit, compiler.Options{Verifier: v})
}

// Unit 返回文档的编译单元，语法错误时可能为部分结果或 nil
func (doc *Document) Unit() *ast.CompilationUnit {
	doc.mu.Lock()
	defer doc.mu.Unlock()
	doc.analyze(doc.verified)
	return doc.unit
}

// Diagnostics 返回文档的诊断信息
func (doc *Document) Diagnostics(verify bool) []protocol.Diagnostic {
	doc.mu.Lock()
	defer doc.mu.Unlock()
	doc.analyze(verify)
	return toDiagnostics(doc.err, doc.Lines)
}

// GetLine 获取指定行内容
func (doc *Document) GetLine(line int) string {
	doc.mu.Lock()
	defer doc.mu.Unlock()
	if line < 0 || line >= len(doc.Lines) {
		return ""
	}
	return doc.Lines[line]
}

// splitLines 将内容按行分割
func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	return strings.Split(content, "\n")
}

// applyTextEdit 应用文本编辑，越界的位置被收拢到文档范围内
func applyTextEdit(content string, rang protocol.Range, newText string) string {
	lines := splitLines(content)

	clampLine := func(l int) int {
		if l >= len(lines) {
			l = len(lines) - 1
		}
		if l < 0 {
			l = 0
		}
		return l
	}
	startLine := clampLine(int(rang.Start.Line))
	endLine := clampLine(int(rang.End.Line))
	startChar := int(rang.Start.Character)
	endChar := int(rang.End.Character)

	startLineText := lines[startLine]
	endLineText := lines[endLine]
	if startChar > len(startLineText) {
		startChar = len(startLineText)
	}
	if endChar > len(endLineText) {
		endChar = len(endLineText)
	}

	var result strings.Builder
	for i := 0; i < startLine; i++ {
		result.WriteString(lines[i])
		result.WriteString("\n")
	}
	result.WriteString(startLineText[:startChar])
	result.WriteString(newText)
	result.WriteString(endLineText[endChar:])
	for i := endLine + 1; i < len(lines); i++ {
		result.WriteString("\n")
		result.WriteString(lines[i])
	}

	return result.String()
}

// LineCount 返回文档行数
func (doc *Document) LineCount() int {
	doc.mu.Lock()
	defer doc.mu.Unlock()
	return len(doc.Lines)
}
