package lsp

import (
	"go.lsp.dev/protocol"

	"github.com/tangzhangming/jasm/internal/ast"
)

// documentSymbols 返回类及其字段、方法的符号树
func (s *Server) documentSymbols(docURI string) []protocol.DocumentSymbol {
	symbols := []protocol.DocumentSymbol{}

	doc := s.documents.Get(docURI)
	if doc == nil {
		return symbols
	}
	unit := doc.Unit()
	if unit == nil || unit.Class == nil {
		return symbols
	}

	class := unit.Class
	kind := protocol.SymbolKindClass
	if class.IsInterface {
		kind = protocol.SymbolKindInterface
	}
	classSymbol := protocol.DocumentSymbol{
		Name:           class.DottedName(),
		Detail:         ast.ClassFlagNames(class.Access),
		Kind:           kind,
		Range:          doc.lineRange(class.Line, doc.LineCount()),
		SelectionRange: doc.lineRange(class.Line, class.Line),
	}

	for _, f := range unit.Fields {
		classSymbol.Children = append(classSymbol.Children, protocol.DocumentSymbol{
			Name:           f.Name,
			Detail:         f.Descriptor,
			Kind:           protocol.SymbolKindField,
			Range:          doc.lineRange(f.Line, f.Line),
			SelectionRange: doc.lineRange(f.Line, f.Line),
		})
	}

	for _, m := range unit.Methods {
		kind := protocol.SymbolKindMethod
		if m.Name == "<init>" {
			kind = protocol.SymbolKindConstructor
		}
		end := m.EndLine
		if end < m.Line {
			end = m.Line
		}
		classSymbol.Children = append(classSymbol.Children, protocol.DocumentSymbol{
			Name:           m.Name,
			Detail:         m.Descriptor,
			Kind:           kind,
			Range:          doc.lineRange(m.Line, end),
			SelectionRange: doc.lineRange(m.Line, m.Line),
		})
	}

	return append(symbols, classSymbol)
}

// lineRange 返回从 first 行开头到 last 行末尾的范围，行号从 1 开始
func (doc *Document) lineRange(first, last int) protocol.Range {
	if first < 1 {
		first = 1
	}
	if last < first {
		last = first
	}
	return protocol.Range{
		Start: protocol.Position{Line: uint32(first - 1)},
		End:   protocol.Position{Line: uint32(last - 1), Character: uint32(len(doc.GetLine(last - 1)))},
	}
}
