package lsp

import (
	"sort"
	"strings"

	"go.lsp.dev/protocol"
)

// foldingRanges 收集方法体和连续注释行的折叠范围
func (s *Server) foldingRanges(docURI string) []protocol.FoldingRange {
	ranges := []protocol.FoldingRange{}

	doc := s.documents.Get(docURI)
	if doc == nil {
		return ranges
	}

	if unit := doc.Unit(); unit != nil {
		for _, m := range unit.Methods {
			if m.EndLine > m.Line {
				ranges = append(ranges, protocol.FoldingRange{
					StartLine: uint32(m.Line - 1),
					EndLine:   uint32(m.EndLine - 1),
					Kind:      protocol.RegionFoldingRange,
				})
			}
		}
	}

	ranges = append(ranges, commentFoldingRanges(doc)...)
	sort.Slice(ranges, func(i, j int) bool {
		return ranges[i].StartLine < ranges[j].StartLine
	})
	return ranges
}

// commentFoldingRanges 两行及以上的连续 ; 注释折叠为一段
func commentFoldingRanges(doc *Document) []protocol.FoldingRange {
	var ranges []protocol.FoldingRange
	start := -1
	n := doc.LineCount()

	flush := func(end int) {
		if start >= 0 && end > start {
			ranges = append(ranges, protocol.FoldingRange{
				StartLine: uint32(start),
				EndLine:   uint32(end),
				Kind:      protocol.CommentFoldingRange,
			})
		}
		start = -1
	}

	for i := 0; i < n; i++ {
		if strings.HasPrefix(strings.TrimSpace(doc.GetLine(i)), ";") {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i - 1)
	}
	flush(n - 1)
	return ranges
}
