package lsp

import (
	stderrors "errors"
	"strconv"
	"strings"

	"go.lsp.dev/protocol"
	"go.uber.org/multierr"

	jerrors "github.com/tangzhangming/jasm/internal/errors"
)

// DiagnosticSource 诊断信息的来源名
const DiagnosticSource = "jasm"

var errDocumentTooLarge = stderrors.New("document too large to analyze")

// toDiagnostics 把流水线错误转换为诊断信息，没有错误时返回空切片
func toDiagnostics(err error, lines []string) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}
	for _, e := range multierr.Errors(err) {
		ce, ok := jerrors.As(e)
		if !ok {
			diagnostics = append(diagnostics, protocol.Diagnostic{
				Severity: protocol.DiagnosticSeverityError,
				Source:   DiagnosticSource,
				Message:  e.Error(),
			})
			continue
		}
		diagnostics = append(diagnostics, ErrorToDiagnostic(ce, lines))
	}
	return diagnostics
}

// ErrorToDiagnostic 将编译错误转换为诊断信息
//
// 没有行号的错误（编码、校验阶段）标注在第一行；没有结束列时标注到行尾。
func ErrorToDiagnostic(ce *jerrors.CompileError, lines []string) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	if ce.Level == jerrors.LevelWarning {
		severity = protocol.DiagnosticSeverityWarning
	}

	line := ce.Line - 1
	if line < 0 {
		line = 0
	}
	start := ce.Column - 1
	if start < 0 {
		start = 0
	}
	end := ce.EndColumn - 1
	if end <= start {
		end = start
		if line < len(lines) && len(lines[line]) > start {
			end = len(lines[line])
		}
	}

	message := ce.Message
	var details []string
	if ce.Method != "" {
		details = append(details, "method "+ce.Method)
	}
	if ce.Offset >= 0 {
		details = append(details, "offset "+strconv.Itoa(ce.Offset))
	}
	if ce.CPIndex > 0 {
		details = append(details, "constant #"+strconv.Itoa(ce.CPIndex))
	}
	if len(details) > 0 {
		message += " (" + strings.Join(details, ", ") + ")"
	}
	for _, hint := range ce.Hints {
		message += "\nhelp: " + hint
	}
	for _, note := range ce.Notes {
		message += "\nnote: " + note
	}

	diag := protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: uint32(line), Character: uint32(start)},
			End:   protocol.Position{Line: uint32(line), Character: uint32(end)},
		},
		Severity: severity,
		Source:   DiagnosticSource,
		Message:  message,
	}
	if ce.Code != "" {
		diag.Code = ce.Code
	}
	return diag
}
