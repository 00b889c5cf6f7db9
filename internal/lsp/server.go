// Package lsp 为 .j 文件提供语言服务：诊断、文档符号、折叠范围和指令悬停说明
package lsp

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/segmentio/encoding/json"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Options 服务器选项
type Options struct {
	Verify  bool   // 诊断是否包含校验阶段
	Version string // 在 serverInfo 中报告的版本
}

// Server LSP 服务器
type Server struct {
	opts      Options
	documents *DocumentManager
	logger    *zap.Logger
	conn      jsonrpc2.Conn

	// 服务器状态
	shutdown atomic.Bool
	exited   atomic.Bool
}

// NewServer 创建 LSP 服务器，logger 为 nil 时不输出日志
func NewServer(logger *zap.Logger, opts Options) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		opts:      opts,
		documents: NewDocumentManager(),
		logger:    logger,
	}
}

// Serve 在 rwc 上运行服务器，直到收到 exit、连接断开或 ctx 取消
func (s *Server) Serve(ctx context.Context, rwc io.ReadWriteCloser) error {
	s.conn = jsonrpc2.NewConn(jsonrpc2.NewStream(rwc))
	s.conn.Go(ctx, protocol.Handlers(s.handle))
	s.logger.Info("jasm language server started")

	select {
	case <-ctx.Done():
		s.conn.Close()
		<-s.conn.Done()
		return ctx.Err()
	case <-s.conn.Done():
	}

	err := s.conn.Err()
	if s.exited.Load() || err == nil || stderrors.Is(err, io.EOF) || stderrors.Is(err, io.ErrClosedPipe) {
		s.logger.Info("jasm language server stopped")
		return nil
	}
	return err
}

// handle 按方法分发收到的请求和通知
func (s *Server) handle(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	s.logger.Debug("request", zap.String("method", req.Method()))

	switch req.Method() {
	case protocol.MethodInitialize:
		return reply(ctx, s.initializeResult(), nil)
	case protocol.MethodInitialized:
		return reply(ctx, nil, nil)
	case protocol.MethodShutdown:
		s.shutdown.Store(true)
		return reply(ctx, nil, nil)
	case protocol.MethodExit:
		s.exited.Store(true)
		err := reply(ctx, nil, nil)
		s.conn.Close()
		return err

	case protocol.MethodTextDocumentDidOpen:
		var p protocol.DidOpenTextDocumentParams
		if err := decode(req, &p); err != nil {
			return reply(ctx, nil, err)
		}
		s.documents.Open(string(p.TextDocument.URI), p.TextDocument.Text, int(p.TextDocument.Version))
		return reply(ctx, nil, s.publishDiagnostics(ctx, string(p.TextDocument.URI)))

	case protocol.MethodTextDocumentDidChange:
		var p protocol.DidChangeTextDocumentParams
		if err := decode(req, &p); err != nil {
			return reply(ctx, nil, err)
		}
		docURI := string(p.TextDocument.URI)
		for _, change := range p.ContentChanges {
			s.documents.ApplyChange(docURI, change, int(p.TextDocument.Version))
		}
		return reply(ctx, nil, s.publishDiagnostics(ctx, docURI))

	case protocol.MethodTextDocumentDidSave:
		var p protocol.DidSaveTextDocumentParams
		if err := decode(req, &p); err != nil {
			return reply(ctx, nil, err)
		}
		docURI := string(p.TextDocument.URI)
		if p.Text != "" {
			s.documents.UpdateContent(docURI, p.Text)
		}
		return reply(ctx, nil, s.publishDiagnostics(ctx, docURI))

	case protocol.MethodTextDocumentDidClose:
		var p protocol.DidCloseTextDocumentParams
		if err := decode(req, &p); err != nil {
			return reply(ctx, nil, err)
		}
		s.documents.Close(string(p.TextDocument.URI))
		// 清除诊断
		return reply(ctx, nil, s.conn.Notify(ctx, protocol.MethodTextDocumentPublishDiagnostics,
			protocol.PublishDiagnosticsParams{URI: p.TextDocument.URI, Diagnostics: []protocol.Diagnostic{}}))

	case protocol.MethodTextDocumentDocumentSymbol:
		var p protocol.DocumentSymbolParams
		if err := decode(req, &p); err != nil {
			return reply(ctx, nil, err)
		}
		return reply(ctx, s.documentSymbols(string(p.TextDocument.URI)), nil)

	case protocol.MethodTextDocumentFoldingRange:
		var p protocol.FoldingRangeParams
		if err := decode(req, &p); err != nil {
			return reply(ctx, nil, err)
		}
		return reply(ctx, s.foldingRanges(string(p.TextDocument.URI)), nil)

	case protocol.MethodTextDocumentHover:
		var p protocol.HoverParams
		if err := decode(req, &p); err != nil {
			return reply(ctx, nil, err)
		}
		hover := s.hover(string(p.TextDocument.URI), int(p.Position.Line), int(p.Position.Character))
		if hover == nil {
			return reply(ctx, nil, nil)
		}
		return reply(ctx, hover, nil)
	}

	s.logger.Debug("unknown method", zap.String("method", req.Method()))
	return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
}

// initializeResult 返回服务器能力
func (s *Server) initializeResult() *protocol.InitializeResult {
	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			// 文档同步：增量同步
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindIncremental,
				Save:      &protocol.SaveOptions{IncludeText: true},
			},
			HoverProvider:          true,
			DocumentSymbolProvider: true,
			FoldingRangeProvider:   true,
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    "jasm",
			Version: s.opts.Version,
		},
	}
}

// publishDiagnostics 编译文档并发布诊断信息
func (s *Server) publishDiagnostics(ctx context.Context, docURI string) error {
	doc := s.documents.Get(docURI)
	if doc == nil {
		return nil
	}

	diagnostics := doc.Diagnostics(s.opts.Verify)
	s.logger.Debug("publish diagnostics", zap.String("uri", docURI), zap.Int("count", len(diagnostics)))

	return s.conn.Notify(ctx, protocol.MethodTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentURI(docURI),
		Version:     uint32(doc.Version),
		Diagnostics: diagnostics,
	})
}

// decode 解析请求参数
func decode(req jsonrpc2.Request, v interface{}) error {
	if err := json.Unmarshal(req.Params(), v); err != nil {
		return fmt.Errorf("%s: %w: %v", req.Method(), jsonrpc2.ErrInvalidParams, err)
	}
	return nil
}

// uriToPath 将 URI 转换为文件路径，非 file URI 原样返回
func uriToPath(docURI string) string {
	if !strings.HasPrefix(docURI, uri.FileScheme+"://") {
		return docURI
	}
	u, err := uri.Parse(docURI)
	if err != nil {
		return docURI
	}
	return u.Filename()
}
