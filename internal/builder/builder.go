// Package builder 并发编译一组源文件并写出 class 文件
//
// 每个源文件是一个独立单元：读取、编译、校验、写出。单元之间只共享计数器和结果槽位，
// 写出采用临时文件加重命名，失败的单元不会留下旧的或半写的产物。
package builder

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tangzhangming/jasm/internal/ast"
	"github.com/tangzhangming/jasm/internal/compiler"
	jerrors "github.com/tangzhangming/jasm/internal/errors"
	"github.com/tangzhangming/jasm/internal/i18n"
	"github.com/tangzhangming/jasm/internal/project"
	"github.com/tangzhangming/jasm/internal/verifier"
)

// Builder 多单元构建器
type Builder struct {
	cfg    project.BuildConfig
	logger *zap.Logger
	write  func(path string, data []byte) error
}

// New 创建构建器，logger 为 nil 时不输出日志
func New(cfg project.BuildConfig, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{cfg: cfg, logger: logger, write: writeFile}
}

// Build 收集配置中各源码根目录下的 .j 文件并全部编译
func Build(ctx context.Context, cfg project.BuildConfig, logger *zap.Logger) (*Report, error) {
	sources, err := project.CollectSources(cfg.SourceDirs)
	if err != nil {
		return nil, err
	}
	return New(cfg, logger).BuildSources(ctx, sources)
}

// BuildSources 编译给定的源文件
//
// KeepGoing 为 false 时第一个失败取消其余尚未开始的单元，返回该错误；
// 否则全部单元都会执行，返回按源文件顺序合并的错误。报告在两种情况下都会返回。
func (b *Builder) BuildSources(ctx context.Context, sources []project.Source) (*Report, error) {
	start := time.Now()
	report := &Report{Units: make([]UnitResult, len(sources))}
	for i, src := range sources {
		report.Units[i] = UnitResult{Source: src.Path, Status: StatusSkipped}
	}

	var compiled, failed atomic.Int64
	errs := make([]error, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.WorkerCount())

	for i, src := range sources {
		if gctx.Err() != nil {
			break
		}
		i, src := i, src
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			result, err := b.compileUnit(src)
			report.Units[i] = result
			if err != nil {
				failed.Inc()
				errs[i] = err
				b.logger.Debug("unit failed", zap.String("source", src.Path), zap.Error(err))
				if !b.cfg.KeepGoing {
					return err
				}
				return nil
			}
			compiled.Inc()
			return nil
		})
	}

	waitErr := g.Wait()

	report.Compiled = int(compiled.Load())
	report.Failed = int(failed.Load())
	report.Skipped = len(sources) - report.Compiled - report.Failed
	report.Duration = time.Since(start)

	b.logger.Info(i18n.T(i18n.MsgBuildSummary, report.Compiled, report.Failed),
		zap.Int("skipped", report.Skipped),
		zap.Duration("elapsed", report.Duration))

	if waitErr != nil {
		return report, waitErr
	}
	if err := multierr.Combine(errs...); err != nil {
		return report, err
	}
	if err := ctx.Err(); err != nil && report.Skipped > 0 {
		return report, err
	}
	return report, nil
}

// compileUnit 编译单个源文件并写出产物
func (b *Builder) compileUnit(src project.Source) (UnitResult, error) {
	result := UnitResult{Source: src.Path, Status: StatusFailed}
	log := b.logger.With(zap.String("source", src.Path))

	data, err := os.ReadFile(src.Path)
	if err != nil {
		err = jerrors.Wrap(jerrors.E0500, err, i18n.T(i18n.ErrReadFile, src.Path)).At(src.Path, 0, 0)
		return result.fail(err), err
	}

	unit, err := compiler.Parse(data, src.Path, b.cfg.Encoding)
	if err != nil {
		b.removeStale(src, unit, log)
		return result.fail(err), err
	}
	result.Class = unit.Class.DottedName()

	out, err := compiler.Assemble(unit, compiler.Options{
		Encoding: b.cfg.Encoding,
		Verifier: b.verifier(),
	})
	if err != nil {
		b.removeStale(src, unit, log)
		return result.fail(err), err
	}

	for _, w := range b.warnings(src, unit) {
		log.Warn(w, zap.String("class", unit.Class.Name))
		result.Warnings = append(result.Warnings, w)
	}

	dir, err := project.Materialize(b.cfg.OutputDir, src.Rel)
	if err != nil {
		b.removeStale(src, unit, log)
		return result.fail(err), err
	}
	path := filepath.Join(dir, unit.Class.SimpleName()+".class")
	if err := b.write(path, out.Bytes); err != nil {
		b.removeStale(src, unit, log)
		return result.fail(err), err
	}

	result.Status = StatusCompiled
	result.Output = path
	result.Size = len(out.Bytes)
	result.Digest = Digest(out.Bytes)
	log.Debug(i18n.T(i18n.MsgWroteClass), zap.String("output", path), zap.Int("size", result.Size))
	return result, nil
}

func (b *Builder) verifier() verifier.Verifier {
	if b.cfg.Verify {
		return verifier.New()
	}
	return verifier.Skip
}

// warnings 类名与源文件名、包与源码目录不一致时给出警告
func (b *Builder) warnings(src project.Source, unit *ast.CompilationUnit) []string {
	var warnings []string
	base := strings.TrimSuffix(filepath.Base(src.Path), filepath.Ext(src.Path))
	if base != unit.Class.SimpleName() {
		warnings = append(warnings, i18n.T(i18n.MsgNameMismatch))
	}
	if src.Root != "" && filepath.ToSlash(src.Rel) != unit.Class.Package() {
		warnings = append(warnings, i18n.T(i18n.MsgPackageMismatch))
	}
	return warnings
}

// removeStale 删除失败单元在输出目录中的旧产物
//
// 类头已解析时按类名定位，否则按源文件名定位。
func (b *Builder) removeStale(src project.Source, unit *ast.CompilationUnit, log *zap.Logger) {
	name := strings.TrimSuffix(filepath.Base(src.Path), filepath.Ext(src.Path))
	if unit != nil && unit.Class != nil {
		name = unit.Class.SimpleName()
	}
	path := project.OutputPath(b.cfg.OutputDir, src.Rel, name)
	if err := os.Remove(path); err == nil {
		log.Debug("removed stale output", zap.String("output", path))
	} else if !os.IsNotExist(err) {
		log.Warn("cannot remove stale output", zap.String("output", path), zap.Error(err))
	}
}
