package builder

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"time"

	"github.com/segmentio/encoding/json"
	"golang.org/x/crypto/blake2b"

	jerrors "github.com/tangzhangming/jasm/internal/errors"
	"github.com/tangzhangming/jasm/internal/i18n"
)

// ============================================================================
// 构建报告
// ============================================================================

// Status 单元的构建状态
type Status string

const (
	StatusCompiled Status = "compiled"
	StatusFailed   Status = "failed"
	StatusSkipped  Status = "skipped" // 前面的单元失败后未开始
)

// Report 一次构建的结果
type Report struct {
	Units    []UnitResult  `json:"units"`
	Compiled int           `json:"compiled"`
	Failed   int           `json:"failed"`
	Skipped  int           `json:"skipped"`
	Duration time.Duration `json:"duration_ns"`
}

// UnitResult 单个源文件的结果，顺序与输入一致
type UnitResult struct {
	Source   string   `json:"source"`
	Status   Status   `json:"status"`
	Class    string   `json:"class,omitempty"`
	Output   string   `json:"output,omitempty"`
	Size     int      `json:"size,omitempty"`
	Digest   string   `json:"digest,omitempty"` // BLAKE2b-256，十六进制
	Code     string   `json:"code,omitempty"`
	Error    string   `json:"error,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func (r UnitResult) fail(err error) UnitResult {
	r.Status = StatusFailed
	r.Error = err.Error()
	if ce, ok := jerrors.As(err); ok {
		r.Code = ce.Code
		r.Error = ce.Message
	}
	return r
}

// OK 所有单元都编译成功
func (r *Report) OK() bool {
	return r.Failed == 0 && r.Skipped == 0
}

// Digest 计算 class 文件内容的摘要
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Marshal 把报告编码为缩进的 JSON
func (r *Report) Marshal() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// WriteReport 把报告原子地写入 path
func WriteReport(r *Report, path string) error {
	data, err := r.Marshal()
	if err != nil {
		return jerrors.Wrap(jerrors.E0501, err, i18n.T(i18n.ErrWriteFile, path)).At(path, 0, 0)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return jerrors.Wrap(jerrors.E0501, err, i18n.T(i18n.ErrWriteFile, path)).At(path, 0, 0)
	}
	return writeFile(path, append(data, '\n'))
}

// ReadReport 读取 WriteReport 写出的报告
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, jerrors.Wrap(jerrors.E0500, err, i18n.T(i18n.ErrReadFile, path)).At(path, 0, 0)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, jerrors.Wrap(jerrors.E0500, err, i18n.T(i18n.ErrReadFile, path)).At(path, 0, 0)
	}
	return &r, nil
}
