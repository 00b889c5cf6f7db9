package project

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	jerrors "github.com/tangzhangming/jasm/internal/errors"
	"github.com/tangzhangming/jasm/internal/i18n"
)

// SourceExt 源文件扩展名
const SourceExt = ".j"

// Source 一个待编译的源文件
type Source struct {
	Path string // 文件路径
	Root string // 所属源码根目录，不在任何根目录下时为空
	Rel  string // 相对于根目录的父目录，默认包为空
}

// RelativeDir 返回 file 的父目录相对于第一个包含它的根目录的路径
//
// 文件位于根目录顶层或不在任何根目录下时返回空字符串。
func RelativeDir(roots []string, file string) string {
	_, rel := locate(roots, file)
	return rel
}

// locate 返回包含 file 的第一个根目录及相对父目录
func locate(roots []string, file string) (root, rel string) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return "", ""
	}
	for _, r := range roots {
		absRoot, err := filepath.Abs(r)
		if err != nil {
			continue
		}
		p, err := filepath.Rel(absRoot, abs)
		if err != nil || p == "." || p == ".." || strings.HasPrefix(p, ".."+string(filepath.Separator)) {
			continue
		}
		dir := filepath.Dir(p)
		if dir == "." {
			dir = ""
		}
		return r, dir
	}
	return "", ""
}

// Materialize 创建 dest 下的 rel 目录链并返回该目录，目录已存在时不做任何事
func Materialize(dest, rel string) (string, error) {
	dir := filepath.Join(dest, rel)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", jerrors.Wrap(jerrors.E0501, err, i18n.T(i18n.ErrWriteFile, dir))
	}
	return dir, nil
}

// OutputPath 返回类 simpleName 在 dest/rel 下的 class 文件路径
func OutputPath(dest, rel, simpleName string) string {
	return filepath.Join(dest, rel, simpleName+".class")
}

// NewSource 为单个文件创建 Source，根目录按 roots 匹配
func NewSource(roots []string, file string) Source {
	root, rel := locate(roots, file)
	return Source{Path: file, Root: root, Rel: rel}
}

// CollectSources 收集各根目录下的全部 .j 文件，按路径排序
//
// 不存在的根目录被跳过；多个根目录重叠时文件归属第一个根目录。
func CollectSources(roots []string) ([]Source, error) {
	seen := make(map[string]bool)
	var sources []Source

	for _, root := range roots {
		info, err := os.Stat(root)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, jerrors.Wrap(jerrors.E0500, err, i18n.T(i18n.ErrReadFile, root))
		}
		if !info.IsDir() {
			return nil, jerrors.New(jerrors.E0500, i18n.T(i18n.ErrReadFile, root)).At(root, 0, 0)
		}

		var found []string
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || filepath.Ext(path) != SourceExt {
				return nil
			}
			found = append(found, path)
			return nil
		})
		if err != nil {
			return nil, jerrors.Wrap(jerrors.E0500, err, i18n.T(i18n.ErrReadFile, root))
		}

		for _, path := range found {
			abs, err := filepath.Abs(path)
			if err != nil {
				abs = path
			}
			if seen[abs] {
				continue
			}
			seen[abs] = true
			sources = append(sources, NewSource(roots, path))
		}
	}

	sort.Slice(sources, func(i, j int) bool {
		return sources[i].Path < sources[j].Path
	})
	return sources, nil
}
