package builder

import (
	"os"
	"path/filepath"

	jerrors "github.com/tangzhangming/jasm/internal/errors"
	"github.com/tangzhangming/jasm/internal/i18n"
)

// writeFile 先写同目录下的临时文件再重命名，读者只会看到旧内容或完整的新内容
//
// 任何失败路径都会删除临时文件。
func writeFile(path string, data []byte) (err error) {
	fail := func(cause error) error {
		return jerrors.Wrap(jerrors.E0501, cause, i18n.T(i18n.ErrWriteFile, path)).At(path, 0, 0)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fail(err)
	}
	name := tmp.Name()
	closed := false
	defer func() {
		if !closed {
			tmp.Close()
		}
		if err != nil {
			os.Remove(name)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fail(err)
	}
	if err = tmp.Sync(); err != nil {
		return fail(err)
	}
	closed = true
	if err = tmp.Close(); err != nil {
		return fail(err)
	}
	if err = os.Chmod(name, 0644); err != nil {
		return fail(err)
	}
	if err = os.Rename(name, path); err != nil {
		return fail(err)
	}
	return nil
}
