// Package source 把源文件字节按显式指定的字符集解码为文本
//
// 字符集总是由调用方传入（来自 jasmin.toml 或命令行），从不读取或修改进程级的默认编码。
package source

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"

	jerrors "github.com/tangzhangming/jasm/internal/errors"
	"github.com/tangzhangming/jasm/internal/i18n"
)

// DefaultEncoding 默认源码编码
const DefaultEncoding = "UTF-8"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Lookup 按名称查找字符集（WHATWG 名称与别名，如 "utf-8"、"gbk"、"latin1"）
func Lookup(name string) (encoding.Encoding, error) {
	if name == "" {
		name = DefaultEncoding
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, jerrors.Wrap(jerrors.E0005, err, i18n.T(i18n.ErrUnknownEncoding, name))
	}
	return enc, nil
}

// Decode 按字符集把源码字节解码为文本
//
// UTF-8 输入会去掉 BOM，并拒绝非法字节序列；其他字符集经 x/text 转换为 UTF-8。
// 返回的错误为 LexError，File 字段由调用方补充。
func Decode(data []byte, charset string) (string, error) {
	enc, err := Lookup(charset)
	if err != nil {
		return "", err
	}

	if isUTF8(enc) {
		data = bytes.TrimPrefix(data, utf8BOM)
		if !utf8.Valid(data) {
			return "", invalidText(charset, data)
		}
		return string(data), nil
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", jerrors.Wrap(jerrors.E0005, err, i18n.T(i18n.ErrInvalidText, canonicalName(enc, charset), 0))
	}
	return string(out), nil
}

func isUTF8(enc encoding.Encoding) bool {
	if enc == unicode.UTF8 {
		return true
	}
	name, err := htmlindex.Name(enc)
	return err == nil && name == "utf-8"
}

func invalidText(charset string, data []byte) error {
	offset := 0
	for offset < len(data) {
		r, size := utf8.DecodeRune(data[offset:])
		if r == utf8.RuneError && size <= 1 {
			break
		}
		offset += size
	}
	line := 1 + bytes.Count(data[:offset], []byte{'\n'})
	col := offset - bytes.LastIndexByte(data[:offset], '\n')
	if charset == "" {
		charset = DefaultEncoding
	}
	return jerrors.New(jerrors.E0005, i18n.T(i18n.ErrInvalidText, charset, offset)).At("", line, col)
}

func canonicalName(enc encoding.Encoding, fallback string) string {
	if name, err := htmlindex.Name(enc); err == nil {
		return strings.ToUpper(name)
	}
	return fallback
}
