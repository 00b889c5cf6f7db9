package classfile

import (
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// ============================================================================
// Modified UTF-8
// ============================================================================
//
// class 文件中的字符串使用 modified UTF-8：
//   - U+0000 编码为两个字节 0xC0 0x80
//   - 增补平面字符先拆成 UTF-16 代理对，每个代理项各编码为 3 个字节
//
// ============================================================================

// ModifiedUTF8Len 返回字符串按 modified UTF-8 编码后的字节数
func ModifiedUTF8Len(s string) int {
	n := 0
	for _, r := range s {
		switch {
		case r == 0:
			n += 2
		case r < 0x80:
			n++
		case r < 0x800:
			n += 2
		case r < 0x10000:
			n += 3
		default:
			n += 6
		}
	}
	return n
}

// EncodeModifiedUTF8 把字符串编码为 modified UTF-8
func EncodeModifiedUTF8(s string) []byte {
	buf := make([]byte, 0, ModifiedUTF8Len(s))
	for _, r := range s {
		switch {
		case r == 0:
			buf = append(buf, 0xC0, 0x80)
		case r < 0x80:
			buf = append(buf, byte(r))
		case r < 0x800:
			buf = append(buf, 0xC0|byte(r>>6), 0x80|byte(r&0x3F))
		case r < 0x10000:
			buf = appendThreeBytes(buf, r)
		default:
			hi, lo := utf16.EncodeRune(r)
			buf = appendThreeBytes(buf, hi)
			buf = appendThreeBytes(buf, lo)
		}
	}
	return buf
}

func appendThreeBytes(buf []byte, r rune) []byte {
	return append(buf, 0xE0|byte(r>>12), 0x80|byte((r>>6)&0x3F), 0x80|byte(r&0x3F))
}

// DecodeModifiedUTF8 把 modified UTF-8 字节解码为字符串
func DecodeModifiedUTF8(data []byte) (string, error) {
	var sb strings.Builder
	sb.Grow(len(data))

	var pending rune = -1 // 等待配对的高代理项
	flush := func() {
		if pending >= 0 {
			sb.WriteRune(utf8.RuneError)
			pending = -1
		}
	}

	for i := 0; i < len(data); {
		b := data[i]
		var r rune
		switch {
		case b == 0:
			return "", fmt.Errorf("byte 0 at offset %d", i)
		case b < 0x80:
			r = rune(b)
			i++
		case b&0xE0 == 0xC0:
			if i+1 >= len(data) || data[i+1]&0xC0 != 0x80 {
				return "", fmt.Errorf("truncated sequence at offset %d", i)
			}
			r = rune(b&0x1F)<<6 | rune(data[i+1]&0x3F)
			i += 2
		case b&0xF0 == 0xE0:
			if i+2 >= len(data) || data[i+1]&0xC0 != 0x80 || data[i+2]&0xC0 != 0x80 {
				return "", fmt.Errorf("truncated sequence at offset %d", i)
			}
			r = rune(b&0x0F)<<12 | rune(data[i+1]&0x3F)<<6 | rune(data[i+2]&0x3F)
			i += 3
		default:
			return "", fmt.Errorf("invalid byte 0x%02x at offset %d", b, i)
		}

		switch {
		case r >= 0xD800 && r < 0xDC00:
			flush()
			pending = r
		case r >= 0xDC00 && r < 0xE000:
			if pending >= 0 {
				sb.WriteRune(utf16.DecodeRune(pending, r))
				pending = -1
			} else {
				sb.WriteRune(utf8.RuneError)
			}
		default:
			flush()
			sb.WriteRune(r)
		}
	}
	flush()
	return sb.String(), nil
}
