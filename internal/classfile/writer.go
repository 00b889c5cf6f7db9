package classfile

import "encoding/binary"

// ByteWriter 大端序字节写入器
type ByteWriter struct {
	buf []byte
}

// NewByteWriter 创建新的字节写入器
func NewByteWriter() *ByteWriter {
	return &ByteWriter{}
}

// WriteU8 写入无符号字节
func (w *ByteWriter) WriteU8(v uint8) {
	w.buf = append(w.buf, v)
}

// WriteU16 写入无符号短整型
func (w *ByteWriter) WriteU16(v uint16) {
	w.buf = binary.BigEndian.AppendUint16(w.buf, v)
}

// WriteU32 写入无符号整型
func (w *ByteWriter) WriteU32(v uint32) {
	w.buf = binary.BigEndian.AppendUint32(w.buf, v)
}

// WriteI16 写入有符号短整型
func (w *ByteWriter) WriteI16(v int16) {
	w.WriteU16(uint16(v))
}

// WriteI32 写入有符号整型
func (w *ByteWriter) WriteI32(v int32) {
	w.WriteU32(uint32(v))
}

// WriteBytes 写入字节数组
func (w *ByteWriter) WriteBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// Pad 写入 n 个 0 字节
func (w *ByteWriter) Pad(n int) {
	for i := 0; i < n; i++ {
		w.buf = append(w.buf, 0)
	}
}

// Bytes 返回字节数组
func (w *ByteWriter) Bytes() []byte {
	return w.buf
}

// Len 返回当前长度
func (w *ByteWriter) Len() int {
	return len(w.buf)
}

// Reset 重置写入器
func (w *ByteWriter) Reset() {
	w.buf = w.buf[:0]
}
