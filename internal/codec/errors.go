package codec

import (
	"errors"
	"fmt"
)

// 解码错误为确定性的、调用方可恢复的类型化错误；本包从不 panic、从不打日志。
var (
	// ErrMalformedLength 表示 compact-u16 长度编码非法（超出 16 位范围、
	// 非最小编码或序列中途截断）。
	ErrMalformedLength = errors.New("malformed compact length")

	// ErrTruncatedInput 表示字节流在某字段中途耗尽。
	ErrTruncatedInput = errors.New("truncated input")

	// ErrIndexOutOfRange 表示指令引用了账户列表之外的索引（解码期校验）。
	ErrIndexOutOfRange = errors.New("instruction index out of range")

	// ErrInvalidSignatureEncoding 表示文本形式的签名无法解析为 64 字节。
	ErrInvalidSignatureEncoding = errors.New("invalid signature encoding")

	// ErrUnrecognizedEncoding 表示输入在 json/base64/base58 下均无法完整解析。
	ErrUnrecognizedEncoding = errors.New("unrecognized or ambiguous text encoding")

	// ErrTrailingBytes 表示一笔交易解码完成后输入仍有剩余字节。
	ErrTrailingBytes = errors.New("trailing bytes after transaction")
)

// UnsupportedVersionError 表示版本前缀存在但版本号不受支持（仅支持 v0）。
type UnsupportedVersionError struct {
	Version uint8
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported message version: %d", e.Version)
}

// fieldError 为错误附加出错字段与偏移信息，保留底层错误种类供 errors.Is 判定。
func fieldError(kind error, field string, offset int) error {
	return fmt.Errorf("%w: %s at offset %d", kind, field, offset)
}
