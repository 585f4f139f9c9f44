package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortVecRoundTrip(t *testing.T) {
	// 各字节长度档位的边界值
	values := []int{0, 1, 127, 128, 16383, 16384, 65535}

	for _, v := range values {
		buf := AppendShortVecLen(nil, v)
		got, consumed, err := ReadShortVecLen(buf)
		assert.NoError(t, err, "value %d", v)
		assert.Equal(t, v, got, "value %d", v)
		assert.Equal(t, len(buf), consumed, "value %d", v)
	}
}

func TestShortVecEncodedLength(t *testing.T) {
	assert.Equal(t, []byte{0x00}, AppendShortVecLen(nil, 0))
	assert.Equal(t, []byte{0x7F}, AppendShortVecLen(nil, 127))
	assert.Equal(t, []byte{0x80, 0x01}, AppendShortVecLen(nil, 128))
	assert.Equal(t, []byte{0xFF, 0x7F}, AppendShortVecLen(nil, 16383))
	assert.Equal(t, []byte{0x80, 0x80, 0x01}, AppendShortVecLen(nil, 16384))
	assert.Equal(t, []byte{0xFF, 0xFF, 0x03}, AppendShortVecLen(nil, 65535))
}

func TestShortVecRejectsOverflow(t *testing.T) {
	// 65536 = [0x80, 0x80, 0x04]：第三字节超出 16 位范围
	_, _, err := ReadShortVecLen([]byte{0x80, 0x80, 0x04})
	assert.ErrorIs(t, err, ErrMalformedLength)

	// 第三字节仍带续位
	_, _, err = ReadShortVecLen([]byte{0x80, 0x80, 0x83})
	assert.ErrorIs(t, err, ErrMalformedLength)
}

func TestShortVecRejectsNonMinimal(t *testing.T) {
	// 0 的两字节写法 [0x80, 0x00]
	_, _, err := ReadShortVecLen([]byte{0x80, 0x00})
	assert.ErrorIs(t, err, ErrMalformedLength)

	// 1 的三字节写法 [0x81, 0x80, 0x00]
	_, _, err = ReadShortVecLen([]byte{0x81, 0x80, 0x00})
	assert.ErrorIs(t, err, ErrMalformedLength)
}

func TestShortVecTruncated(t *testing.T) {
	_, _, err := ReadShortVecLen(nil)
	assert.ErrorIs(t, err, ErrMalformedLength)

	// 续位承诺了下一字节但输入结束
	_, _, err = ReadShortVecLen([]byte{0x80})
	assert.ErrorIs(t, err, ErrMalformedLength)
}
