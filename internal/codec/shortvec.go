package codec

// compact-u16：线格式中所有数组长度使用的变长编码。
// 每字节低 7 位承载数值，最高位为续位；取值上限为 16 位（0xFFFF），
// 因此合法编码最多 3 字节，且第三字节不得超过 0x03。
// 编码恒为最小长度形式，解码拒绝非最小形式，保证字节级 round-trip。

const maxShortVecLen = 0xFFFF

// ReadShortVecLen 从 data 头部读取一个 compact-u16 长度，
// 返回数值与消耗的字节数。
func ReadShortVecLen(data []byte) (int, int, error) {
	value := 0
	for i := 0; i < 3; i++ {
		if i >= len(data) {
			return 0, 0, ErrMalformedLength
		}
		b := data[i]
		if i == 2 && b > maxShortVecLen>>14 {
			// 第三字节超出 16 位可表示范围
			return 0, 0, ErrMalformedLength
		}
		if i > 0 && b == 0 {
			// 非最小编码（高位字节为 0）
			return 0, 0, ErrMalformedLength
		}
		value |= int(b&0x7F) << (7 * i)
		if b&0x80 == 0 {
			return value, i + 1, nil
		}
	}
	// 第三字节仍带续位
	return 0, 0, ErrMalformedLength
}

// AppendShortVecLen 以最小长度形式将 value 追加到 buf。
// value 超出 0xFFFF 属调用方错误，编码路径的长度均来自切片 len，不会触达。
func AppendShortVecLen(buf []byte, value int) []byte {
	for {
		b := byte(value & 0x7F)
		value >>= 7
		if value == 0 {
			return append(buf, b)
		}
		buf = append(buf, b|0x80)
	}
}
