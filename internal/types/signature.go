package types

import (
	"fmt"

	"github.com/mr-tron/base58"
)

// Signature 表示 64 字节的 Ed25519 签名。
// 在交易中按位置与前 num_required_signatures 个静态账户一一对应。
type Signature [64]byte

func (s Signature) String() string {
	return base58.Encode(s[:])
}

// IsZero 判断是否为未填充的占位签名（部分签名状态合法）。
func (s Signature) IsZero() bool {
	return s == Signature{}
}

func SignatureFromBytes(b []byte) (Signature, error) {
	if len(b) != 64 {
		return Signature{}, fmt.Errorf("invalid signature length: got %d, want 64", len(b))
	}
	var s Signature
	copy(s[:], b)
	return s, nil
}

func TrySignatureFromBase58(str string) (Signature, error) {
	data, err := base58.Decode(str)
	if err != nil {
		return Signature{}, fmt.Errorf("failed to decode base58 signature %q: %w", str, err)
	}
	return SignatureFromBytes(data)
}
