package signer

import (
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"

	"coldsign-sol/internal/codec"
	"coldsign-sol/internal/logic/domain"
	"coldsign-sol/internal/types"
)

// ErrSignerNotRequired 表示签名公钥不在必需签名者前缀中。
var ErrSignerNotRequired = errors.New("signer is not within required signers")

// SignableBytes 返回签名运算的规范消息字节：
// 编码后的消息（v0 含版本前缀），不含签名列表。
func SignableBytes(tx *domain.Transaction) []byte {
	return codec.EncodeMessage(&tx.Message)
}

// Sign 用私钥对交易消息签名，并把签名写入该公钥对应的签名槽。
// 对同一槽位重复签名为幂等覆盖；未填满全部槽位的交易仍可再序列化。
// 返回本次签名的公钥位置（槽位索引）。
func Sign(tx *domain.Transaction, key ed25519.PrivateKey) (int, error) {
	pub, err := types.PubkeyFromBytes(key.Public().(ed25519.PublicKey))
	if err != nil {
		return 0, err
	}

	slot := -1
	for i, signer := range tx.RequiredSigners() {
		if signer == pub {
			slot = i
			break
		}
	}
	if slot < 0 {
		return 0, fmt.Errorf("%w: %s", ErrSignerNotRequired, pub)
	}

	// 解码结果可能不带占位签名，按需扩展到必需签名数
	required := int(tx.Message.Header.NumRequiredSignatures)
	for len(tx.Signatures) < required {
		tx.Signatures = append(tx.Signatures, types.Signature{})
	}

	raw := ed25519.Sign(key, SignableBytes(tx))
	sig, err := types.SignatureFromBytes(raw)
	if err != nil {
		return 0, err
	}
	tx.Signatures[slot] = sig
	return slot, nil
}

// Verify 校验消息字节 + 签名 + 公钥三元组，无副作用。
func Verify(message []byte, sig types.Signature, pub types.Pubkey) bool {
	return ed25519.Verify(ed25519.PublicKey(pub[:]), message, sig[:])
}

// VerifyTransaction 校验交易中所有已填充的签名槽。
// 返回每个槽位的有效性（未填充的槽记为 false）以及是否全部有效。
func VerifyTransaction(tx *domain.Transaction) ([]bool, bool) {
	msg := SignableBytes(tx)
	signers := tx.RequiredSigners()

	results := make([]bool, len(tx.Signatures))
	allValid := len(tx.Signatures) > 0
	for i, sig := range tx.Signatures {
		if sig.IsZero() || i >= len(signers) {
			allValid = false
			continue
		}
		results[i] = Verify(msg, sig, signers[i])
		if !results[i] {
			allValid = false
		}
	}
	return results, allValid
}

// KeypairFromSeed 从 32 字节种子构造 Ed25519 私钥。
func KeypairFromSeed(seed []byte) (ed25519.PrivateKey, error) {
	if len(seed) < ed25519.SeedSize {
		return nil, fmt.Errorf("seed must be at least %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return ed25519.NewKeyFromSeed(seed[:ed25519.SeedSize]), nil
}

// ParseKeyMaterial 解析签名密钥素材，支持三种形式：
//  1. Solana keypair JSON 数组（64 个字节数值，前 32 为种子）
//  2. base58 的 64 字节 keypair
//  3. base58 的 32 字节种子
func ParseKeyMaterial(content string) (ed25519.PrivateKey, error) {
	text := strings.TrimSpace(content)
	if text == "" {
		return nil, errors.New("empty key material")
	}

	if strings.HasPrefix(text, "[") {
		// []byte 的 json 形式是 base64 字符串，数值数组需逐项还原
		var nums []int
		if err := json.Unmarshal([]byte(text), &nums); err != nil {
			return nil, fmt.Errorf("invalid keypair json: %w", err)
		}
		raw := make([]byte, len(nums))
		for i, n := range nums {
			if n < 0 || n > 0xFF {
				return nil, fmt.Errorf("keypair json byte %d out of range: %d", i, n)
			}
			raw[i] = byte(n)
		}
		return keyFromRaw(raw)
	}

	raw, err := base58.Decode(text)
	if err != nil {
		return nil, fmt.Errorf("invalid base58 key material: %w", err)
	}
	return keyFromRaw(raw)
}

func keyFromRaw(raw []byte) (ed25519.PrivateKey, error) {
	switch len(raw) {
	case ed25519.PrivateKeySize: // 64 字节 keypair：前 32 为种子
		return ed25519.NewKeyFromSeed(raw[:ed25519.SeedSize]), nil
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(raw), nil
	default:
		return nil, fmt.Errorf("key material must be 32 or 64 bytes, got %d", len(raw))
	}
}
