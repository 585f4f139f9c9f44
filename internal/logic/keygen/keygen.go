package keygen

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tyler-smith/go-bip39"

	"coldsign-sol/internal/types"
)

// DefaultDerivationPath 为 Solana 钱包惯用派生路径。
const DefaultDerivationPath = "m/44'/501'/0'/0'"

const hardenedOffset uint32 = 0x80000000

// ed25519 的 SLIP-0010 主密钥派生盐值
var masterSecret = []byte("ed25519 seed")

// Keypair 表示一次派生产出的密钥对。
type Keypair struct {
	Mnemonic string
	Path     string
	Pubkey   types.Pubkey
	Private  ed25519.PrivateKey
}

// NewMnemonic 生成 BIP-39 助记词；words 仅支持 12 或 24。
func NewMnemonic(words int) (string, error) {
	var bits int
	switch words {
	case 12:
		bits = 128
	case 24:
		bits = 256
	default:
		return "", fmt.Errorf("unsupported mnemonic length: %d words (want 12 or 24)", words)
	}
	entropy, err := bip39.NewEntropy(bits)
	if err != nil {
		return "", fmt.Errorf("failed to generate entropy: %w", err)
	}
	return bip39.NewMnemonic(entropy)
}

// FromMnemonic 用助记词与可选口令在给定路径派生 Ed25519 密钥对。
// path 为空时使用 DefaultDerivationPath。
func FromMnemonic(mnemonic, passphrase, path string) (*Keypair, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, errors.New("invalid mnemonic")
	}
	if path == "" {
		path = DefaultDerivationPath
	}

	seed := bip39.NewSeed(mnemonic, passphrase)
	key, err := deriveSeed(seed, path)
	if err != nil {
		return nil, err
	}

	priv := ed25519.NewKeyFromSeed(key)
	pub, err := types.PubkeyFromBytes(priv.Public().(ed25519.PublicKey))
	if err != nil {
		return nil, err
	}
	return &Keypair{Mnemonic: mnemonic, Path: path, Pubkey: pub, Private: priv}, nil
}

// KeypairJSON 以 Solana keypair 文件格式（64 字节数值数组）输出私钥。
func (k *Keypair) KeypairJSON() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, b := range k.Private {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(int(b)))
	}
	sb.WriteByte(']')
	return sb.String()
}

// deriveSeed 按 SLIP-0010（ed25519，全硬化）沿路径派生 32 字节种子。
func deriveSeed(seed []byte, path string) ([]byte, error) {
	segments, err := parsePath(path)
	if err != nil {
		return nil, err
	}

	key, chainCode := hmacSHA512(masterSecret, seed)
	for _, index := range segments {
		data := make([]byte, 0, 37)
		data = append(data, 0x00)
		data = append(data, key...)
		data = binary.BigEndian.AppendUint32(data, index)
		key, chainCode = hmacSHA512(chainCode, data)
	}
	return key, nil
}

// parsePath 解析 "m/44'/501'/0'/0'" 形式的路径。
// ed25519 仅支持硬化派生，所有段必须带撇号。
func parsePath(path string) ([]uint32, error) {
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] != "m" {
		return nil, fmt.Errorf("derivation path must start with \"m\": %q", path)
	}

	segments := make([]uint32, 0, len(parts)-1)
	for _, part := range parts[1:] {
		if !strings.HasSuffix(part, "'") {
			return nil, fmt.Errorf("ed25519 derivation requires hardened segments, got %q", part)
		}
		n, err := strconv.ParseUint(strings.TrimSuffix(part, "'"), 10, 31)
		if err != nil {
			return nil, fmt.Errorf("invalid path segment %q: %w", part, err)
		}
		segments = append(segments, uint32(n)|hardenedOffset)
	}
	return segments, nil
}

func hmacSHA512(key, data []byte) (il, ir []byte) {
	mac := hmac.New(sha512.New, key)
	mac.Write(data)
	sum := mac.Sum(nil)
	return sum[:32], sum[32:]
}
