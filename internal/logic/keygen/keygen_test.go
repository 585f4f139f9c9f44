package keygen

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coldsign-sol/internal/logic/signer"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

// SLIP-0010 ed25519 测试向量 1（seed 000102030405060708090a0b0c0d0e0f）
func TestDeriveSeedSlip10Vector(t *testing.T) {
	seed, err := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	require.NoError(t, err)

	key, err := deriveSeed(seed, "m/0'")
	require.NoError(t, err)
	assert.Equal(t,
		"68e0fe46dfb67e368c75379acec591dad19df3cde26e63b93a8e704f1dade7a3",
		hex.EncodeToString(key))
}

func TestFromMnemonicDeterministic(t *testing.T) {
	a, err := FromMnemonic(testMnemonic, "", "")
	require.NoError(t, err)
	b, err := FromMnemonic(testMnemonic, "", "")
	require.NoError(t, err)

	assert.Equal(t, a.Pubkey, b.Pubkey)
	assert.Equal(t, a.Private, b.Private)
	assert.Equal(t, DefaultDerivationPath, a.Path)
}

func TestFromMnemonicPassphraseAndPath(t *testing.T) {
	base, err := FromMnemonic(testMnemonic, "", "")
	require.NoError(t, err)

	withPass, err := FromMnemonic(testMnemonic, "secret", "")
	require.NoError(t, err)
	assert.NotEqual(t, base.Pubkey, withPass.Pubkey)

	otherAccount, err := FromMnemonic(testMnemonic, "", "m/44'/501'/1'/0'")
	require.NoError(t, err)
	assert.NotEqual(t, base.Pubkey, otherAccount.Pubkey)
}

func TestFromMnemonicRejectsInvalid(t *testing.T) {
	_, err := FromMnemonic("not a valid mnemonic at all", "", "")
	assert.Error(t, err)
}

func TestParsePathValidation(t *testing.T) {
	// 非硬化段对 ed25519 不合法
	_, err := FromMnemonic(testMnemonic, "", "m/44'/501'/0'/0")
	assert.Error(t, err)

	_, err = FromMnemonic(testMnemonic, "", "44'/501'")
	assert.Error(t, err)

	_, err = FromMnemonic(testMnemonic, "", "m/abc'")
	assert.Error(t, err)
}

func TestNewMnemonicWordCounts(t *testing.T) {
	for words, count := range map[int]int{12: 12, 24: 24} {
		m, err := NewMnemonic(words)
		require.NoError(t, err)
		assert.Len(t, strings.Fields(m), count)

		// 生成的助记词必须能直接派生
		_, err = FromMnemonic(m, "", "")
		assert.NoError(t, err)
	}

	_, err := NewMnemonic(15)
	assert.Error(t, err)
}

func TestKeypairJSONRoundTrip(t *testing.T) {
	kp, err := FromMnemonic(testMnemonic, "", "")
	require.NoError(t, err)

	// keypair JSON 必须能被签名侧的密钥素材解析还原
	parsed, err := signer.ParseKeyMaterial(kp.KeypairJSON())
	require.NoError(t, err)
	assert.Equal(t, kp.Private, parsed)
}
