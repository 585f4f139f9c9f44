package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coldsign-sol/internal/logic/domain"
	"coldsign-sol/internal/types"
)

// testKey 构造确定性的测试公钥（全字节填充 n）。
func testKey(n byte) types.Pubkey {
	var pk types.Pubkey
	for i := range pk {
		pk[i] = n
	}
	return pk
}

func testHash(n byte) types.Hash {
	var h types.Hash
	for i := range h {
		h[i] = n
	}
	return h
}

func testSig(n byte) types.Signature {
	var s types.Signature
	for i := range s {
		s[i] = n
	}
	return s
}

func legacyTxFixture() *domain.Transaction {
	return &domain.Transaction{
		Signatures: []types.Signature{testSig(0xAA)},
		Message: domain.Message{
			Version: domain.VersionLegacy,
			Header: domain.MessageHeader{
				NumRequiredSignatures:       1,
				NumReadonlyUnsignedAccounts: 1,
			},
			AccountKeys:     []types.Pubkey{testKey(1), testKey(2), testKey(3)},
			RecentBlockhash: testHash(9),
			Instructions: []domain.CompiledInstruction{
				{ProgramIDIndex: 2, Accounts: []byte{0, 1}, Data: []byte{2, 0, 0, 0, 100, 0, 0, 0, 0, 0, 0, 0}},
			},
		},
	}
}

func v0TxFixture() *domain.Transaction {
	return &domain.Transaction{
		Signatures: []types.Signature{testSig(0xBB)},
		Message: domain.Message{
			Version: domain.VersionV0,
			Header: domain.MessageHeader{
				NumRequiredSignatures:       1,
				NumReadonlyUnsignedAccounts: 1,
			},
			AccountKeys:     []types.Pubkey{testKey(1), testKey(2)},
			RecentBlockhash: testHash(7),
			Instructions: []domain.CompiledInstruction{
				// 索引 2/3/4 落在查表展开区间
				{ProgramIDIndex: 1, Accounts: []byte{0, 2, 4}, Data: []byte{1, 2, 3}},
			},
			Lookups: []domain.AddressTableLookup{
				{
					AccountKey:      testKey(0x10),
					WritableIndexes: []byte{2, 0},
					ReadonlyIndexes: []byte{1},
				},
			},
		},
	}
}

func TestLegacyRoundTrip(t *testing.T) {
	tx := legacyTxFixture()

	raw := EncodeTransaction(tx)
	decoded, err := DecodeTransaction(raw)
	require.NoError(t, err)

	assert.Equal(t, tx, decoded)
	// 重新编码必须字节级一致
	assert.Equal(t, raw, EncodeTransaction(decoded))
}

func TestV0RoundTrip(t *testing.T) {
	tx := v0TxFixture()

	raw := EncodeTransaction(tx)
	decoded, err := DecodeTransaction(raw)
	require.NoError(t, err)

	assert.Equal(t, domain.VersionV0, decoded.Message.Version)
	assert.Equal(t, tx, decoded)
	assert.Equal(t, raw, EncodeTransaction(decoded))
}

func TestV0MessagePrefix(t *testing.T) {
	tx := v0TxFixture()

	msg := EncodeMessage(&tx.Message)
	assert.Equal(t, byte(0x80), msg[0])

	legacy := EncodeMessage(&legacyTxFixture().Message)
	// legacy 消息首字节为 NumRequiredSignatures，不带版本前缀
	assert.Equal(t, byte(1), legacy[0])
}

func TestUnsupportedVersion(t *testing.T) {
	tx := v0TxFixture()
	raw := EncodeTransaction(tx)

	// 签名段之后的版本字节改为 0x80|1
	raw[1+signatureLen] = versionPrefix | 1

	_, err := DecodeTransaction(raw)
	var verErr *UnsupportedVersionError
	require.ErrorAs(t, err, &verErr)
	assert.Equal(t, uint8(1), verErr.Version)
}

func TestTrailingBytesRejected(t *testing.T) {
	raw := EncodeTransaction(legacyTxFixture())
	raw = append(raw, 0x00)

	_, err := DecodeTransaction(raw)
	assert.ErrorIs(t, err, ErrTrailingBytes)
}

func TestTruncatedInput(t *testing.T) {
	raw := EncodeTransaction(legacyTxFixture())

	// 在各个截断点上都必须得到确定性错误而非 panic
	for cut := 0; cut < len(raw); cut++ {
		_, err := DecodeTransaction(raw[:cut])
		assert.Error(t, err, "cut at %d", cut)
	}
}

func TestInstructionIndexOutOfRange(t *testing.T) {
	tx := legacyTxFixture()
	tx.Message.Instructions[0].Accounts = []byte{0, 9} // 仅 3 个静态账户
	_, err := DecodeTransaction(EncodeTransaction(tx))
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	tx = legacyTxFixture()
	tx.Message.Instructions[0].ProgramIDIndex = 3
	_, err = DecodeTransaction(EncodeTransaction(tx))
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestV0LookupExtendsIndexRange(t *testing.T) {
	// 指令索引 4 超出静态账户（2 个）但落在查表展开（3 个）内，应合法
	tx := v0TxFixture()
	raw := EncodeTransaction(tx)
	_, err := DecodeTransaction(raw)
	assert.NoError(t, err)

	// 索引 5 连展开区间也超出
	tx.Message.Instructions[0].Accounts = []byte{0, 5}
	_, err = DecodeTransaction(EncodeTransaction(tx))
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestZeroSignatureTransaction(t *testing.T) {
	tx := legacyTxFixture()
	tx.Signatures = nil

	raw := EncodeTransaction(tx)
	decoded, err := DecodeTransaction(raw)
	require.NoError(t, err)
	assert.Empty(t, decoded.Signatures)
	assert.Equal(t, raw, EncodeTransaction(decoded))
}

func TestUiTransactionRoundTrip(t *testing.T) {
	for _, tx := range []*domain.Transaction{legacyTxFixture(), v0TxFixture()} {
		ui := ToUiTransaction(tx)
		back, err := ui.ToTransaction()
		require.NoError(t, err)
		// DTO 往返后线格式必须一致
		assert.Equal(t, EncodeTransaction(tx), EncodeTransaction(back))
		assert.Equal(t, tx.Message.Version, back.Message.Version)
	}
}

func TestUiTransactionVersionFallback(t *testing.T) {
	// version 字段缺省时按查找表推断
	ui := ToUiTransaction(v0TxFixture())
	ui.Message.Version = ""
	back, err := ui.ToTransaction()
	require.NoError(t, err)
	assert.Equal(t, domain.VersionV0, back.Message.Version)

	ui = ToUiTransaction(legacyTxFixture())
	ui.Message.Version = ""
	back, err = ui.ToTransaction()
	require.NoError(t, err)
	assert.Equal(t, domain.VersionLegacy, back.Message.Version)
}

func TestUiTransactionRejectsBadIndex(t *testing.T) {
	ui := ToUiTransaction(legacyTxFixture())
	ui.Message.Instructions[0].Accounts = []uint16{0, 300}
	_, err := ui.ToTransaction()
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}
