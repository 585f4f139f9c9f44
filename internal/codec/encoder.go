package codec

import (
	"coldsign-sol/internal/logic/domain"
)

// EncodeTransaction 将交易编码为规范线格式字节。
// 长度字段恒为最小编码，保证 decode(encode(tx)) 字节级一致。
func EncodeTransaction(tx *domain.Transaction) []byte {
	buf := AppendShortVecLen(nil, len(tx.Signatures))
	for _, sig := range tx.Signatures {
		buf = append(buf, sig[:]...)
	}
	return append(buf, EncodeMessage(&tx.Message)...)
}

// EncodeMessage 编码消息部分。v0 消息带 0x80|version 前缀，
// 其输出即签名运算的规范消息字节（见 signer 包）。
func EncodeMessage(msg *domain.Message) []byte {
	var buf []byte

	if msg.Version == domain.VersionV0 {
		buf = append(buf, versionPrefix|version0)
	}

	buf = append(buf,
		msg.Header.NumRequiredSignatures,
		msg.Header.NumReadonlySignedAccounts,
		msg.Header.NumReadonlyUnsignedAccounts,
	)

	buf = AppendShortVecLen(buf, len(msg.AccountKeys))
	for _, key := range msg.AccountKeys {
		buf = append(buf, key[:]...)
	}

	buf = append(buf, msg.RecentBlockhash[:]...)

	buf = AppendShortVecLen(buf, len(msg.Instructions))
	for i := range msg.Instructions {
		buf = appendInstruction(buf, &msg.Instructions[i])
	}

	if msg.Version == domain.VersionV0 {
		buf = AppendShortVecLen(buf, len(msg.Lookups))
		for _, l := range msg.Lookups {
			buf = append(buf, l.AccountKey[:]...)
			buf = AppendShortVecLen(buf, len(l.WritableIndexes))
			buf = append(buf, l.WritableIndexes...)
			buf = AppendShortVecLen(buf, len(l.ReadonlyIndexes))
			buf = append(buf, l.ReadonlyIndexes...)
		}
	}

	return buf
}

func appendInstruction(buf []byte, ix *domain.CompiledInstruction) []byte {
	buf = append(buf, ix.ProgramIDIndex)
	buf = AppendShortVecLen(buf, len(ix.Accounts))
	buf = append(buf, ix.Accounts...)
	buf = AppendShortVecLen(buf, len(ix.Data))
	return append(buf, ix.Data...)
}
