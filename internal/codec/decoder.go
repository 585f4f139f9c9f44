package codec

import (
	"coldsign-sol/internal/logic/domain"
	"coldsign-sol/internal/types"
)

const (
	pubkeyLen    = 32
	blockhashLen = 32
	signatureLen = 64

	versionPrefix = 0x80 // 最高位置位表示 versioned 消息
	version0      = 0
)

// DecodeTransaction 将线格式字节解码为交易。
// 输入必须恰好包含一笔完整交易，尾部多余字节视为错误。
func DecodeTransaction(data []byte) (*domain.Transaction, error) {
	tx, consumed, err := decodeTransaction(data)
	if err != nil {
		return nil, err
	}
	if consumed != len(data) {
		return nil, fieldError(ErrTrailingBytes, "transaction", consumed)
	}
	return tx, nil
}

func decodeTransaction(data []byte) (*domain.Transaction, int, error) {
	cursor := 0

	// 1. 签名数量（compact-u16）
	sigCount, n, err := ReadShortVecLen(data[cursor:])
	if err != nil {
		return nil, 0, fieldError(err, "signature count", cursor)
	}
	cursor += n

	// 2. 签名列表（每条 64 字节）
	signatures := make([]types.Signature, 0, sigCount)
	for i := 0; i < sigCount; i++ {
		if cursor+signatureLen > len(data) {
			return nil, 0, fieldError(ErrTruncatedInput, "signature", cursor)
		}
		sig, _ := types.SignatureFromBytes(data[cursor : cursor+signatureLen])
		signatures = append(signatures, sig)
		cursor += signatureLen
	}

	// 3. 消息：按首字节最高位区分 legacy / versioned
	var msg domain.Message
	if cursor < len(data) && data[cursor]&versionPrefix != 0 {
		m, n, err := decodeMessageV0(data[cursor:], cursor)
		if err != nil {
			return nil, 0, err
		}
		msg = m
		cursor += n
	} else {
		m, n, err := decodeMessageLegacy(data[cursor:], cursor)
		if err != nil {
			return nil, 0, err
		}
		msg = m
		cursor += n
	}

	return &domain.Transaction{Signatures: signatures, Message: msg}, cursor, nil
}

// decodeMessageLegacy 解码无版本前缀的消息；base 仅用于错误信息中的绝对偏移。
func decodeMessageLegacy(data []byte, base int) (domain.Message, int, error) {
	msg := domain.Message{Version: domain.VersionLegacy}

	cursor, err := decodeMessageCommon(data, base, &msg)
	if err != nil {
		return msg, 0, err
	}

	if err := checkInstructionBounds(&msg); err != nil {
		return msg, 0, err
	}
	return msg, cursor, nil
}

// decodeMessageV0 解码带版本前缀的消息，前缀之后沿用 legacy 布局，
// 指令之后追加地址查找表列表。
func decodeMessageV0(data []byte, base int) (domain.Message, int, error) {
	msg := domain.Message{Version: domain.VersionV0}
	cursor := 0

	if len(data) == 0 {
		return msg, 0, fieldError(ErrTruncatedInput, "version byte", base)
	}
	ver := data[cursor] &^ byte(versionPrefix)
	if ver != version0 {
		return msg, 0, &UnsupportedVersionError{Version: ver}
	}
	cursor++

	n, err := decodeMessageCommon(data[cursor:], base+cursor, &msg)
	if err != nil {
		return msg, 0, err
	}
	cursor += n

	// 地址查找表列表（compact-u16）
	lookupCount, n, err := ReadShortVecLen(data[cursor:])
	if err != nil {
		return msg, 0, fieldError(err, "lookup count", base+cursor)
	}
	cursor += n

	lookups := make([]domain.AddressTableLookup, 0, lookupCount)
	for i := 0; i < lookupCount; i++ {
		if cursor+pubkeyLen > len(data) {
			return msg, 0, fieldError(ErrTruncatedInput, "lookup table key", base+cursor)
		}
		key, _ := types.PubkeyFromBytes(data[cursor : cursor+pubkeyLen])
		cursor += pubkeyLen

		writable, n, err := readIndexList(data, cursor, base, "writable indexes")
		if err != nil {
			return msg, 0, err
		}
		cursor += n

		readonly, n, err := readIndexList(data, cursor, base, "readonly indexes")
		if err != nil {
			return msg, 0, err
		}
		cursor += n

		lookups = append(lookups, domain.AddressTableLookup{
			AccountKey:      key,
			WritableIndexes: writable,
			ReadonlyIndexes: readonly,
		})
	}
	msg.Lookups = lookups

	if err := checkInstructionBounds(&msg); err != nil {
		return msg, 0, err
	}
	return msg, cursor, nil
}

// decodeMessageCommon 解码 legacy 与 v0 共享的部分：头部、静态账户、blockhash、指令。
func decodeMessageCommon(data []byte, base int, msg *domain.Message) (int, error) {
	cursor := 0

	// 头部（3 字节原始值）
	if len(data) < 3 {
		return 0, fieldError(ErrTruncatedInput, "message header", base)
	}
	msg.Header = domain.MessageHeader{
		NumRequiredSignatures:       data[0],
		NumReadonlySignedAccounts:   data[1],
		NumReadonlyUnsignedAccounts: data[2],
	}
	cursor += 3

	// 静态账户列表
	accountCount, n, err := ReadShortVecLen(data[cursor:])
	if err != nil {
		return 0, fieldError(err, "account count", base+cursor)
	}
	cursor += n

	keys := make([]types.Pubkey, 0, accountCount)
	for i := 0; i < accountCount; i++ {
		if cursor+pubkeyLen > len(data) {
			return 0, fieldError(ErrTruncatedInput, "account key", base+cursor)
		}
		pk, _ := types.PubkeyFromBytes(data[cursor : cursor+pubkeyLen])
		keys = append(keys, pk)
		cursor += pubkeyLen
	}
	msg.AccountKeys = keys

	// recent blockhash（32 字节）
	if cursor+blockhashLen > len(data) {
		return 0, fieldError(ErrTruncatedInput, "recent blockhash", base+cursor)
	}
	copy(msg.RecentBlockhash[:], data[cursor:cursor+blockhashLen])
	cursor += blockhashLen

	// 指令列表
	ixCount, n, err := ReadShortVecLen(data[cursor:])
	if err != nil {
		return 0, fieldError(err, "instruction count", base+cursor)
	}
	cursor += n

	instrs := make([]domain.CompiledInstruction, 0, ixCount)
	for i := 0; i < ixCount; i++ {
		ix, n, err := decodeInstruction(data[cursor:], base+cursor)
		if err != nil {
			return 0, err
		}
		instrs = append(instrs, ix)
		cursor += n
	}
	msg.Instructions = instrs

	return cursor, nil
}

func decodeInstruction(data []byte, base int) (domain.CompiledInstruction, int, error) {
	var ix domain.CompiledInstruction
	cursor := 0

	if len(data) < 1 {
		return ix, 0, fieldError(ErrTruncatedInput, "program id index", base)
	}
	ix.ProgramIDIndex = data[0]
	cursor++

	accountsLen, n, err := ReadShortVecLen(data[cursor:])
	if err != nil {
		return ix, 0, fieldError(err, "instruction account count", base+cursor)
	}
	cursor += n
	if cursor+accountsLen > len(data) {
		return ix, 0, fieldError(ErrTruncatedInput, "instruction accounts", base+cursor)
	}
	ix.Accounts = append([]byte(nil), data[cursor:cursor+accountsLen]...)
	cursor += accountsLen

	dataLen, n, err := ReadShortVecLen(data[cursor:])
	if err != nil {
		return ix, 0, fieldError(err, "instruction data length", base+cursor)
	}
	cursor += n
	if cursor+dataLen > len(data) {
		return ix, 0, fieldError(ErrTruncatedInput, "instruction data", base+cursor)
	}
	ix.Data = append([]byte(nil), data[cursor:cursor+dataLen]...)
	cursor += dataLen

	return ix, cursor, nil
}

func readIndexList(data []byte, cursor, base int, field string) ([]byte, int, error) {
	length, n, err := ReadShortVecLen(data[cursor:])
	if err != nil {
		return nil, 0, fieldError(err, field, base+cursor)
	}
	if cursor+n+length > len(data) {
		return nil, 0, fieldError(ErrTruncatedInput, field, base+cursor+n)
	}
	list := append([]byte(nil), data[cursor+n:cursor+n+length]...)
	return list, n + length, nil
}

// checkInstructionBounds 校验全部指令索引落在静态+查表账户范围内。
// 越界属解码期错误而非 panic。
func checkInstructionBounds(msg *domain.Message) error {
	total := msg.NumTotalAccounts()
	for i, ix := range msg.Instructions {
		if int(ix.ProgramIDIndex) >= total {
			return fieldError(ErrIndexOutOfRange, "program id index", i)
		}
		for _, idx := range ix.Accounts {
			if int(idx) >= total {
				return fieldError(ErrIndexOutOfRange, "instruction account index", i)
			}
		}
	}
	return nil
}
