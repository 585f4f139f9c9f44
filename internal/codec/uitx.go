package codec

import (
	"fmt"

	"github.com/mr-tron/base58"

	"coldsign-sol/internal/logic/domain"
	"coldsign-sol/internal/types"
)

// UiTransaction 是交易的 JSON 包装表示（字段命名沿用 RPC 惯例）。
// 签名与指令数据以 base58 文本承载，账户索引以数字数组承载。
type UiTransaction struct {
	Signatures []string  `json:"signatures"`
	Message    UiMessage `json:"message"`
}

type UiMessage struct {
	Version             string                  `json:"version"` // "legacy" 或 "v0"
	Header              UiMessageHeader         `json:"header"`
	AccountKeys         []string                `json:"accountKeys"`
	RecentBlockhash     string                  `json:"recentBlockhash"`
	Instructions        []UiCompiledInstruction `json:"instructions"`
	AddressTableLookups []UiAddressTableLookup  `json:"addressTableLookups,omitempty"`
}

type UiMessageHeader struct {
	NumRequiredSignatures       uint8 `json:"numRequiredSignatures"`
	NumReadonlySignedAccounts   uint8 `json:"numReadonlySignedAccounts"`
	NumReadonlyUnsignedAccounts uint8 `json:"numReadonlyUnsignedAccounts"`
}

type UiCompiledInstruction struct {
	ProgramIDIndex uint8    `json:"programIdIndex"`
	Accounts       []uint16 `json:"accounts"`
	Data           string   `json:"data"` // base58
}

type UiAddressTableLookup struct {
	AccountKey      string   `json:"accountKey"`
	WritableIndexes []uint16 `json:"writableIndexes"`
	ReadonlyIndexes []uint16 `json:"readonlyIndexes"`
}

// ToUiTransaction 将交易转换为 JSON DTO。
func ToUiTransaction(tx *domain.Transaction) UiTransaction {
	msg := &tx.Message

	ui := UiTransaction{
		Signatures: make([]string, 0, len(tx.Signatures)),
		Message: UiMessage{
			Version: msg.Version.String(),
			Header: UiMessageHeader{
				NumRequiredSignatures:       msg.Header.NumRequiredSignatures,
				NumReadonlySignedAccounts:   msg.Header.NumReadonlySignedAccounts,
				NumReadonlyUnsignedAccounts: msg.Header.NumReadonlyUnsignedAccounts,
			},
			AccountKeys:     make([]string, 0, len(msg.AccountKeys)),
			RecentBlockhash: msg.RecentBlockhash.String(),
			Instructions:    make([]UiCompiledInstruction, 0, len(msg.Instructions)),
		},
	}

	for _, sig := range tx.Signatures {
		ui.Signatures = append(ui.Signatures, sig.String())
	}
	for _, key := range msg.AccountKeys {
		ui.Message.AccountKeys = append(ui.Message.AccountKeys, key.String())
	}
	for _, ix := range msg.Instructions {
		ui.Message.Instructions = append(ui.Message.Instructions, UiCompiledInstruction{
			ProgramIDIndex: ix.ProgramIDIndex,
			Accounts:       bytesToUint16(ix.Accounts),
			Data:           base58.Encode(ix.Data),
		})
	}
	for _, l := range msg.Lookups {
		ui.Message.AddressTableLookups = append(ui.Message.AddressTableLookups, UiAddressTableLookup{
			AccountKey:      l.AccountKey.String(),
			WritableIndexes: bytesToUint16(l.WritableIndexes),
			ReadonlyIndexes: bytesToUint16(l.ReadonlyIndexes),
		})
	}
	return ui
}

// ToTransaction 将 JSON DTO 还原为交易，并做与二进制解码同等的索引校验。
func (ui *UiTransaction) ToTransaction() (*domain.Transaction, error) {
	msg := domain.Message{}

	switch ui.Message.Version {
	case "v0":
		msg.Version = domain.VersionV0
	case "", "legacy":
		// version 字段缺省时按是否携带查找表判断
		if len(ui.Message.AddressTableLookups) > 0 {
			msg.Version = domain.VersionV0
		} else {
			msg.Version = domain.VersionLegacy
		}
	default:
		return nil, fmt.Errorf("%w: unknown message version %q", ErrUnrecognizedEncoding, ui.Message.Version)
	}

	msg.Header = domain.MessageHeader{
		NumRequiredSignatures:       ui.Message.Header.NumRequiredSignatures,
		NumReadonlySignedAccounts:   ui.Message.Header.NumReadonlySignedAccounts,
		NumReadonlyUnsignedAccounts: ui.Message.Header.NumReadonlyUnsignedAccounts,
	}

	msg.AccountKeys = make([]types.Pubkey, 0, len(ui.Message.AccountKeys))
	for _, s := range ui.Message.AccountKeys {
		pk, err := types.TryPubkeyFromBase58(s)
		if err != nil {
			return nil, fmt.Errorf("invalid account key: %w", err)
		}
		msg.AccountKeys = append(msg.AccountKeys, pk)
	}

	bh, err := types.HashFromBase58(ui.Message.RecentBlockhash)
	if err != nil {
		return nil, fmt.Errorf("invalid recent blockhash: %w", err)
	}
	msg.RecentBlockhash = bh

	msg.Instructions = make([]domain.CompiledInstruction, 0, len(ui.Message.Instructions))
	for i, uix := range ui.Message.Instructions {
		accounts, err := uint16ToBytes(uix.Accounts)
		if err != nil {
			return nil, fmt.Errorf("instruction %d: %w", i, err)
		}
		data, err := base58.Decode(uix.Data)
		if err != nil {
			return nil, fmt.Errorf("instruction %d: invalid base58 data: %w", i, err)
		}
		msg.Instructions = append(msg.Instructions, domain.CompiledInstruction{
			ProgramIDIndex: uix.ProgramIDIndex,
			Accounts:       accounts,
			Data:           data,
		})
	}

	for _, ul := range ui.Message.AddressTableLookups {
		key, err := types.TryPubkeyFromBase58(ul.AccountKey)
		if err != nil {
			return nil, fmt.Errorf("invalid lookup table key: %w", err)
		}
		writable, err := uint16ToBytes(ul.WritableIndexes)
		if err != nil {
			return nil, err
		}
		readonly, err := uint16ToBytes(ul.ReadonlyIndexes)
		if err != nil {
			return nil, err
		}
		msg.Lookups = append(msg.Lookups, domain.AddressTableLookup{
			AccountKey:      key,
			WritableIndexes: writable,
			ReadonlyIndexes: readonly,
		})
	}

	signatures := make([]types.Signature, 0, len(ui.Signatures))
	for _, s := range ui.Signatures {
		sig, err := types.TrySignatureFromBase58(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSignatureEncoding, err)
		}
		signatures = append(signatures, sig)
	}

	tx := &domain.Transaction{Signatures: signatures, Message: msg}
	if err := checkInstructionBounds(&tx.Message); err != nil {
		return nil, err
	}
	return tx, nil
}

func bytesToUint16(b []byte) []uint16 {
	out := make([]uint16, len(b))
	for i, v := range b {
		out[i] = uint16(v)
	}
	return out
}

func uint16ToBytes(v []uint16) ([]byte, error) {
	out := make([]byte, len(v))
	for i, x := range v {
		if x > 0xFF {
			return nil, fmt.Errorf("%w: account index %d exceeds u8", ErrIndexOutOfRange, x)
		}
		out[i] = byte(x)
	}
	return out, nil
}
