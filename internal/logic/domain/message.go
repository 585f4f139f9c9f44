package domain

import "coldsign-sol/internal/types"

// Version 表示交易消息的线格式版本。
type Version uint8

const (
	VersionLegacy Version = iota // 无版本前缀的传统格式
	VersionV0                    // 带 0x80 前缀、支持地址查找表的 v0 格式
)

func (v Version) String() string {
	if v == VersionV0 {
		return "v0"
	}
	return "legacy"
}

// MessageHeader 描述账户列表的签名与读写划分。
// 前 NumRequiredSignatures 个静态账户为必需签名者。
type MessageHeader struct {
	NumRequiredSignatures       uint8 // 必需签名数
	NumReadonlySignedAccounts   uint8 // 签名账户中只读的数量（位于签名段尾部）
	NumReadonlyUnsignedAccounts uint8 // 非签名账户中只读的数量（位于账户列表尾部）
}

// AddressTableLookup 表示 v0 消息中对一张地址查找表的引用。
// 索引指向该表存储的地址列表，而非交易自身的账户列表。
type AddressTableLookup struct {
	AccountKey      types.Pubkey // 查找表账户地址
	WritableIndexes []byte       // 可写账户在表内的索引
	ReadonlyIndexes []byte       // 只读账户在表内的索引
}

// Message 表示交易的签名内容：头部、静态账户、blockhash 与指令。
// Lookups 仅在 VersionV0 下有效。
type Message struct {
	Version         Version
	Header          MessageHeader
	AccountKeys     []types.Pubkey // 静态账户列表，顺序即签名/读写划分依据
	RecentBlockhash types.Hash
	Instructions    []CompiledInstruction
	Lookups         []AddressTableLookup // v0 地址查找表引用；legacy 恒为空
}

// NumLookupAccounts 返回查表展开后将追加的账户总数。
func (m *Message) NumLookupAccounts() int {
	n := 0
	for _, l := range m.Lookups {
		n += len(l.WritableIndexes) + len(l.ReadonlyIndexes)
	}
	return n
}

// NumTotalAccounts 返回静态账户与查表账户之和，即指令索引的合法上界。
func (m *Message) NumTotalAccounts() int {
	return len(m.AccountKeys) + m.NumLookupAccounts()
}
