package resolver

import (
	"encoding/json"
	"fmt"

	"coldsign-sol/internal/logic/domain"
	"coldsign-sol/internal/types"
)

// Tables 表示离线提供的地址查找表快照：表地址 → 表内地址列表（保持存储顺序）。
// 快照由调用方从文件构造，核心从不联网获取；快照过期与否由调用方负责。
type Tables map[types.Pubkey][]types.Pubkey

// UnknownLookupTableError 表示交易引用的查找表不在快照中。
type UnknownLookupTableError struct {
	Table types.Pubkey
}

func (e *UnknownLookupTableError) Error() string {
	return fmt.Sprintf("unknown lookup table: %s", e.Table)
}

// IndexOutOfRangeError 表示查表索引超出该表地址列表长度。
type IndexOutOfRangeError struct {
	Table types.Pubkey
	Index uint8
	Size  int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("lookup index %d out of range for table %s (size %d)", e.Index, e.Table, e.Size)
}

// Resolve 将交易的查找表引用展开为完整账户序列。
// 账户顺序为：静态账户，其后按查表顺序追加全部可写展开账户，
// 再追加全部只读展开账户；指令索引即基于该顺序定义。
// 无查找表（legacy 或空列表）时退化为静态账户的恒等展开。
func Resolve(tx *domain.Transaction, tables Tables) (*domain.ResolvedContext, error) {
	msg := &tx.Message

	accounts := make([]types.Pubkey, 0, msg.NumTotalAccounts())
	accounts = append(accounts, msg.AccountKeys...)

	if len(msg.Lookups) == 0 {
		return &domain.ResolvedContext{Accounts: accounts}, nil
	}

	var readonly []types.Pubkey
	for _, l := range msg.Lookups {
		entries, ok := tables[l.AccountKey]
		if !ok {
			return nil, &UnknownLookupTableError{Table: l.AccountKey}
		}
		for _, idx := range l.WritableIndexes {
			if int(idx) >= len(entries) {
				return nil, &IndexOutOfRangeError{Table: l.AccountKey, Index: idx, Size: len(entries)}
			}
			accounts = append(accounts, entries[idx])
		}
		for _, idx := range l.ReadonlyIndexes {
			if int(idx) >= len(entries) {
				return nil, &IndexOutOfRangeError{Table: l.AccountKey, Index: idx, Size: len(entries)}
			}
			readonly = append(readonly, entries[idx])
		}
	}
	accounts = append(accounts, readonly...)

	return &domain.ResolvedContext{Accounts: accounts}, nil
}

// ParseTables 解析查找表快照 JSON：
//
//	{ "<表地址 base58>": ["地址1", "地址2", ...], ... }
func ParseTables(data []byte) (Tables, error) {
	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid lookup tables json: %w", err)
	}

	tables := make(Tables, len(raw))
	for tableKey, addresses := range raw {
		table, err := types.TryPubkeyFromBase58(tableKey)
		if err != nil {
			return nil, fmt.Errorf("invalid lookup table key %q: %w", tableKey, err)
		}
		entries := make([]types.Pubkey, 0, len(addresses))
		for _, addr := range addresses {
			pk, err := types.TryPubkeyFromBase58(addr)
			if err != nil {
				return nil, fmt.Errorf("invalid address %q in table %s: %w", addr, tableKey, err)
			}
			entries = append(entries, pk)
		}
		tables[table] = entries
	}
	return tables, nil
}
