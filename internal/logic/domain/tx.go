package domain

import "coldsign-sol/internal/types"

// Transaction 表示一笔已解码的交易：签名列表 + 消息。
// 签名按位置与消息静态账户的前 NumRequiredSignatures 项对齐；
// 未填充的签名槽为全零值（部分签名是合法的可再序列化状态）。
type Transaction struct {
	Signatures []types.Signature
	Message    Message
}

// RequiredSigners 返回必需签名者（静态账户前缀），供签名槽定位使用。
func (tx *Transaction) RequiredSigners() []types.Pubkey {
	n := int(tx.Message.Header.NumRequiredSignatures)
	if n > len(tx.Message.AccountKeys) {
		n = len(tx.Message.AccountKeys)
	}
	return tx.Message.AccountKeys[:n]
}

// IsFullySigned 判断签名槽数量达到必需签名数且全部已填充。
func (tx *Transaction) IsFullySigned() bool {
	required := int(tx.Message.Header.NumRequiredSignatures)
	if required == 0 || len(tx.Signatures) < required {
		return false
	}
	for _, sig := range tx.Signatures {
		if sig.IsZero() {
			return false
		}
	}
	return true
}

// ResolvedContext 表示指令索引实际指向的完整账户序列：
// 静态账户，其后依查表顺序追加全部可写展开账户，再追加全部只读展开账户。
// 仅在分析与签名期间使用，从不序列化。
type ResolvedContext struct {
	Accounts []types.Pubkey
}

// Account 按索引取账户，越界时返回 false。
func (rc *ResolvedContext) Account(idx int) (types.Pubkey, bool) {
	if idx < 0 || idx >= len(rc.Accounts) {
		return types.Pubkey{}, false
	}
	return rc.Accounts[idx], true
}

// Program 返回指令的程序账户，越界时返回 false。
func (rc *ResolvedContext) Program(ix CompiledInstruction) (types.Pubkey, bool) {
	return rc.Account(int(ix.ProgramIDIndex))
}
