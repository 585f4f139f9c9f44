package analyzer

import (
	"encoding/binary"

	sdktoken "github.com/blocto/solana-go-sdk/program/token"

	"coldsign-sol/internal/consts"
	"coldsign-sol/internal/logic/domain"
	"coldsign-sol/internal/types"
)

// System Program 指令判别值（data 前 4 字节，LE u32）
const (
	systemInstructionCreateAccount uint32 = 0
	systemInstructionTransfer      uint32 = 2

	systemTransferDataLen = 12 // tag(4) + lamports(8)
)

// ComputeBudget 指令判别值（data 首字节）
const (
	computeBudgetSetUnitLimit byte = 2
	computeBudgetSetUnitPrice byte = 3
)

// Analyze 对交易做一次只读分析：费用估计、账户余额影响与隐私分类。
// maxFee 非零时为费用上限（lamports），估计总费用超过上限返回
// *FeeExceedsLimitError。本函数不修改交易。
func Analyze(tx *domain.Transaction, resolved *domain.ResolvedContext, reg *Registry, maxFee uint64) (*Summary, error) {
	summary := &Summary{
		Version: tx.Message.Version.String(),
	}

	deltas := newBalanceTracker()
	unknown := make(map[types.Pubkey]struct{})

	for i, ix := range tx.Message.Instructions {
		program, ok := resolved.Program(ix)
		if !ok {
			// 解码期已做边界校验，这里只防御性跳过
			continue
		}

		// 分类器按注册顺序求值
		if reg != nil {
			summary.Findings = append(summary.Findings, reg.classify(ix, i, resolved)...)
		}

		switch program {
		case consts.SystemProgram:
			analyzeSystemInstruction(ix, resolved, summary, deltas)
		case consts.ComputeBudgetProgram:
			analyzeComputeBudgetInstruction(ix, summary)
		case consts.TokenProgram:
			if isTokenTransfer(ix.Data) {
				summary.Warnings = append(summary.Warnings, Warning{Kind: WarnTokenTransfer, Program: program})
			}
		case consts.TokenProgram2022:
			if isTokenTransfer(ix.Data) {
				summary.Warnings = append(summary.Warnings, Warning{Kind: WarnToken2022Transfer, Program: program})
			}
		default:
			unknown[program] = struct{}{}
		}
	}

	for program := range unknown {
		summary.Warnings = append(summary.Warnings, Warning{Kind: WarnUnknownProgram, Program: program})
	}

	// 费用估计
	summary.BaseFee = estimateBaseFee(tx.Message.Header)
	summary.PriorityFee, summary.PriorityFeeEstimated =
		estimatePriorityFee(summary.ComputeUnitPriceMicro, summary.ComputeUnitLimit)
	summary.TotalFee = saturatingAdd(summary.BaseFee, summary.PriorityFee)

	if maxFee != 0 && summary.TotalFee > maxFee {
		return nil, &FeeExceedsLimitError{Estimate: summary.TotalFee, Limit: maxFee}
	}

	summary.BalanceChanges = deltas.changes()
	summary.Overall = overallLevel(summary.Findings)
	return summary, nil
}

// analyzeSystemInstruction 识别 System Program 的转移/分配指令并累计余额变化。
// Transfer 与 CreateAccount 的 lamports 均位于 data[4:12]（LE u64）。
func analyzeSystemInstruction(ix domain.CompiledInstruction, resolved *domain.ResolvedContext, summary *Summary, deltas *balanceTracker) {
	if len(ix.Data) < 4 {
		return
	}
	tag := binary.LittleEndian.Uint32(ix.Data[0:4])
	if tag != systemInstructionTransfer && tag != systemInstructionCreateAccount {
		return
	}
	// 判别值可识别但载荷不完整：告警并跳过余额估计
	if len(ix.Data) < systemTransferDataLen || len(ix.Accounts) < 2 {
		summary.Warnings = append(summary.Warnings, Warning{Kind: WarnMalformedInstruction, Program: consts.SystemProgram})
		return
	}
	lamports := binary.LittleEndian.Uint64(ix.Data[4:12])

	from, okFrom := resolved.Account(int(ix.Accounts[0]))
	to, okTo := resolved.Account(int(ix.Accounts[1]))
	if !okFrom || !okTo {
		return
	}

	summary.Transfers = append(summary.Transfers, Transfer{From: from, To: to, Lamports: lamports})
	deltas.add(from, -int64(lamports))
	deltas.add(to, int64(lamports))
}

func analyzeComputeBudgetInstruction(ix domain.CompiledInstruction, summary *Summary) {
	if len(ix.Data) == 0 {
		return
	}
	switch ix.Data[0] {
	case computeBudgetSetUnitLimit:
		if len(ix.Data) < 1+4 {
			summary.Warnings = append(summary.Warnings, Warning{Kind: WarnMalformedInstruction, Program: consts.ComputeBudgetProgram})
			return
		}
		v := binary.LittleEndian.Uint32(ix.Data[1:5])
		summary.ComputeUnitLimit = &v
	case computeBudgetSetUnitPrice:
		if len(ix.Data) < 1+8 {
			summary.Warnings = append(summary.Warnings, Warning{Kind: WarnMalformedInstruction, Program: consts.ComputeBudgetProgram})
			return
		}
		v := binary.LittleEndian.Uint64(ix.Data[1:9])
		summary.ComputeUnitPriceMicro = &v
	}
}

func isTokenTransfer(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	switch data[0] {
	case byte(sdktoken.InstructionTransfer), byte(sdktoken.InstructionTransferChecked):
		return true
	default:
		return false
	}
}

// overallLevel 取全部 Finding 的最高严重度，无 Finding 时为 Public。
func overallLevel(findings []Finding) PrivacyLevel {
	level := PrivacyPublic
	for _, f := range findings {
		if f.Level > level {
			level = f.Level
		}
	}
	return level
}

// balanceTracker 按首次出现顺序累计各账户净余额变化。
type balanceTracker struct {
	index map[types.Pubkey]int
	list  []BalanceChange
}

func newBalanceTracker() *balanceTracker {
	return &balanceTracker{index: make(map[types.Pubkey]int)}
}

func (t *balanceTracker) add(account types.Pubkey, delta int64) {
	if i, ok := t.index[account]; ok {
		t.list[i].Delta += delta
		return
	}
	t.index[account] = len(t.list)
	t.list = append(t.list, BalanceChange{Account: account, Delta: delta})
}

func (t *balanceTracker) changes() []BalanceChange {
	return t.list
}
