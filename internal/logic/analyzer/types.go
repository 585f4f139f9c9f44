package analyzer

import (
	"coldsign-sol/internal/logic/domain"
	"coldsign-sol/internal/types"
)

// PrivacyLevel 表示交易或单条指令的隐私影响等级。
// 数值即严重度次序：Public < Compressed < Hybrid < Confidential。
type PrivacyLevel int

const (
	PrivacyPublic       PrivacyLevel = iota // 完全透明的公开账本操作
	PrivacyCompressed                       // 仅存储压缩（ZK Compression），无私密转账
	PrivacyHybrid                           // 公开状态与压缩/私密状态之间的桥接
	PrivacyConfidential                     // 私密（shielded）操作
)

func (l PrivacyLevel) String() string {
	switch l {
	case PrivacyCompressed:
		return "compressed"
	case PrivacyHybrid:
		return "hybrid"
	case PrivacyConfidential:
		return "confidential"
	default:
		return "public"
	}
}

// Finding 表示分类器对某条指令的一次隐私影响观察。
// 仅报告非 Public 的影响，保持摘要精简。
type Finding struct {
	Program          types.Pubkey // 被调用程序
	InstructionIndex int          // 指令在消息中的序号
	Level            PrivacyLevel
	Description      string // 操作的自由文本描述
}

// Classifier 是协议分类器的能力接口：
// 对一条已解码指令给出零或多条 Finding。实现必须无副作用。
type Classifier interface {
	// Name 返回协议名（用于摘要展示）。
	Name() string
	// Classify 检查一条指令；与本协议无关时返回 nil。
	Classify(ix domain.CompiledInstruction, ixIndex int, resolved *domain.ResolvedContext) []Finding
}

// Registry 持有按注册顺序求值的分类器集合。
// 核心默认不激活任何分类器，新协议通过 Register 接入，无需改动 Analyzer。
type Registry struct {
	classifiers []Classifier
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Register(c Classifier) {
	r.classifiers = append(r.classifiers, c)
}

// classify 按注册顺序走一遍全部分类器，汇总 Finding。
func (r *Registry) classify(ix domain.CompiledInstruction, ixIndex int, resolved *domain.ResolvedContext) []Finding {
	var findings []Finding
	for _, c := range r.classifiers {
		findings = append(findings, c.Classify(ix, ixIndex, resolved)...)
	}
	return findings
}

// WarningKind 表示分析过程中的非 Finding 类观察。
type WarningKind string

const (
	WarnTokenTransfer        WarningKind = "token_transfer"        // SPL Token 转账指令
	WarnToken2022Transfer    WarningKind = "token_2022_transfer"   // Token-2022 转账指令
	WarnUnknownProgram       WarningKind = "unknown_program"       // 未识别程序（不参与余额估计）
	WarnMalformedInstruction WarningKind = "malformed_instruction" // 指令数据短于协议要求
)

// Warning 是一条分析告警；Program 仅在与具体程序相关时填写。
type Warning struct {
	Kind    WarningKind
	Program types.Pubkey
}

// Transfer 表示一笔可识别的内置程序 SOL 转移。
type Transfer struct {
	From     types.Pubkey
	To       types.Pubkey
	Lamports uint64
}

// BalanceChange 表示某账户的净余额变化估计（lamports，可为负）。
type BalanceChange struct {
	Account types.Pubkey
	Delta   int64
}

// Summary 是一次只读分析的聚合结果。
type Summary struct {
	Version string // "legacy" / "v0"

	// 费用估计（lamports）。离线环境无法获取费率市场数据，
	// 这里是文档化的保守估计而非保证。
	BaseFee              uint64
	PriorityFee          uint64
	PriorityFeeEstimated bool // 优先费按默认 CU 上限估算时为 true
	TotalFee             uint64

	ComputeUnitLimit      *uint32 // SetComputeUnitLimit 指令给出的值
	ComputeUnitPriceMicro *uint64 // SetComputeUnitPrice 指令给出的值（micro-lamports）

	Transfers      []Transfer      // 可识别的内置程序转移
	BalanceChanges []BalanceChange // 按首次出现顺序的净余额变化估计

	Findings []Finding // 分类器产出，按指令序
	Warnings []Warning

	// Overall 为全部 Finding 的最高严重度；无 Finding 时为 Public。
	Overall PrivacyLevel
}
