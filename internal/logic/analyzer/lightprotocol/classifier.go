package lightprotocol

import (
	"fmt"

	"github.com/near/borsh-go"

	"coldsign-sol/internal/consts"
	"coldsign-sol/internal/logic/analyzer"
	"coldsign-sol/internal/logic/domain"
	"coldsign-sol/internal/types"
)

// Classifier 识别 Light Protocol（ZK Compression）指令并给出隐私影响标签。
// 通过 analyzer.Registry 显式注册接入，Analyzer 本身对具体协议无感知。
type Classifier struct {
	programs []types.Pubkey
}

func New() *Classifier {
	return &Classifier{
		programs: []types.Pubkey{
			consts.LightSystemProgram,
			consts.AccountCompressionProgram,
			consts.CompressedTokenProgram,
		},
	}
}

func (c *Classifier) Name() string {
	return "Light Protocol"
}

// Classify 按 8 字节 discriminator 识别操作类型：
//   - 私密转账/铸币 → Confidential
//   - 公开与压缩状态之间的桥接（compress/decompress）→ Hybrid
//   - 纯存储压缩基础设施操作 → Compressed
//
// 未识别的 discriminator 不产出 Finding。
func (c *Classifier) Classify(ix domain.CompiledInstruction, ixIndex int, resolved *domain.ResolvedContext) []analyzer.Finding {
	program, ok := resolved.Program(ix)
	if !ok || !c.supports(program) {
		return nil
	}
	if len(ix.Data) < discriminatorSize {
		return nil
	}

	var disc [8]byte
	copy(disc[:], ix.Data[:discriminatorSize])

	var (
		level analyzer.PrivacyLevel
		desc  string
	)
	switch disc {
	case discriminatorTransfer:
		level, desc = analyzer.PrivacyConfidential, "private transfer of compressed assets"
	case discriminatorMintTo:
		level, desc = analyzer.PrivacyConfidential, "confidential mint of compressed tokens"
	case discriminatorCompressSol:
		level, desc = analyzer.PrivacyHybrid, describeAmount("compress SOL into compressed state", ix.Data, "lamports")
	case discriminatorCompressToken:
		level, desc = analyzer.PrivacyHybrid, describeAmount("compress tokens into compressed state", ix.Data, "units")
	case discriminatorDecompress:
		level, desc = analyzer.PrivacyHybrid, "decompress assets back to public state"
	case discriminatorCreateMint:
		level, desc = analyzer.PrivacyCompressed, "create compressed token mint"
	case discriminatorStateUpdate:
		level, desc = analyzer.PrivacyCompressed, "compressed state update"
	case discriminatorCloseAccount:
		level, desc = analyzer.PrivacyCompressed, "close compressed account"
	default:
		return nil
	}

	return []analyzer.Finding{{
		Program:          program,
		InstructionIndex: ixIndex,
		Level:            level,
		Description:      desc,
	}}
}

func (c *Classifier) supports(program types.Pubkey) bool {
	for _, p := range c.programs {
		if p == program {
			return true
		}
	}
	return false
}

// amountArgs 为 discriminator 之后的 borsh 编码参数头（amount 在最前）。
type amountArgs struct {
	Amount uint64
}

// describeAmount 尝试解出 discriminator 之后的金额参数并附加到描述。
func describeAmount(base string, data []byte, unit string) string {
	var args amountArgs
	if err := borsh.Deserialize(&args, data[discriminatorSize:]); err != nil {
		return base
	}
	return fmt.Sprintf("%s (%d %s)", base, args.Amount, unit)
}
