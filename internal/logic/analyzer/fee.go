package analyzer

import (
	"fmt"
	"math"
	"math/bits"

	"coldsign-sol/internal/logic/domain"
)

// 费用策略集中在本文件，便于整体替换而不触碰 Analyzer 结构。
const (
	// estimatedBaseFeePerSignature 为每个必需签名的基础费（lamports）。
	// 离线估计值，不查询集群。
	estimatedBaseFeePerSignature uint64 = 5000

	// defaultComputeUnitLimit 为未显式设置 CU 上限时的优先费估算依据。
	defaultComputeUnitLimit uint32 = 200_000

	microLamportsPerLamport uint64 = 1_000_000
)

// FeeExceedsLimitError 表示费用估计超过调用方设定的上限。
// 这是策略性拒绝而非输入错误，调用方可提示显式覆盖后重试。
type FeeExceedsLimitError struct {
	Estimate uint64 // 估计总费用（lamports）
	Limit    uint64 // 调用方给定的上限
}

func (e *FeeExceedsLimitError) Error() string {
	return fmt.Sprintf("estimated fee %d lamports exceeds limit %d lamports", e.Estimate, e.Limit)
}

// estimateBaseFee 返回基础费：每签名单价 × 必需签名数。
func estimateBaseFee(header domain.MessageHeader) uint64 {
	return estimatedBaseFeePerSignature * uint64(header.NumRequiredSignatures)
}

// estimatePriorityFee 根据 ComputeBudget 设置估算优先费。
// 未设置单价时无优先费；未设置上限时按默认值估算并标记 estimated。
// 单价与 CU 上限都来自不可信输入，乘法在 128 位内完成，
// 结果超出 uint64 时饱和到上限，保证费用上限检查不会被回绕绕过。
func estimatePriorityFee(priceMicro *uint64, limit *uint32) (fee uint64, estimated bool) {
	if priceMicro == nil {
		return 0, false
	}
	cu := defaultComputeUnitLimit
	if limit != nil {
		cu = *limit
	}

	hi, lo := bits.Mul64(*priceMicro, uint64(cu))
	if hi >= microLamportsPerLamport {
		// 商超出 uint64 可表示范围
		return math.MaxUint64, limit == nil
	}
	quo, _ := bits.Div64(hi, lo, microLamportsPerLamport)
	return quo, limit == nil
}

// saturatingAdd 做饱和加法，费用汇总不允许回绕。
func saturatingAdd(a, b uint64) uint64 {
	if sum := a + b; sum >= a {
		return sum
	}
	return math.MaxUint64
}
