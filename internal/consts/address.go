package consts

import "coldsign-sol/internal/types"

// Base58 地址常量（可读性高，适合配置与日志使用）
const (
	// 内置程序
	SystemProgramStr          = "11111111111111111111111111111111"
	TokenProgramStr           = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	TokenProgram2022Str       = "TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb"
	AssociatedTokenProgramStr = "ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL"
	ComputeBudgetProgramStr   = "ComputeBudget111111111111111111111111111111"

	// Light Protocol（ZK Compression）相关程序
	LightSystemProgramStr        = "Lighton6oQpVkeewmo2mcPTQQp7kYHr4fWpAgJyEmDX"
	AccountCompressionProgramStr = "compr6CUsB5m2jS4Y3831ztGSTnDpnKJTKS95d64XVq"
	CompressedTokenProgramStr    = "cTokenmWW8bLPjZEBAUgYy3zKxQZW6VKi7bqNFEVv3m"
)

var (
	// 内置程序
	SystemProgram          = types.PubkeyFromBase58(SystemProgramStr)
	TokenProgram           = types.PubkeyFromBase58(TokenProgramStr)
	TokenProgram2022       = types.PubkeyFromBase58(TokenProgram2022Str)
	AssociatedTokenProgram = types.PubkeyFromBase58(AssociatedTokenProgramStr)
	ComputeBudgetProgram   = types.PubkeyFromBase58(ComputeBudgetProgramStr)

	// Light Protocol
	LightSystemProgram        = types.PubkeyFromBase58(LightSystemProgramStr)
	AccountCompressionProgram = types.PubkeyFromBase58(AccountCompressionProgramStr)
	CompressedTokenProgram    = types.PubkeyFromBase58(CompressedTokenProgramStr)
)
