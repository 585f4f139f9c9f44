package lightprotocol

// Light Protocol（ZK Compression）指令判别值：anchor 风格 8 字节 discriminator。
const discriminatorSize = 8

var (
	discriminatorCreateMint    = [8]byte{69, 44, 215, 132, 253, 214, 41, 45}
	discriminatorMintTo        = [8]byte{241, 34, 48, 186, 37, 179, 123, 192}
	discriminatorTransfer      = [8]byte{163, 52, 200, 231, 140, 3, 69, 186}
	discriminatorCompressSol   = [8]byte{101, 145, 17, 14, 113, 248, 178, 230}
	discriminatorCompressToken = [8]byte{145, 26, 238, 131, 177, 60, 60, 35}
	discriminatorDecompress    = [8]byte{74, 60, 49, 197, 18, 110, 93, 154}
	discriminatorStateUpdate   = [8]byte{81, 156, 178, 100, 94, 144, 128, 20}
	discriminatorCloseAccount  = [8]byte{125, 255, 149, 14, 110, 34, 72, 24}
)
