package domain

// CompiledInstruction 表示交易消息内的一条已编译指令。
// 所有索引均指向解析后的完整账户列表（静态账户 + 查表展开账户）。
type CompiledInstruction struct {
	ProgramIDIndex uint8  // 程序账户在账户列表中的索引
	Accounts       []byte // 指令涉及的账户索引列表，保持原始顺序
	Data           []byte // 指令原始数据（不透明字节序列）
}
