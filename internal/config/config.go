package config

import (
	"coldsign-sol/pkg/logger"
)

type LogConfig struct {
	Format   string `yaml:"format"`   // 日志格式，支持 "console" 或 "json"
	LogDir   string `yaml:"log_dir"`  // 日志目录（可为相对路径或绝对路径）
	Level    string `yaml:"level"`    // 日志级别：debug / info / warn / error
	Compress bool   `yaml:"compress"` // 是否压缩旧日志文件
}

func (c *LogConfig) ToLogOption() logger.LogOption {
	return logger.LogOption{
		Format:   c.Format,
		LogDir:   c.LogDir,
		Level:    c.Level,
		Compress: c.Compress,
	}
}

// AnalyzerConfig 表示分析阶段的默认策略。
type AnalyzerConfig struct {
	MaxFeeLamports uint64 `yaml:"max_fee_lamports"` // 费用上限（lamports），0 表示不限制
}

// CliConfig 是主配置结构体，驱动离线签名 CLI。
// 所有字段均可被命令行 flag 覆盖，配置文件本身可选。
type CliConfig struct {
	LogConf      LogConfig      `yaml:"logger"`   // 日志配置
	AnalyzerConf AnalyzerConfig `yaml:"analyzer"` // 分析策略配置

	TablesFile   string `yaml:"tables_file"`   // 地址查找表快照（JSON）路径
	OutputFormat string `yaml:"output_format"` // 默认输出编码：json / base64 / base58
}
