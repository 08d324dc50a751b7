package config

// LoggerConfig 日志配置。
// 说明：默认输出 stdout/stderr；配置 RotateFile 后额外写入滚动文件（lumberjack）。
type LoggerConfig struct {
	Level            string   `json:"level" yaml:"level" env:"LEVEL"`                                 // 日志级别 debug/info/warn/error
	Encoding         string   `json:"encoding" yaml:"encoding" env:"ENCODING"`                        // 编码 json/console
	EnableColor      bool     `json:"enableColor" yaml:"enableColor" env:"ENABLE_COLOR"`              // console 模式下是否彩色
	Development      bool     `json:"development" yaml:"development" env:"DEVELOPMENT"`               // 开发模式（error 级别打印堆栈）
	OutputPaths      []string `json:"outputPaths" yaml:"outputPaths" env:"OUTPUT_PATHS"`              // 普通日志输出
	ErrorOutputPaths []string `json:"errorOutputPaths" yaml:"errorOutputPaths" env:"ERROR_OUTPUT_PATHS"` // zap 内部错误输出

	// 滚动文件配置，RotateFile 为空时不启用
	RotateFile       string `json:"rotateFile" yaml:"rotateFile" env:"ROTATE_FILE"`
	RotateMaxSizeMB  int    `json:"rotateMaxSizeMB" yaml:"rotateMaxSizeMB" env:"ROTATE_MAX_SIZE_MB"`
	RotateMaxBackups int    `json:"rotateMaxBackups" yaml:"rotateMaxBackups" env:"ROTATE_MAX_BACKUPS"`
	RotateMaxAgeDays int    `json:"rotateMaxAgeDays" yaml:"rotateMaxAgeDays" env:"ROTATE_MAX_AGE_DAYS"`
	RotateCompress   bool   `json:"rotateCompress" yaml:"rotateCompress" env:"ROTATE_COMPRESS"`
}

// DefaultLoggerConfig 返回本地开发的默认配置。
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level:            "info",
		Encoding:         "json",
		EnableColor:      false,
		Development:      false,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		RotateMaxSizeMB:  100,
		RotateMaxBackups: 7,
		RotateMaxAgeDays: 30,
		RotateCompress:   true,
	}
}
