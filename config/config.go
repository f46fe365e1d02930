// =============================================================================
// FlowCanvas 配置加载器
// =============================================================================
// 统一配置加载，支持 YAML 文件 + 环境变量覆盖
//
// 使用方法:
//
//	cfg, err := config.NewLoader().
//	    WithConfigPath("flowcanvas.yaml").
//	    WithEnvPrefix("FLOWCANVAS").
//	    Load()
//
// 配置优先级: 默认值 → YAML 文件 → 环境变量
// =============================================================================
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/BaSui01/flowcanvas/store"
)

// Config 是 FlowCanvas 引擎的完整配置结构
type Config struct {
	// Log 日志配置
	Log LogConfig `yaml:"log"`

	// Store 持久化后端配置
	Store store.Config `yaml:"store"`

	// History 撤销历史配置
	History HistoryConfig `yaml:"history"`

	// Autosave 自动保存配置
	Autosave AutosaveConfig `yaml:"autosave"`

	// Telemetry 遥测配置
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// LogConfig 日志配置
type LogConfig struct {
	// 日志级别: debug / info / warn / error
	Level string `yaml:"level"`
	// 输出格式: json / console
	Format string `yaml:"format"`
}

// HistoryConfig 撤销历史配置
type HistoryConfig struct {
	// 保留的快照数量上限，0 表示不限制
	Limit int `yaml:"limit"`
}

// AutosaveConfig 自动保存配置
type AutosaveConfig struct {
	// 是否启用
	Enabled bool `yaml:"enabled"`
	// 两次自动保存之间的最小间隔
	Interval time.Duration `yaml:"interval"`
}

// TelemetryConfig 遥测配置
type TelemetryConfig struct {
	// 是否启用 OTel 导出
	Enabled bool `yaml:"enabled"`
	// 服务名
	ServiceName string `yaml:"service_name"`
	// OTLP gRPC 端点
	OTLPEndpoint string `yaml:"otlp_endpoint"`
}

// Default 返回默认配置
func Default() Config {
	return Config{
		Log:      LogConfig{Level: "info", Format: "console"},
		Store:    store.DefaultConfig(),
		History:  HistoryConfig{Limit: 0},
		Autosave: AutosaveConfig{Enabled: false, Interval: 5 * time.Second},
		Telemetry: TelemetryConfig{
			Enabled:      false,
			ServiceName:  "flowcanvas",
			OTLPEndpoint: "localhost:4317",
		},
	}
}

// Loader 配置加载器
type Loader struct {
	configPath string
	envPrefix  string
}

// NewLoader 创建配置加载器
func NewLoader() *Loader {
	return &Loader{envPrefix: "FLOWCANVAS"}
}

// WithConfigPath 指定 YAML 配置文件路径
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// WithEnvPrefix 指定环境变量前缀
func (l *Loader) WithEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// Load 按 默认值 → YAML → 环境变量 的顺序合并配置
func (l *Loader) Load() (Config, error) {
	cfg := Default()

	if l.configPath != "" {
		data, err := os.ReadFile(l.configPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	l.applyEnv(&cfg)
	return cfg, nil
}

// applyEnv 应用环境变量覆盖
func (l *Loader) applyEnv(cfg *Config) {
	if v := l.env("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := l.env("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := l.env("STORE_TYPE"); v != "" {
		cfg.Store.Type = store.Type(v)
	}
	if v := l.env("STORE_BASE_DIR"); v != "" {
		cfg.Store.BaseDir = v
	}
	if v := l.env("STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := l.env("REDIS_ADDR"); v != "" {
		cfg.Store.Redis.Addr = v
	}
	if v := l.env("REDIS_PASSWORD"); v != "" {
		cfg.Store.Redis.Password = v
	}
	if v := l.env("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Store.Redis.DB = n
		}
	}
	if v := l.env("HISTORY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.History.Limit = n
		}
	}
	if v := l.env("AUTOSAVE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Autosave.Enabled = b
		}
	}
	if v := l.env("AUTOSAVE_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Autosave.Interval = d
		}
	}
	if v := l.env("TELEMETRY_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Telemetry.Enabled = b
		}
	}
	if v := l.env("TELEMETRY_SERVICE_NAME"); v != "" {
		cfg.Telemetry.ServiceName = v
	}
	if v := l.env("OTLP_ENDPOINT"); v != "" {
		cfg.Telemetry.OTLPEndpoint = v
	}
}

func (l *Loader) env(suffix string) string {
	return os.Getenv(l.envPrefix + "_" + suffix)
}
