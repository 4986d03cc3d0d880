package server

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 中继服务配置。来源优先级：环境变量（REBE_ 前缀）> 配置文件 > 默认值
type Config struct {
	// Addr HTTP/WebSocket 监听地址
	Addr string `mapstructure:"addr"`
	// DistDir 客户端打包产物目录（静态托管 + SPA 回退）
	DistDir string `mapstructure:"dist_dir"`
	// LogFile 日志文件路径
	LogFile string `mapstructure:"log_file"`
	// LogLevel 最低日志级别：debug/info/warn/error
	LogLevel string `mapstructure:"log_level"`

	// SpawnX/SpawnY 加入时的默认出生坐标（世界像素）
	SpawnX float64 `mapstructure:"spawn_x"`
	SpawnY float64 `mapstructure:"spawn_y"`
	// DefaultScene 加入时的默认场景标签
	DefaultScene string `mapstructure:"default_scene"`
	// DefaultNickname 昵称为空时的占位昵称
	DefaultNickname string `mapstructure:"default_nickname"`

	// SendBuffer 每连接出站队列容量，满则丢帧
	SendBuffer int `mapstructure:"send_buffer"`
	// CommandBuffer Hub 命令通道容量，满则丢入站事件
	CommandBuffer int `mapstructure:"command_buffer"`
	// ReadLimit 单帧最大字节数
	ReadLimit int64 `mapstructure:"read_limit"`
	// ReadTimeout 读超时；pong 会续期
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout 单帧写超时
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// PingInterval 服务端 ping 周期，必须小于 ReadTimeout
	PingInterval time.Duration `mapstructure:"ping_interval"`
}

// DefaultConfig 全默认值配置（测试与 LoadConfig 的共同起点）
func DefaultConfig() Config {
	return Config{
		Addr:            ":3005",
		DistDir:         "dist",
		LogFile:         "app.log",
		LogLevel:        "info",
		SpawnX:          DefaultSpawnX,
		SpawnY:          DefaultSpawnY,
		DefaultScene:    "main",
		DefaultNickname: "anonymous",
		SendBuffer:      64,
		CommandBuffer:   256,
		ReadLimit:       1 << 20, // 1MB
		ReadTimeout:     60 * time.Second,
		WriteTimeout:    5 * time.Second,
		PingInterval:    25 * time.Second,
	}
}

// LoadConfig 读取配置；path 为空时只用默认值和环境变量
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	def := DefaultConfig()
	v.SetDefault("addr", def.Addr)
	v.SetDefault("dist_dir", def.DistDir)
	v.SetDefault("log_file", def.LogFile)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("spawn_x", def.SpawnX)
	v.SetDefault("spawn_y", def.SpawnY)
	v.SetDefault("default_scene", def.DefaultScene)
	v.SetDefault("default_nickname", def.DefaultNickname)
	v.SetDefault("send_buffer", def.SendBuffer)
	v.SetDefault("command_buffer", def.CommandBuffer)
	v.SetDefault("read_limit", def.ReadLimit)
	v.SetDefault("read_timeout", def.ReadTimeout)
	v.SetDefault("write_timeout", def.WriteTimeout)
	v.SetDefault("ping_interval", def.PingInterval)

	v.SetEnvPrefix("REBE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate 校验配置不变量，返回首个违反项
func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	if c.SendBuffer <= 0 {
		return errors.New("send_buffer must be positive")
	}
	if c.CommandBuffer <= 0 {
		return errors.New("command_buffer must be positive")
	}
	if c.ReadLimit <= 0 {
		return errors.New("read_limit must be positive")
	}
	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 {
		return errors.New("read_timeout and write_timeout must be positive")
	}
	if c.PingInterval <= 0 || c.PingInterval >= c.ReadTimeout {
		return errors.New("ping_interval must be positive and shorter than read_timeout")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}
