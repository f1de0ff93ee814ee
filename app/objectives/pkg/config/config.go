package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultProvider    = "eino"
	DefaultModel       = "gpt-4"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 2000
	DefaultAPIKeyEnv   = "OPENAI_API_KEY"
	GeminiAPIKeyEnv    = "GEMINI_API_KEY"
)

// Config 命令行工具配置
type Config struct {
	LLM LLMConfig `yaml:"llm"`
	Log LogConfig `yaml:"log"`
}

// LLMConfig 生成服务相关配置
type LLMConfig struct {
	Provider     string   `yaml:"provider"` // eino | openai | gemini
	BaseURL      string   `yaml:"base_url"`
	APIKey       string   `yaml:"api_key"`
	APIKeyEnv    string   `yaml:"api_key_env"`
	Model        string   `yaml:"model"`
	Temperature  *float64 `yaml:"temperature"` // 未配置时取默认值，0 为合法取值
	MaxTokens    int      `yaml:"max_tokens"`
	Timeout      int      `yaml:"timeout"` // 秒，0 表示不限制
	StrictSchema bool     `yaml:"strict_schema"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// LoadConfig 从指定路径加载配置，未填写的字段使用默认值
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.LLM.ApplyDefaults()

	return &cfg, nil
}

// ApplyDefaults 填充缺省值
func (c *LLMConfig) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Temperature == nil {
		c.Temperature = Float64(DefaultTemperature)
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.APIKeyEnv == "" {
		if c.Provider == "gemini" {
			c.APIKeyEnv = GeminiAPIKeyEnv
		} else {
			c.APIKeyEnv = DefaultAPIKeyEnv
		}
	}
}

// ResolveAPIKey 优先使用配置中的 api_key，否则读取 api_key_env 指向的环境变量。
// 返回空串时由调用方决定如何处理，生成调用会因缺少凭证而失败。
func (c *LLMConfig) ResolveAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	if c.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.APIKeyEnv)
}

// Float64 返回 v 的指针
func Float64(v float64) *float64 {
	return &v
}

// TemperatureValue 返回生效的 temperature
func (c *LLMConfig) TemperatureValue() float64 {
	if c.Temperature == nil {
		return DefaultTemperature
	}
	return *c.Temperature
}

// CallTimeout 单次生成调用的超时
func (c *LLMConfig) CallTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}
