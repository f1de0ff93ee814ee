package server

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/loyalty_objectives/app/objectives/internal/conf"
	"github.com/iWorld-y/loyalty_objectives/app/objectives/internal/usecase"
	"github.com/iWorld-y/loyalty_objectives/app/objectives/pkg/config"
	"github.com/iWorld-y/loyalty_objectives/app/objectives/pkg/llm"
	"github.com/iWorld-y/loyalty_objectives/app/objectives/pkg/llm/factory"
	olog "github.com/iWorld-y/loyalty_objectives/app/objectives/pkg/logger"
)

// toLLMConfig 将 internal/conf.Generator 转换为 pkg/config.LLMConfig
func toLLMConfig(c *conf.Generator) *config.LLMConfig {
	cfg := &config.LLMConfig{}
	if c != nil {
		cfg.Provider = c.Provider
		cfg.BaseURL = c.BaseUrl
		cfg.APIKey = c.ApiKey
		cfg.APIKeyEnv = c.ApiKeyEnv
		cfg.Model = c.Model
		if c.Temperature != nil {
			cfg.Temperature = config.Float64(*c.Temperature)
		}
		cfg.MaxTokens = int(c.MaxTokens)
		cfg.StrictSchema = c.StrictSchema
	}
	cfg.ApplyDefaults()
	return cfg
}

// NewGenerator 初始化生成服务客户端
func NewGenerator(c *conf.Generator, lc *conf.Log, logger log.Logger) (llm.Generator, error) {
	if lc != nil {
		if err := olog.InitLogger(lc.Level, lc.File); err != nil {
			log.NewHelper(logger).Errorf("Failed to init generator logger: %v", err)
			_ = olog.InitLogger("info", "") // 降级处理
		}
	}

	cfg := toLLMConfig(c)
	gen, err := factory.NewGenerator(context.Background(), cfg)
	if err != nil {
		log.NewHelper(logger).Errorf("Failed to init generator: %v", err)
		return nil, err
	}
	log.NewHelper(logger).Infof("generator ready provider=%s model=%s", cfg.Provider, cfg.Model)
	return gen, nil
}

// NewUseCaseSettings 每次调用使用的模型参数，timeout 未配置时不限制
func NewUseCaseSettings(c *conf.Generator) (*usecase.Settings, error) {
	cfg := toLLMConfig(c)
	s := &usecase.Settings{
		Model:        cfg.Model,
		Temperature:  cfg.TemperatureValue(),
		MaxTokens:    cfg.MaxTokens,
		StrictSchema: cfg.StrictSchema,
	}
	if c != nil {
		d, err := parseTimeout("generator.timeout", c.Timeout)
		if err != nil {
			return nil, err
		}
		s.Timeout = d
	}
	return s, nil
}

// parseTimeout 空串表示不限制，格式错误直接报错
func parseTimeout(key, v string) (time.Duration, error) {
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", key, v)
	}
	return d, nil
}
