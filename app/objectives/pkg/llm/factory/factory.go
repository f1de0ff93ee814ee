package factory

import (
	"context"
	"fmt"

	"github.com/iWorld-y/loyalty_objectives/app/objectives/pkg/config"
	"github.com/iWorld-y/loyalty_objectives/app/objectives/pkg/llm"
	"github.com/iWorld-y/loyalty_objectives/app/objectives/pkg/logger"
)

// NewGenerator 根据配置创建生成服务实例
func NewGenerator(ctx context.Context, cfg *config.LLMConfig) (llm.Generator, error) {
	provider := cfg.Provider
	if provider == "" {
		provider = config.DefaultProvider
	}

	settings := &llm.Settings{
		Provider: provider,
		APIKey:   cfg.ResolveAPIKey(),
		BaseURL:  cfg.BaseURL,
		Model:    cfg.Model,
	}
	if settings.APIKey == "" {
		// 不阻止启动，调用时由服务端返回鉴权失败
		logger.Log.Warnf("未找到 %s 的 API Key（api_key / %s），生成调用将会失败", provider, cfg.APIKeyEnv)
	}

	switch provider {
	case llm.ProviderEino:
		return llm.NewEinoGenerator(ctx, settings)
	case llm.ProviderOpenAI:
		return llm.NewOpenAIGenerator(settings)
	case llm.ProviderGemini:
		return llm.NewGeminiGenerator(settings)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", provider)
	}
}
