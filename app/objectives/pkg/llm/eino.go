package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/iWorld-y/loyalty_objectives/app/objectives/pkg/logger"
)

const ProviderEino = "eino"

// EinoGenerator 基于 eino openai ChatModel 的实现，兼容任意 OpenAI 协议的服务
type EinoGenerator struct {
	chatModel model.BaseChatModel
}

var _ Generator = (*EinoGenerator)(nil)

// NewEinoGenerator 创建 eino ChatModel
func NewEinoGenerator(ctx context.Context, s *Settings) (*EinoGenerator, error) {
	if s == nil {
		return nil, errors.New("llm settings is nil")
	}
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: s.BaseURL,
		APIKey:  s.APIKey,
		Model:   s.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}
	return &EinoGenerator{chatModel: chatModel}, nil
}

// NewEinoGeneratorWithModel 使用已有的 ChatModel
func NewEinoGeneratorWithModel(cm model.BaseChatModel) *EinoGenerator {
	return &EinoGenerator{chatModel: cm}
}

func (g *EinoGenerator) Generate(ctx context.Context, req *Request) (string, error) {
	messages := []*schema.Message{
		schema.SystemMessage(req.System),
		schema.UserMessage(req.User),
	}

	opts := []model.Option{model.WithTemperature(float32(req.Temperature))}
	if req.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(req.MaxTokens))
	}
	if req.Model != "" {
		opts = append(opts, model.WithModel(req.Model))
	}

	start := time.Now()
	resp, err := g.chatModel.Generate(ctx, messages, opts...)
	if err != nil {
		return "", providerErr(ProviderEino, err)
	}
	if resp == nil {
		return "", providerErr(ProviderEino, errors.New("empty response"))
	}
	logger.Log.Debugf("eino 生成完成，耗时 %s，输出 %d 字节", time.Since(start), len(resp.Content))

	return resp.Content, nil
}
