package llm

import (
	"context"
	"errors"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/iWorld-y/loyalty_objectives/app/objectives/pkg/logger"
)

const ProviderOpenAI = "openai"

// OpenAIGenerator 使用官方 openai-go SDK（chat completions）
type OpenAIGenerator struct {
	Model string
	Opts  []option.RequestOption
}

var _ Generator = (*OpenAIGenerator)(nil)

func NewOpenAIGenerator(s *Settings) (*OpenAIGenerator, error) {
	if s == nil {
		return nil, errors.New("llm settings is nil")
	}
	// SDK 默认会重试两次，这里一次调用只发一次请求
	opts := []option.RequestOption{
		option.WithAPIKey(s.APIKey),
		option.WithMaxRetries(0),
	}
	if s.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(s.BaseURL))
	}
	return &OpenAIGenerator{Model: s.Model, Opts: opts}, nil
}

func (o *OpenAIGenerator) Generate(ctx context.Context, req *Request) (string, error) {
	client := openai.NewClient(o.Opts...)

	modelName := req.Model
	if modelName == "" {
		modelName = o.Model
	}

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(modelName),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	start := time.Now()
	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", providerErr(ProviderOpenAI, err)
	}
	if len(resp.Choices) == 0 {
		return "", providerErr(ProviderOpenAI, errors.New("empty choices"))
	}
	logger.Log.Debugf("openai 生成完成，耗时 %s，finish_reason=%s", time.Since(start), resp.Choices[0].FinishReason)

	return resp.Choices[0].Message.Content, nil
}
