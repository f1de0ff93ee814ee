package llm

import (
	"context"
	"errors"
	"time"

	"google.golang.org/genai"

	"github.com/iWorld-y/loyalty_objectives/app/objectives/pkg/logger"
)

const ProviderGemini = "gemini"

// GeminiGenerator 使用 Google GenAI SDK 调用 Gemini
type GeminiGenerator struct {
	apiKey  string
	baseURL string
	model   string
}

var _ Generator = (*GeminiGenerator)(nil)

func NewGeminiGenerator(s *Settings) (*GeminiGenerator, error) {
	if s == nil {
		return nil, errors.New("llm settings is nil")
	}
	return &GeminiGenerator{apiKey: s.APIKey, baseURL: s.BaseURL, model: s.Model}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, req *Request) (string, error) {
	// 客户端在调用时创建，缺少凭证时表现为本次调用失败
	cfg := &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if g.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return "", providerErr(ProviderGemini, err)
	}

	modelName := req.Model
	if modelName == "" {
		modelName = g.model
	}

	genCfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
		Temperature:       genai.Ptr(float32(req.Temperature)),
	}
	if req.MaxTokens > 0 {
		genCfg.MaxOutputTokens = int32(req.MaxTokens)
	}

	start := time.Now()
	resp, err := client.Models.GenerateContent(ctx, modelName, genai.Text(req.User), genCfg)
	if err != nil {
		return "", providerErr(ProviderGemini, err)
	}
	if len(resp.Candidates) == 0 {
		return "", providerErr(ProviderGemini, errors.New("empty candidates"))
	}
	logger.Log.Debugf("gemini 生成完成，耗时 %s", time.Since(start))

	return resp.Text(), nil
}
