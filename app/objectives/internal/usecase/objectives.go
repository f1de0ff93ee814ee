package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/loyalty_objectives/app/objectives/pkg/extract"
	"github.com/iWorld-y/loyalty_objectives/app/objectives/pkg/llm"
	"github.com/iWorld-y/loyalty_objectives/app/objectives/pkg/model"
	"github.com/iWorld-y/loyalty_objectives/app/objectives/pkg/prompt"
)

// Settings 每次生成调用使用的固定参数
type Settings struct {
	Model        string
	Temperature  float64
	MaxTokens    int
	Timeout      time.Duration // 0 表示不额外限制
	StrictSchema bool
}

// ObjectivesUseCase 目标生成流程：构建提示词 -> 调用模型 -> 解析输出
type ObjectivesUseCase struct {
	gen      llm.Generator
	settings Settings
	log      *log.Helper
}

// NewObjectivesUseCase 创建目标生成业务逻辑实例
func NewObjectivesUseCase(gen llm.Generator, s *Settings, logger log.Logger) *ObjectivesUseCase {
	return &ObjectivesUseCase{gen: gen, settings: *s, log: log.NewHelper(logger)}
}

// Generate 执行一次生成。失败时返回 *llm.ProviderError 或 *extract.ExtractionError。
func (uc *ObjectivesUseCase) Generate(ctx context.Context, req *model.GenerationRequest) (*model.ObjectivesDocument, error) {
	pair := prompt.Build(req)
	mode := "initial"
	if req.IsRefinement() {
		mode = "refinement"
	}
	uc.log.WithContext(ctx).Infof("generating objectives company=%q mode=%s", req.CompanyName, mode)
	uc.log.WithContext(ctx).Debugf("user prompt: %s", pair.User)

	if uc.settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.settings.Timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := uc.gen.Generate(ctx, &llm.Request{
		Model:       uc.settings.Model,
		Temperature: uc.settings.Temperature,
		MaxTokens:   uc.settings.MaxTokens,
		System:      pair.System,
		User:        pair.User,
	})
	if err != nil {
		var pe *llm.ProviderError
		if !errors.As(err, &pe) {
			err = &llm.ProviderError{Provider: "unknown", Err: err}
		}
		uc.log.WithContext(ctx).Errorf("provider call failed after %s: %v", time.Since(start), err)
		return nil, err
	}
	uc.log.WithContext(ctx).Infof("provider call finished in %s", time.Since(start))

	doc, err := extract.Extract(raw)
	if err != nil {
		uc.log.WithContext(ctx).Warnf("extraction failed: %v", err)
		return nil, err
	}
	if uc.settings.StrictSchema {
		if _, err := extract.Validate(doc.Structured); err != nil {
			uc.log.WithContext(ctx).Warnf("schema validation failed: %v", err)
			return nil, err
		}
	}
	return doc, nil
}
