package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/loyalty_objectives/app/objectives/pkg/extract"
	"github.com/iWorld-y/loyalty_objectives/app/objectives/pkg/llm"
	"github.com/iWorld-y/loyalty_objectives/app/objectives/pkg/model"
	"github.com/iWorld-y/loyalty_objectives/app/objectives/pkg/prompt"
)

// stubGenerator 模拟生成服务
type stubGenerator struct {
	reply    string
	err      error
	got      *llm.Request
	deadline bool
	calls    int
}

func (s *stubGenerator) Generate(ctx context.Context, req *llm.Request) (string, error) {
	s.calls++
	s.got = req
	_, s.deadline = ctx.Deadline()
	return s.reply, s.err
}

func newUseCase(gen llm.Generator, s Settings) *ObjectivesUseCase {
	return NewObjectivesUseCase(gen, &s, log.DefaultLogger)
}

func defaultSettings() Settings {
	return Settings{Model: "gpt-4", Temperature: 0.7, MaxTokens: 2000}
}

func TestObjectivesUseCase_Generate(t *testing.T) {
	gen := &stubGenerator{reply: "Acme should focus on retention.[JSON_START]{\"loyalty_crm_objectives\":[]}[JSON_END]"}
	uc := newUseCase(gen, defaultSettings())

	req := &model.GenerationRequest{CompanyName: "Acme Retail"}
	doc, err := uc.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "Acme should focus on retention.", doc.Narrative)
	obj, ok := doc.Structured.(map[string]any)
	require.True(t, ok)
	assert.Empty(t, obj["loyalty_crm_objectives"])
	assert.Contains(t, obj, "loyalty_crm_objectives")

	require.NotNil(t, gen.got)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, "gpt-4", gen.got.Model)
	assert.Equal(t, 0.7, gen.got.Temperature)
	assert.Equal(t, 2000, gen.got.MaxTokens)
	assert.Equal(t, prompt.BuildSystemPrompt(), gen.got.System)
	assert.Equal(t, prompt.BuildUserPrompt(req), gen.got.User)
	assert.False(t, gen.deadline)
}

func TestObjectivesUseCase_Timeout(t *testing.T) {
	gen := &stubGenerator{reply: "x[JSON_START]{}[JSON_END]"}
	s := defaultSettings()
	s.Timeout = time.Minute
	uc := newUseCase(gen, s)

	_, err := uc.Generate(context.Background(), &model.GenerationRequest{CompanyName: "Acme"})
	require.NoError(t, err)
	assert.True(t, gen.deadline)
}

func TestObjectivesUseCase_ProviderError(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"wrapped", &llm.ProviderError{Provider: "eino", Err: errors.New("network down")}},
		{"plain", errors.New("network down")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc := newUseCase(&stubGenerator{err: tc.err}, defaultSettings())

			doc, err := uc.Generate(context.Background(), &model.GenerationRequest{CompanyName: "Acme"})
			assert.Nil(t, doc)

			var pe *llm.ProviderError
			require.True(t, errors.As(err, &pe))
			assert.Contains(t, err.Error(), "network down")
			assert.False(t, errors.Is(err, extract.ErrExtraction))
		})
	}
}

func TestObjectivesUseCase_ExtractionError(t *testing.T) {
	uc := newUseCase(&stubGenerator{reply: "no markers at all"}, defaultSettings())

	doc, err := uc.Generate(context.Background(), &model.GenerationRequest{CompanyName: "Acme"})
	assert.Nil(t, doc)
	assert.True(t, errors.Is(err, extract.ErrExtraction))
}

func TestObjectivesUseCase_StrictSchema(t *testing.T) {
	s := defaultSettings()
	s.StrictSchema = true

	uc := newUseCase(&stubGenerator{reply: "x[JSON_START]{\"objectives\":[]}[JSON_END]"}, s)
	_, err := uc.Generate(context.Background(), &model.GenerationRequest{CompanyName: "Acme"})
	assert.True(t, errors.Is(err, extract.ErrExtraction))

	uc = newUseCase(&stubGenerator{reply: "x[JSON_START]{\"loyalty_crm_objectives\":[]}[JSON_END]"}, s)
	doc, err := uc.Generate(context.Background(), &model.GenerationRequest{CompanyName: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "x", doc.Narrative)
}

func TestObjectivesUseCase_RefinementPrompt(t *testing.T) {
	gen := &stubGenerator{reply: "x[JSON_START]{}[JSON_END]"}
	uc := newUseCase(gen, defaultSettings())

	_, err := uc.Generate(context.Background(), &model.GenerationRequest{
		CompanyName: "Acme",
		Refinement:  model.NewRefinement("old output", "be bolder"),
	})
	require.NoError(t, err)
	assert.Contains(t, gen.got.User, prompt.RefinementClauseHeader)
	assert.Contains(t, gen.got.User, "be bolder")
}
