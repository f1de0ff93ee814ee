package server

import (
	"context"
	"encoding/json"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/loyalty_objectives/app/objectives/internal/conf"
	"github.com/iWorld-y/loyalty_objectives/app/objectives/internal/service"
	"github.com/iWorld-y/loyalty_objectives/app/objectives/internal/usecase"
	"github.com/iWorld-y/loyalty_objectives/app/objectives/pkg/config"
	"github.com/iWorld-y/loyalty_objectives/app/objectives/pkg/llm"
	"github.com/iWorld-y/loyalty_objectives/app/objectives/pkg/prompt"
)

type stubGenerator struct {
	reply string
	err   error
	got   *llm.Request
}

func (s *stubGenerator) Generate(_ context.Context, req *llm.Request) (string, error) {
	s.got = req
	return s.reply, s.err
}

// slowGenerator 模拟耗时较长的生成调用，遵循 ctx 取消
type slowGenerator struct {
	delay    time.Duration
	deadline bool
}

func (s *slowGenerator) Generate(ctx context.Context, _ *llm.Request) (string, error) {
	_, s.deadline = ctx.Deadline()
	select {
	case <-time.After(s.delay):
		return "ok[JSON_START]{}[JSON_END]", nil
	case <-ctx.Done():
		return "", &llm.ProviderError{Provider: "stub", Err: ctx.Err()}
	}
}

func newTestServer(gen llm.Generator) nethttp.Handler {
	return newTestServerWithConf(defaultServerConf(), gen)
}

func defaultServerConf() *conf.Server {
	return &conf.Server{Http: &conf.HTTP{Addr: "127.0.0.1:0"}}
}

func newTestServerWithConf(c *conf.Server, gen llm.Generator) nethttp.Handler {
	logger := log.DefaultLogger
	settings, err := NewUseCaseSettings(&conf.Generator{})
	if err != nil {
		panic(err)
	}
	uc := usecase.NewObjectivesUseCase(gen, settings, logger)
	srv, err := NewHTTPServer(c, service.NewObjectivesService(uc, logger), logger)
	if err != nil {
		panic(err)
	}
	return srv
}

func post(t *testing.T, h nethttp.Handler, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(nethttp.MethodPost, "/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func TestGenerate_InitialMode(t *testing.T) {
	gen := &stubGenerator{reply: "Acme should focus on retention.[JSON_START]{\"loyalty_crm_objectives\":[]}[JSON_END]"}
	h := newTestServer(gen)

	rec, out := post(t, h, `{"company_name": "Acme Retail"}`)

	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Acme should focus on retention.", out["generated_output"])
	assert.Equal(t, map[string]any{"loyalty_crm_objectives": []any{}}, out["structured_data"])

	require.NotNil(t, gen.got)
	assert.Equal(t, "gpt-4", gen.got.Model)
	assert.Equal(t, 0.7, gen.got.Temperature)
	assert.Equal(t, 2000, gen.got.MaxTokens)
}

func TestGenerate_BothAnalysesInFixedOrder(t *testing.T) {
	gen := &stubGenerator{reply: "ok[JSON_START]{}[JSON_END]"}
	h := newTestServer(gen)

	rec, _ := post(t, h, `{
		"company_name": "Acme Retail",
		"previous_data": {
			"customer_analysis": "Customers want faster rewards.",
			"competitor_analysis": "Rivals offer cashback."
		},
		"other_input_data": {"region": "EU"}
	}`)
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())

	user := gen.got.User
	comp := strings.Index(user, prompt.CompetitorClauseHeader)
	cust := strings.Index(user, prompt.CustomerClauseHeader)
	require.True(t, comp > 0 && cust > 0, user)
	assert.Less(t, comp, cust)
	assert.Contains(t, user, "Rivals offer cashback.")
	assert.Contains(t, user, "Customers want faster rewards.")
}

func TestGenerate_EmptyFeedbackSkipsRefinement(t *testing.T) {
	gen := &stubGenerator{reply: "ok[JSON_START]{}[JSON_END]"}
	h := newTestServer(gen)

	rec, _ := post(t, h, `{
		"company_name": "Acme Retail",
		"current_prompt_data": {"existing_generated_output": "Old objectives", "user_feedback": ""}
	}`)
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	assert.NotContains(t, gen.got.User, prompt.RefinementClauseHeader)
	assert.NotContains(t, gen.got.User, "Old objectives")
}

func TestGenerate_RefinementMode(t *testing.T) {
	gen := &stubGenerator{reply: "ok[JSON_START]{}[JSON_END]"}
	h := newTestServer(gen)

	rec, _ := post(t, h, `{
		"company_name": "Acme Retail",
		"current_prompt_data": {"existing_generated_output": "Old objectives", "user_feedback": "Add a referral goal"}
	}`)
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, gen.got.User, prompt.RefinementClauseHeader)
	assert.Contains(t, gen.got.User, "Add a referral goal")
}

func TestGenerate_ProviderFailure(t *testing.T) {
	h := newTestServer(&stubGenerator{err: &llm.ProviderError{Provider: "eino", Err: errors.New("dial tcp: connection refused")}})

	rec, out := post(t, h, `{"company_name": "Acme Retail"}`)

	assert.Equal(t, nethttp.StatusInternalServerError, rec.Code)
	assert.Contains(t, out["detail"], "connection refused")
	assert.NotContains(t, out, "generated_output")
}

func TestGenerate_ExtractionFailure(t *testing.T) {
	cases := []string{
		"no markers here",
		"text [JSON_START]{\"a\":1,}[JSON_END]",
		"text [JSON_START][1,2][JSON_END]",
	}
	for _, reply := range cases {
		rec, out := post(t, newTestServer(&stubGenerator{reply: reply}), `{"company_name": "Acme Retail"}`)

		assert.Equal(t, nethttp.StatusInternalServerError, rec.Code)
		assert.Contains(t, out["detail"], "response parsing failed")
	}
}

func TestGenerate_LargeIntegersKeepPrecision(t *testing.T) {
	h := newTestServer(&stubGenerator{reply: "ok[JSON_START]{\"budget\":9007199254740993}[JSON_END]"})

	rec, _ := post(t, h, `{"company_name": "Acme Retail"}`)

	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `9007199254740993`)
}

func TestGenerate_Validation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing company", `{}`},
		{"empty company", `{"company_name": ""}`},
		{"company not string", `{"company_name": 42}`},
		{"malformed json", `{"company_name": `},
		{"half prompt data", `{"company_name": "Acme", "current_prompt_data": {"existing_generated_output": "x"}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gen := &stubGenerator{reply: "ok[JSON_START]{}[JSON_END]"}
			rec, out := post(t, newTestServer(gen), tc.body)

			assert.Equal(t, nethttp.StatusUnprocessableEntity, rec.Code)
			assert.NotEmpty(t, out["detail"])
			assert.Nil(t, gen.got)
		})
	}
}

func TestGenerate_NoRequestDeadlineByDefault(t *testing.T) {
	gen := &slowGenerator{delay: 1500 * time.Millisecond}
	h := newTestServer(gen)

	rec, out := post(t, h, `{"company_name": "Acme Retail"}`)

	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "ok", out["generated_output"])
	assert.False(t, gen.deadline)
}

func TestGenerate_ConfiguredRequestDeadline(t *testing.T) {
	gen := &slowGenerator{delay: time.Second}
	h := newTestServerWithConf(&conf.Server{Http: &conf.HTTP{Timeout: "50ms"}}, gen)

	rec, out := post(t, h, `{"company_name": "Acme Retail"}`)

	assert.True(t, gen.deadline)
	assert.Equal(t, nethttp.StatusInternalServerError, rec.Code)
	assert.Contains(t, out["detail"], "context deadline exceeded")
}

func TestNewHTTPServer_InvalidTimeout(t *testing.T) {
	uc := usecase.NewObjectivesUseCase(&stubGenerator{}, &usecase.Settings{}, log.DefaultLogger)
	svc := service.NewObjectivesService(uc, log.DefaultLogger)

	for _, v := range []string{"120", "soon", "-1s"} {
		srv, err := NewHTTPServer(&conf.Server{Http: &conf.HTTP{Timeout: v}}, svc, log.DefaultLogger)
		assert.Nil(t, srv, v)
		require.Error(t, err, v)
		assert.Contains(t, err.Error(), "server.http.timeout")
	}
}

func TestNewUseCaseSettings(t *testing.T) {
	s, err := NewUseCaseSettings(&conf.Generator{})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4", s.Model)
	assert.Equal(t, 0.7, s.Temperature)
	assert.Equal(t, 2000, s.MaxTokens)
	assert.Equal(t, time.Duration(0), s.Timeout)

	s, err = NewUseCaseSettings(&conf.Generator{Temperature: config.Float64(0), Timeout: "90s"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.Temperature)
	assert.Equal(t, 90*time.Second, s.Timeout)

	_, err = NewUseCaseSettings(&conf.Generator{Timeout: "90"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generator.timeout")
}
