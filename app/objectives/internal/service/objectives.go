package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/loyalty_objectives/app/objectives/internal/usecase"
	"github.com/iWorld-y/loyalty_objectives/app/objectives/pkg/extract"
	"github.com/iWorld-y/loyalty_objectives/app/objectives/pkg/llm"
	"github.com/iWorld-y/loyalty_objectives/app/objectives/pkg/model"
)

const (
	ReasonValidation = "VALIDATION_ERROR"
	ReasonProvider   = "PROVIDER_ERROR"
	ReasonExtraction = "EXTRACTION_FAILED"
)

// PreviousData 之前步骤产出的分析
type PreviousData struct {
	CompetitorAnalysis *string `json:"competitor_analysis"`
	CustomerAnalysis   *string `json:"customer_analysis"`
}

// CurrentPromptData 修订模式输入，两个字段必须同时提供
type CurrentPromptData struct {
	ExistingGeneratedOutput *string `json:"existing_generated_output"`
	UserFeedback            *string `json:"user_feedback"`
}

// GenerateRequest POST /generate 请求体
type GenerateRequest struct {
	CompanyName       *string            `json:"company_name"`
	PreviousData      *PreviousData      `json:"previous_data"`
	CurrentPromptData *CurrentPromptData `json:"current_prompt_data"`
	OtherInputData    map[string]any     `json:"other_input_data"`
}

// Redact 访问日志中输出的请求摘要，只保留公司名和各可选字段是否提供
func (r *GenerateRequest) Redact() string {
	if r == nil {
		return "<nil>"
	}
	var competitor, customer bool
	if p := r.PreviousData; p != nil {
		competitor = p.CompetitorAnalysis != nil && *p.CompetitorAnalysis != ""
		customer = p.CustomerAnalysis != nil && *p.CustomerAnalysis != ""
	}
	return fmt.Sprintf("company_name=%q competitor_analysis=%t customer_analysis=%t refinement=%t other_input_keys=%d",
		deref(r.CompanyName), competitor, customer, r.CurrentPromptData != nil, len(r.OtherInputData))
}

// GenerateReply POST /generate 响应体
type GenerateReply struct {
	GeneratedOutput string         `json:"generated_output"`
	StructuredData  map[string]any `json:"structured_data"`
}

type ObjectivesService struct {
	uc  *usecase.ObjectivesUseCase
	log *log.Helper
}

func NewObjectivesService(uc *usecase.ObjectivesUseCase, logger log.Logger) *ObjectivesService {
	return &ObjectivesService{
		uc:  uc,
		log: log.NewHelper(logger),
	}
}

func (s *ObjectivesService) Generate(ctx context.Context, req *GenerateRequest) (*GenerateReply, error) {
	in, err := toGenerationRequest(req)
	if err != nil {
		return nil, err
	}

	doc, err := s.uc.Generate(ctx, in)
	if err != nil {
		return nil, toHTTPError(err)
	}

	structured, err := extract.RequireObject(doc.Structured)
	if err != nil {
		return nil, toHTTPError(err)
	}

	return &GenerateReply{
		GeneratedOutput: doc.Narrative,
		StructuredData:  structured,
	}, nil
}

func validationError(msg string) error {
	return kerrors.New(http.StatusUnprocessableEntity, ReasonValidation, msg)
}

// toGenerationRequest 请求体校验并转换为领域对象，空串视为未提供
func toGenerationRequest(req *GenerateRequest) (*model.GenerationRequest, error) {
	if req == nil || req.CompanyName == nil {
		return nil, validationError("company_name: field required")
	}
	if *req.CompanyName == "" {
		return nil, validationError("company_name: must not be empty")
	}

	out := &model.GenerationRequest{
		CompanyName: *req.CompanyName,
		OtherInput:  req.OtherInputData,
	}
	if p := req.PreviousData; p != nil {
		out.CompetitorAnalysis = deref(p.CompetitorAnalysis)
		out.CustomerAnalysis = deref(p.CustomerAnalysis)
	}
	if c := req.CurrentPromptData; c != nil {
		if c.ExistingGeneratedOutput == nil {
			return nil, validationError("current_prompt_data.existing_generated_output: field required")
		}
		if c.UserFeedback == nil {
			return nil, validationError("current_prompt_data.user_feedback: field required")
		}
		out.Refinement = model.NewRefinement(*c.ExistingGeneratedOutput, *c.UserFeedback)
	}
	return out, nil
}

func toHTTPError(err error) error {
	var pe *llm.ProviderError
	switch {
	case errors.As(err, &pe):
		return kerrors.InternalServer(ReasonProvider, err.Error()).WithCause(err)
	case errors.Is(err, extract.ErrExtraction):
		return kerrors.InternalServer(ReasonExtraction, err.Error()).WithCause(err)
	default:
		return kerrors.InternalServer("UNKNOWN", err.Error()).WithCause(err)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
