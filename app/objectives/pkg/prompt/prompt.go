package prompt

import (
	"strings"

	"github.com/iWorld-y/loyalty_objectives/app/objectives/pkg/model"
)

// 输出中包裹 JSON 部分的标记
const (
	JSONStartMarker = "[JSON_START]"
	JSONEndMarker   = "[JSON_END]"
)

// 用户提示词各段落的引导语
const (
	CompetitorClauseHeader = "Competitor analysis:"
	CustomerClauseHeader   = "Customer analysis:"
	RefinementClauseHeader = "Previous output:"
	FeedbackClauseHeader   = "User feedback:"
)

const systemPrompt = `You are an expert in loyalty programs and CRM strategy. Your task is to define clear, actionable loyalty and CRM objectives for a company.

When defining the objectives, consider:
1. The competitive landscape and how competitors reward and retain their customers
2. Customer behaviour, needs and pain points
3. The business goals the loyalty program and CRM activities should support
4. Measurable success metrics and realistic timelines
5. The resources required and the expected impact on the business

Your answer must have two parts:
1. A free-text explanation of your analysis and the reasoning behind each objective.
2. A JSON object with exactly this structure:
{
  "loyalty_crm_objectives": [
    {
      "title": "string",
      "description": "string",
      "success_metrics": ["string"],
      "timeline": "string",
      "priority": "string",
      "required_resources": ["string"],
      "expected_impact": "string"
    }
  ]
}

Put the JSON object between the markers ` + JSONStartMarker + ` and ` + JSONEndMarker + `, spelled exactly like that, after the explanation. Do not wrap the JSON in markdown code fences and do not write anything after ` + JSONEndMarker + `.`

// BuildSystemPrompt 返回固定的系统提示词
func BuildSystemPrompt() string {
	return systemPrompt
}

// BuildUserPrompt 根据请求渲染用户提示词。
// 段落顺序固定：公司、竞品分析、客户分析、修订上下文；空串等同于未提供。
func BuildUserPrompt(req *model.GenerationRequest) string {
	var sb strings.Builder
	sb.WriteString("Define loyalty and CRM objectives for ")
	sb.WriteString(req.CompanyName)
	sb.WriteString(".")

	if req.CompetitorAnalysis != "" {
		sb.WriteString("\n\n" + CompetitorClauseHeader + "\n")
		sb.WriteString(req.CompetitorAnalysis)
	}
	if req.CustomerAnalysis != "" {
		sb.WriteString("\n\n" + CustomerClauseHeader + "\n")
		sb.WriteString(req.CustomerAnalysis)
	}
	if req.IsRefinement() {
		sb.WriteString("\n\n" + RefinementClauseHeader + "\n")
		sb.WriteString(req.Refinement.ExistingOutput)
		sb.WriteString("\n\n" + FeedbackClauseHeader + "\n")
		sb.WriteString(req.Refinement.Feedback)
		sb.WriteString("\n\nRevise the previous output according to the user feedback and return the complete answer in the same two-part format.")
	}

	return sb.String()
}

// Build 生成一次请求的提示词对
func Build(req *model.GenerationRequest) model.PromptPair {
	return model.PromptPair{
		System: BuildSystemPrompt(),
		User:   BuildUserPrompt(req),
	}
}
