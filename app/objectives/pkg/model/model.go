package model

// GenerationRequest 一次目标生成请求的输入
type GenerationRequest struct {
	CompanyName        string
	CompetitorAnalysis string // 空串视为未提供
	CustomerAnalysis   string // 空串视为未提供
	Refinement         *Refinement
	OtherInput         map[string]any // 接收但不参与提示词构建
}

// Refinement 修订模式所需的上一版输出与用户反馈，二者必须同时存在
type Refinement struct {
	ExistingOutput string
	Feedback       string
}

// NewRefinement 仅当两个字段都非空时返回修订上下文，否则返回 nil
func NewRefinement(existingOutput, feedback string) *Refinement {
	if existingOutput == "" || feedback == "" {
		return nil
	}
	return &Refinement{ExistingOutput: existingOutput, Feedback: feedback}
}

// IsRefinement 是否为修订模式
func (r *GenerationRequest) IsRefinement() bool {
	return r.Refinement != nil && r.Refinement.ExistingOutput != "" && r.Refinement.Feedback != ""
}

// PromptPair 发送给模型的系统提示词与用户提示词
type PromptPair struct {
	System string
	User   string
}

// ObjectivesDocument 解析后的结果
type ObjectivesDocument struct {
	Narrative  string // [JSON_START] 之前的说明文字
	Structured any    // 两个标记之间的 JSON
}

// Objective 单条会员/CRM 目标，严格模式下用于校验结构
type Objective struct {
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	SuccessMetrics    []string `json:"success_metrics"`
	Timeline          string   `json:"timeline"`
	Priority          string   `json:"priority"`
	RequiredResources []string `json:"required_resources"`
	ExpectedImpact    string   `json:"expected_impact"`
}

// ObjectivesPayload structured 部分的期望结构
type ObjectivesPayload struct {
	LoyaltyCRMObjectives []Objective `json:"loyalty_crm_objectives"`
}
