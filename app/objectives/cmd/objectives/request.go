package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/iWorld-y/loyalty_objectives/app/objectives/pkg/model"
)

// requestFile 与 POST /generate 请求体字段一致，YAML 或 JSON 均可
type requestFile struct {
	CompanyName  string `yaml:"company_name"`
	PreviousData *struct {
		CompetitorAnalysis string `yaml:"competitor_analysis"`
		CustomerAnalysis   string `yaml:"customer_analysis"`
	} `yaml:"previous_data"`
	CurrentPromptData *struct {
		ExistingGeneratedOutput string `yaml:"existing_generated_output"`
		UserFeedback            string `yaml:"user_feedback"`
	} `yaml:"current_prompt_data"`
	OtherInputData map[string]any `yaml:"other_input_data"`
}

func loadRequest(path string) (*model.GenerationRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var rf requestFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parse request file: %w", err)
	}
	if rf.CompanyName == "" {
		return nil, fmt.Errorf("request file %s: company_name is required", path)
	}

	req := &model.GenerationRequest{
		CompanyName: rf.CompanyName,
		OtherInput:  rf.OtherInputData,
	}
	if rf.PreviousData != nil {
		req.CompetitorAnalysis = rf.PreviousData.CompetitorAnalysis
		req.CustomerAnalysis = rf.PreviousData.CustomerAnalysis
	}
	if rf.CurrentPromptData != nil {
		req.Refinement = model.NewRefinement(rf.CurrentPromptData.ExistingGeneratedOutput, rf.CurrentPromptData.UserFeedback)
	}
	return req, nil
}
