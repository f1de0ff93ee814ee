package llm

import (
	"context"
	"fmt"
)

// Generator 文本生成服务的抽象，一次调用对应一次远程请求，不重试、不流式
type Generator interface {
	Generate(ctx context.Context, req *Request) (string, error)
}

// Request 单次生成调用的参数
type Request struct {
	Model       string
	Temperature float64
	MaxTokens   int
	System      string
	User        string
}

// Settings 创建具体实现所需的基础配置
type Settings struct {
	Provider string
	APIKey   string
	BaseURL  string
	Model    string
}

// ProviderError 远程生成调用失败（网络、鉴权、配额、响应格式异常）
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider call failed: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func providerErr(provider string, err error) error {
	return &ProviderError{Provider: provider, Err: err}
}
