package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/iWorld-y/loyalty_objectives/app/objectives/pkg/model"
	"github.com/iWorld-y/loyalty_objectives/app/objectives/pkg/prompt"
)

// ErrExtraction 所有解析失败都可以用 errors.Is 判断
var ErrExtraction = errors.New("response parsing failed")

// ExtractionError 模型输出不符合 "说明 + [JSON_START]JSON[JSON_END]" 约定
type ExtractionError struct {
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrExtraction, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrExtraction, e.Reason)
}

func (e *ExtractionError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrExtraction, e.Err}
	}
	return []error{ErrExtraction}
}

// decoder 数字解码为 json.Number，保持大整数精度
var decoder = sonic.Config{
	EscapeHTML:       true,
	SortMapKeys:      true,
	CompactMarshaler: true,
	CopyString:       true,
	ValidateString:   true,
	UseNumber:        true,
}.Froze()

func fail(reason string, err error) error {
	return &ExtractionError{Reason: reason, Err: err}
}

// Extract 按标记拆分模型输出，标记前为说明文字，标记之间按 JSON 解析。
// 任何失败都返回 *ExtractionError，不会返回部分结果。
func Extract(raw string) (*model.ObjectivesDocument, error) {
	start := strings.Index(raw, prompt.JSONStartMarker)
	if start < 0 {
		return nil, fail(prompt.JSONStartMarker+" marker not found", nil)
	}
	end := strings.Index(raw, prompt.JSONEndMarker)
	if end < 0 {
		return nil, fail(prompt.JSONEndMarker+" marker not found", nil)
	}
	bodyStart := start + len(prompt.JSONStartMarker)
	if end < bodyStart {
		return nil, fail(prompt.JSONEndMarker+" appears before "+prompt.JSONStartMarker, nil)
	}

	slice := strings.TrimSpace(raw[bodyStart:end])
	if slice == "" {
		return nil, fail("empty JSON section", nil)
	}

	var structured any
	if err := decoder.UnmarshalFromString(slice, &structured); err != nil {
		return nil, fail("invalid JSON section", err)
	}

	return &model.ObjectivesDocument{
		Narrative:  strings.TrimSpace(raw[:start]),
		Structured: structured,
	}, nil
}
