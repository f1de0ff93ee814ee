package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/yuin/goldmark"

	"github.com/iWorld-y/loyalty_objectives/app/objectives/pkg/model"
)

// StructuredJSON 缩进输出 structured 部分
func StructuredJSON(doc *model.ObjectivesDocument) (string, error) {
	b, err := sonic.ConfigStd.MarshalIndent(doc.Structured, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal structured data: %w", err)
	}
	return string(b), nil
}

// Markdown 说明文字 + JSON 代码块
func Markdown(doc *model.ObjectivesDocument) (string, error) {
	js, err := StructuredJSON(doc)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString(doc.Narrative)
	sb.WriteString("\n\n```json\n")
	sb.WriteString(js)
	sb.WriteString("\n```\n")
	return sb.String(), nil
}

// HTML 说明文字按 Markdown 渲染，JSON 放在 <pre> 中
func HTML(doc *model.ObjectivesDocument) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(doc.Narrative), &buf); err != nil {
		return "", fmt.Errorf("render narrative: %w", err)
	}
	js, err := StructuredJSON(doc)
	if err != nil {
		return "", err
	}
	buf.WriteString("<pre><code class=\"language-json\">")
	buf.WriteString(html.EscapeString(js))
	buf.WriteString("</code></pre>\n")
	return buf.String(), nil
}
