package extract

import (
	"encoding/json"
	"fmt"

	"github.com/iWorld-y/loyalty_objectives/app/objectives/pkg/model"
)

const objectivesKey = "loyalty_crm_objectives"

var (
	stringFields = []string{"title", "description", "timeline", "priority", "expected_impact"}
	listFields   = []string{"success_metrics", "required_resources"}
)

// RequireObject structured 必须是 JSON 对象
func RequireObject(structured any) (map[string]any, error) {
	obj, ok := structured.(map[string]any)
	if !ok {
		return nil, fail(fmt.Sprintf("structured data is %s, want object", jsonKind(structured)), nil)
	}
	return obj, nil
}

// Validate 严格模式下的结构校验，返回类型化的目标列表
func Validate(structured any) (*model.ObjectivesPayload, error) {
	obj, err := RequireObject(structured)
	if err != nil {
		return nil, err
	}
	rawList, ok := obj[objectivesKey]
	if !ok {
		return nil, fail("missing "+objectivesKey, nil)
	}
	items, ok := rawList.([]any)
	if !ok {
		return nil, fail(fmt.Sprintf("%s is %s, want array", objectivesKey, jsonKind(rawList)), nil)
	}

	payload := &model.ObjectivesPayload{LoyaltyCRMObjectives: make([]model.Objective, 0, len(items))}
	for i, item := range items {
		o, err := validateObjective(item)
		if err != nil {
			return nil, fail(fmt.Sprintf("%s[%d]", objectivesKey, i), err)
		}
		payload.LoyaltyCRMObjectives = append(payload.LoyaltyCRMObjectives, o)
	}
	return payload, nil
}

func validateObjective(item any) (model.Objective, error) {
	m, ok := item.(map[string]any)
	if !ok {
		return model.Objective{}, fmt.Errorf("is %s, want object", jsonKind(item))
	}

	strs := make(map[string]string, len(stringFields))
	for _, f := range stringFields {
		s, ok := m[f].(string)
		if !ok {
			return model.Objective{}, fmt.Errorf("field %q is %s, want string", f, jsonKind(m[f]))
		}
		strs[f] = s
	}

	lists := make(map[string][]string, len(listFields))
	for _, f := range listFields {
		arr, ok := m[f].([]any)
		if !ok {
			return model.Objective{}, fmt.Errorf("field %q is %s, want array", f, jsonKind(m[f]))
		}
		out := make([]string, 0, len(arr))
		for j, v := range arr {
			s, ok := v.(string)
			if !ok {
				return model.Objective{}, fmt.Errorf("field %q[%d] is %s, want string", f, j, jsonKind(v))
			}
			out = append(out, s)
		}
		lists[f] = out
	}

	return model.Objective{
		Title:             strs["title"],
		Description:       strs["description"],
		SuccessMetrics:    lists["success_metrics"],
		Timeline:          strs["timeline"],
		Priority:          strs["priority"],
		RequiredResources: lists["required_resources"],
		ExpectedImpact:    strs["expected_impact"],
	}, nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
