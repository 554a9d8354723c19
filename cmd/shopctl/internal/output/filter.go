package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hashicorp/go-bexpr"
)

// ListFilter keeps list entries matching a go-bexpr expression such as
// `status == "pending"` or `user.role != "admin"`.
type ListFilter struct {
	expr      string
	evaluator *bexpr.Evaluator
}

// CompileFilter parses expr. Callers compile before sending a request so a
// typo never costs a round trip.
func CompileFilter(expr string) (*ListFilter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("filter expression must not be empty")
	}
	evaluator, err := bexpr.CreateEvaluator(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", expr, err)
	}
	return &ListFilter{expr: expr, evaluator: evaluator}, nil
}

func (f *ListFilter) String() string {
	return f.expr
}

// Apply filters the lists in body: the body itself when it is an array, or
// any array under an envelope key. Entries the expression cannot be
// evaluated against (missing selector, not an object) are dropped.
func (f *ListFilter) Apply(body []byte) ([]byte, int, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, 0, fmt.Errorf("response is not JSON, cannot filter")
	}

	kept, lists := 0, 0
	keep := func(items []any) []any {
		lists++
		out := make([]any, 0, len(items))
		for _, item := range items {
			if ok, err := f.evaluator.Evaluate(item); err == nil && ok {
				out = append(out, item)
			}
		}
		kept += len(out)
		return out
	}

	switch v := doc.(type) {
	case []any:
		doc = keep(v)
	case map[string]any:
		for key, val := range v {
			if items, ok := val.([]any); ok {
				v[key] = keep(items)
			}
		}
	}
	if lists == 0 {
		return nil, 0, fmt.Errorf("response has no list to filter")
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, 0, err
	}
	return out, kept, nil
}
