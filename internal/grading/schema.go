package grading

import "github.com/abhisek/parabola/internal/llm"

var criterionSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"passed":  map[string]any{"type": "boolean"},
		"score":   map[string]any{"type": "number", "description": "0 or 1"},
		"comment": map[string]any{"type": "string"},
	},
}

// ResultSchema describes the grader's JSON answer. Only feedback is
// required; Parse fills in whatever else is missing.
var ResultSchema = &llm.Schema{
	Name:        "grading-result",
	Description: "Checklist-based grading of a student's explanation of a quadratic graph",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"checklist": map[string]any{
				"type": "object",
				"properties": map[string]any{
					CriterionVertex:     criterionSchema,
					CriterionYIntercept: criterionSchema,
					CriterionShape:      criterionSchema,
				},
			},
			"score": map[string]any{
				"type":        "number",
				"description": "Sum of the checklist scores",
			},
			"maxScore": map[string]any{
				"type":        "number",
				"description": "Number of checklist items",
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "Overall feedback and what the student could explain further",
			},
		},
		"required": []any{"feedback"},
	},
}
