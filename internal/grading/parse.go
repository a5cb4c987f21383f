package grading

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

// ErrUnparseable is returned by Parse when the content is not a JSON object.
var ErrUnparseable = errors.New("grader response is not valid JSON")

var (
	leadingFence  = regexp.MustCompile("^```[a-zA-Z]*\\s*")
	trailingFence = regexp.MustCompile("\\s*```$")
)

type rawCriterion struct {
	Passed  bool     `json:"passed"`
	Score   *float64 `json:"score"`
	Comment string   `json:"comment"`
}

type rawResult struct {
	Checklist map[string]rawCriterion `json:"checklist"`
	Score     *float64                `json:"score"`
	MaxScore  *float64                `json:"maxScore"`
	Feedback  string                  `json:"feedback"`
}

// StripCodeFence removes a surrounding ```json … ``` block, if any.
func StripCodeFence(content string) string {
	s := strings.TrimSpace(content)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = leadingFence.ReplaceAllString(s, "")
	s = trailingFence.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// Parse decodes a grader response and repairs it:
//   - a missing checklist becomes the three standard criteria, failed;
//   - criterion scores are clamped to 0 or 1;
//   - a missing or zero score becomes the sum of the criterion scores;
//   - a missing maxScore becomes the number of criteria;
//   - the score is clamped to [0, maxScore].
func Parse(content []byte) (*Result, error) {
	var raw rawResult
	if err := json.Unmarshal([]byte(StripCodeFence(string(content))), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}

	res := &Result{Feedback: raw.Feedback}

	if len(raw.Checklist) == 0 {
		res.Checklist = standardChecklist("checklist missing")
	} else {
		res.Checklist = make(map[string]Criterion, len(raw.Checklist))
		for k, c := range raw.Checklist {
			score := 0
			if c.Score != nil && *c.Score >= 1 {
				score = 1
			}
			res.Checklist[k] = Criterion{Passed: c.Passed, Score: score, Comment: c.Comment}
		}
	}

	sum := 0
	for _, c := range res.Checklist {
		sum += c.Score
	}

	if raw.MaxScore != nil && *raw.MaxScore >= 1 {
		res.MaxScore = int(math.Round(*raw.MaxScore))
	} else {
		res.MaxScore = len(res.Checklist)
	}

	if raw.Score != nil && *raw.Score != 0 && !math.IsNaN(*raw.Score) {
		res.Score = int(math.Round(*raw.Score))
	} else {
		res.Score = sum
	}
	res.Score = max(0, min(res.Score, res.MaxScore))

	return res, nil
}

func standardChecklist(comment string) map[string]Criterion {
	out := make(map[string]Criterion, len(DefaultCriteria))
	for _, k := range DefaultCriteria {
		out[k] = Criterion{Comment: comment}
	}
	return out
}

// upstreamFallback is used when the provider rejected the request.
func upstreamFallback(err error) *Result {
	comment := "cannot grade"
	return &Result{
		Checklist: map[string]Criterion{
			CriterionGraphMatch:     {Comment: comment},
			CriterionVertexDesc:     {Comment: comment},
			CriterionYInterceptDesc: {Comment: comment},
			CriterionAxisDesc:       {Comment: comment},
		},
		MaxScore: 4,
		Feedback: fmt.Sprintf("The grading request failed.\n%v", err),
		Fallback: true,
	}
}

// parseFallback is used when the grader answered with something that is
// not JSON.
func parseFallback(content []byte) *Result {
	return &Result{
		Checklist: standardChecklist("cannot grade - response parse failed"),
		MaxScore:  3,
		Feedback:  "The grader's response was not in the expected JSON format.\n\nRaw response:\n" + string(content),
		Fallback:  true,
	}
}

// networkFallback is used for transport failures and timeouts.
func networkFallback(err error) *Result {
	return &Result{
		Checklist: standardChecklist("cannot grade - network error"),
		MaxScore:  3,
		Feedback:  fmt.Sprintf("An error occurred while calling the grader.\n%v", err),
		Fallback:  true,
	}
}

func orderedKeys(m map[string]Criterion) []string {
	keys := make([]string, 0, len(m))
	var rest []string
	for _, k := range DefaultCriteria {
		if _, ok := m[k]; ok {
			keys = append(keys, k)
		}
	}
	for k := range m {
		if !isDefaultCriterion(k) {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func isDefaultCriterion(k string) bool {
	for _, d := range DefaultCriteria {
		if d == k {
			return true
		}
	}
	return false
}
