package diagnosis

// Classifier is a rule-based misconception classifier.
// Returns a misconception ID and confidence (0.0–1.0), or ("", 0) if the
// rule doesn't apply.
type Classifier interface {
	Name() string
	Classify(input *Input) (string, float64)
}

// DefaultClassifiers returns classifiers in priority order. Sign errors
// come before swaps and expanded-form readings since they are the most
// common slip.
func DefaultClassifiers() []Classifier {
	return []Classifier{
		&ShapeClassifier{},
		&VertexSignClassifier{},
		&VertexSwapClassifier{},
		&ExpandedFormClassifier{},
		&YInterceptClassifier{},
		&GraphClassifier{},
	}
}

// RunClassifiers executes classifiers in order.
// Returns the first match, or ("", 0, "") if no rules apply.
func RunClassifiers(classifiers []Classifier, input *Input) (string, float64, string) {
	for _, c := range classifiers {
		id, conf := c.Classify(input)
		if id != "" {
			return id, conf, c.Name()
		}
	}
	return "", 0, ""
}

// Diagnose runs the default classifiers on a wrong answer.
func Diagnose(input *Input) *Result {
	id, conf, name := RunClassifiers(DefaultClassifiers(), input)
	m := GetMisconception(id)
	if m == nil {
		return &Result{Category: CategoryUnclassified}
	}
	return &Result{
		Category:        CategoryMisconception,
		MisconceptionID: m.ID,
		Label:           m.Label,
		Hint:            m.Hint,
		Confidence:      conf,
		ClassifierName:  name,
	}
}
