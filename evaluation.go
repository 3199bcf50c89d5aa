package docschema

import (
	"regexp"
	"slices"
)

// EvaluationScores holds the score names an evaluation model matched in a
// document and, in parallel, how often each matched.
type EvaluationScores struct {
	Names  []string `json:"names"`
	Counts []int    `json:"counts"`
}

// CountStrings returns Counts as decimal strings, parallel to Names.
func (s EvaluationScores) CountStrings() []string {
	return TextRuns{Texts: s.Names, Counts: s.Counts}.CountStrings()
}

// ScorePattern assigns a score name to text matching a pattern.
type ScorePattern struct {
	Score   string
	Pattern *regexp.Regexp
}

// EvaluationModel is a named, caller-defined scoring category.
type EvaluationModel struct {
	Name     string
	Patterns []ScorePattern
}

// ParseEvaluationModel compiles a model from a score name to regular
// expression table. Scores are ordered by name.
func ParseEvaluationModel(name string, patterns map[string]string) (*EvaluationModel, error) {
	if name == "" {
		return nil, Errorf(EINVALID, "evaluation model name required")
	}
	scores := make([]string, 0, len(patterns))
	for score := range patterns {
		scores = append(scores, score)
	}
	slices.Sort(scores)

	m := &EvaluationModel{Name: name}
	for _, score := range scores {
		re, err := regexp.Compile(patterns[score])
		if err != nil {
			return nil, Errorf(EINVALID, "evaluation model %q score %q: %v", name, score, err)
		}
		m.Patterns = append(m.Patterns, ScorePattern{Score: score, Pattern: re})
	}
	return m, nil
}

// Evaluate counts pattern matches across texts. Scores that never match are
// left out.
func (m *EvaluationModel) Evaluate(texts ...string) EvaluationScores {
	var scores EvaluationScores
	for _, p := range m.Patterns {
		n := 0
		for _, text := range texts {
			n += len(p.Pattern.FindAllStringIndex(text, -1))
		}
		if n > 0 {
			scores.Names = append(scores.Names, p.Score)
			scores.Counts = append(scores.Counts, n)
		}
	}
	return scores
}
