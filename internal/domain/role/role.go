package role

import (
	"sort"
	"strings"

	"github.com/interviewpartner/backend/internal/apperr"
)

// Criteria every role is scored on.
const (
	CriterionCommunication      = "communication"
	CriterionTechnicalKnowledge = "technical_knowledge"
	CriterionStructure          = "structure"
)

// RequiredCriteria lists the criteria the feedback report always scores.
var RequiredCriteria = []string{
	CriterionCommunication,
	CriterionTechnicalKnowledge,
	CriterionStructure,
}

// Role is an interview template: an ordered question list plus the criteria
// (name -> description) the candidate is evaluated on. Roles are immutable
// once loaded.
type Role struct {
	Name               string            `yaml:"-" json:"name"`
	DisplayName        string            `yaml:"display_name" json:"display_name"`
	Questions          []string          `yaml:"questions" json:"questions"`
	EvaluationCriteria map[string]string `yaml:"evaluation_criteria" json:"evaluation_criteria"`
}

// New builds and validates a role. An empty display name is derived from
// the role name ("backend_engineer" -> "Backend Engineer").
func New(name, displayName string, questions []string, criteria map[string]string) (*Role, error) {
	r := &Role{
		Name:               strings.TrimSpace(name),
		DisplayName:        strings.TrimSpace(displayName),
		Questions:          append([]string(nil), questions...),
		EvaluationCriteria: make(map[string]string, len(criteria)),
	}
	for k, v := range criteria {
		r.EvaluationCriteria[k] = v
	}
	if r.DisplayName == "" {
		r.DisplayName = DisplayNameFor(r.Name)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks the structural rules a role must satisfy.
func (r *Role) Validate() error {
	if r.Name == "" {
		return apperr.Config("role name cannot be empty")
	}
	if len(r.Questions) == 0 {
		return apperr.Config("role %q has no questions", r.Name)
	}
	for i, q := range r.Questions {
		if strings.TrimSpace(q) == "" {
			return apperr.Config("role %q question %d is blank", r.Name, i+1)
		}
	}
	if len(r.EvaluationCriteria) == 0 {
		return apperr.Config("role %q has no evaluation criteria", r.Name)
	}
	for _, required := range RequiredCriteria {
		if !r.HasCriterion(required) {
			return apperr.Config("role %q is missing required criterion %q", r.Name, required)
		}
	}
	return nil
}

func (r *Role) HasCriterion(name string) bool {
	_, ok := r.EvaluationCriteria[name]
	return ok
}

// CriterionNames returns the criterion names in sorted order so anything
// rendered from them is stable.
func (r *Role) CriterionNames() []string {
	names := make([]string, 0, len(r.EvaluationCriteria))
	for name := range r.EvaluationCriteria {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TotalQuestions returns the number of main questions.
func (r *Role) TotalQuestions() int {
	return len(r.Questions)
}

// Question returns the 1-indexed question text.
func (r *Role) Question(number int) (string, bool) {
	if number < 1 || number > len(r.Questions) {
		return "", false
	}
	return r.Questions[number-1], true
}

// DisplayNameFor turns a snake_case role name into a title.
func DisplayNameFor(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
