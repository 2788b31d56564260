package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ValidationError lists the fields a user must fix before a project can be saved
type ValidationError struct {
	Fields []FieldProblem
}

// FieldProblem describes one invalid field
type FieldProblem struct {
	Field   string
	Problem string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Problem)
	}
	return "invalid project: " + strings.Join(parts, "; ")
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("stage", func(fl validator.FieldLevel) bool {
			return Stage(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
			return Priority(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("language", func(fl validator.FieldLevel) bool {
			return IsLanguageOption(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// ValidateDraft checks the fields a user must supply when creating a project
func ValidateDraft(d Draft) error {
	return toValidationError(validatorInstance().Struct(d), nil)
}

// ValidateUpdate checks the fields set on a partial update
func ValidateUpdate(u ProjectUpdate) error {
	var extra []FieldProblem
	if u.Languages != nil {
		extra = languageProblems(*u.Languages)
	}
	return toValidationError(validatorInstance().Struct(u), extra)
}

func languageProblems(langs []string) []FieldProblem {
	var problems []FieldProblem
	seen := make(map[string]bool)
	for i, lang := range langs {
		field := fmt.Sprintf("languages[%d]", i)
		if !IsLanguageOption(lang) {
			problems = append(problems, FieldProblem{Field: field, Problem: fmt.Sprintf("has unknown technology %q", lang)})
		}
		if seen[lang] {
			problems = append(problems, FieldProblem{Field: "languages", Problem: "contains duplicates"})
		}
		seen[lang] = true
	}
	return problems
}

func toValidationError(err error, extra []FieldProblem) error {
	problems := extra
	if err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			problems = append(problems, FieldProblem{Field: fe.Field(), Problem: describe(fe)})
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Fields: problems}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "stage":
		return "must be one of " + joinStages()
	case "priority":
		return "must be one of low, medium, high"
	case "language":
		return fmt.Sprintf("has unknown technology %q", fe.Value())
	case "unique":
		return "contains duplicates"
	case "datetime":
		return "must be a YYYY-MM-DD date"
	case "min", "max":
		if fe.Field() == "progress" {
			return "must be between 0 and 100"
		}
		return "must not be empty"
	}
	return "is invalid"
}

func joinStages() string {
	names := make([]string, len(Stages))
	for i, s := range Stages {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
