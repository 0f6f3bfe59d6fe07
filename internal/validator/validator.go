// Package validator provides custom validation functions for Gin's binding engine
// and turns validation failures into messages fit for re-rendered forms.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"expensetracker/internal/models"
	"expensetracker/internal/money"
)

// usernameRegex allows letters, digits and @/./+/-/_ like most account systems.
var usernameRegex = regexp.MustCompile(`^[\w.@+-]{3,150}$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(fieldName)
		_ = v.RegisterValidation("expense_category", validateExpenseCategory)
		_ = v.RegisterValidation("username", validateUsername)
		_ = v.RegisterValidation("money", validateMoney)
	}
}

// fieldName reports fields by their form (or json) name so messages match
// what the user typed into.
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"form", "json"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}

func validateExpenseCategory(fl validator.FieldLevel) bool {
	return models.Category(fl.Field().String()).IsValid()
}

func validateUsername(fl validator.FieldLevel) bool {
	return usernameRegex.MatchString(fl.Field().String())
}

func validateMoney(fl validator.FieldLevel) bool {
	_, err := money.ParseCents(fl.Field().String())
	return err == nil
}

// Describe converts a binding error into a user-facing message. Validation
// errors produce one sentence per field; anything else gets a generic message.
func Describe(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, describeField(fe))
		}
		return strings.Join(msgs, " ")
	}

	var perr *time.ParseError
	if errors.As(err, &perr) {
		return "Enter a valid date."
	}
	return "Invalid form submission."
}

func describeField(fe validator.FieldError) string {
	label := humanize(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", label)
	case "email":
		return "Enter a valid email address."
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", label, fe.Param())
	case "eqfield":
		return "Passwords do not match."
	case "datetime":
		return "Enter a valid date."
	case "money":
		return "Enter a valid amount greater than zero."
	case "expense_category":
		return "Select a valid category."
	case "username":
		return "Usernames must be 3-150 characters: letters, digits and @/./+/-/_ only."
	}
	return fmt.Sprintf("%s is invalid.", label)
}

func humanize(field string) string {
	s := strings.ReplaceAll(field, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
