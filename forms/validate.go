// file: forms/validate.go
package forms

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func isEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

// isDate accepts YYYY-MM-DD.
func isDate(s string) bool {
	return validate.Var(s, "required,datetime=2006-01-02") == nil
}

func hasLength(s string, n int) bool {
	return validate.Var(s, "len="+strconv.Itoa(n)) == nil
}

func oneOf(s string, options []string) bool {
	return validate.Var(s, "required,oneof="+strings.Join(options, " ")) == nil
}
