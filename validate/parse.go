package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/syssam/gqlbind/binder"
)

var callRe = regexp.MustCompile(`^([a-z_]+)(?:\((.*)\))?$`)

// Parse builds a validator from its textual form, as written in project
// files:
//
//	min_length(4)
//	max_length(32)
//	match(^[a-z0-9_]+$)
//	one_of(ADMIN, MEMBER)
//	range(0, 100)
//	not_blank
//	trim
func Parse(expr string) (binder.ValidatorFunc, error) {
	m := callRe.FindStringSubmatch(strings.TrimSpace(expr))
	if m == nil {
		return nil, fmt.Errorf("validate: malformed validator %q", expr)
	}
	name, arg := m[1], m[2]
	switch name {
	case "min_length", "max_length":
		n, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("validate: %s expects a non-negative integer, got %q", name, arg)
		}
		if name == "min_length" {
			return MinLength(n), nil
		}
		return MaxLength(n), nil
	case "match":
		if _, err := regexp.Compile(arg); err != nil {
			return nil, fmt.Errorf("validate: match: %w", err)
		}
		return Match(arg), nil
	case "one_of":
		values := splitArgs(arg)
		if len(values) == 0 {
			return nil, fmt.Errorf("validate: one_of expects at least one value")
		}
		return OneOf(values...), nil
	case "range":
		args := splitArgs(arg)
		if len(args) != 2 {
			return nil, fmt.Errorf("validate: range expects two bounds, got %q", arg)
		}
		lo, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return nil, fmt.Errorf("validate: range: %w", err)
		}
		hi, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return nil, fmt.Errorf("validate: range: %w", err)
		}
		if lo > hi {
			return nil, fmt.Errorf("validate: range: lower bound %g exceeds upper bound %g", lo, hi)
		}
		return Range(lo, hi), nil
	case "not_blank":
		return NotBlank(), nil
	case "trim":
		return Trim(), nil
	default:
		return nil, fmt.Errorf("validate: unknown validator %q", name)
	}
}

func splitArgs(s string) []string {
	var args []string
	for _, a := range strings.Split(s, ",") {
		if a = strings.TrimSpace(a); a != "" {
			args = append(args, a)
		}
	}
	return args
}
