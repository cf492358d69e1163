package forms

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aci-platform/requisition-api/internal/models"
)

// Values is the raw submission payload: field name to string, number, or list
// of strings, as decoded from JSON.
type Values map[string]interface{}

// Clean is a sanitized submission: trimmed strings, parsed numerics, and
// normalized lists. Fields belonging to an inactive conditional branch are
// dropped.
type Clean struct {
	Fields  map[string]string
	Numbers map[string]int
	Lists   map[string][]string
}

// Get returns the sanitized string value for a field, empty when absent.
func (c Clean) Get(field string) string {
	if v, ok := c.Fields[field]; ok {
		return v
	}
	if n, ok := c.Numbers[field]; ok {
		return strconv.Itoa(n)
	}
	return ""
}

// FieldErrors maps each invalid field to a human-readable message. All
// violations are collected in one pass so a client can highlight every invalid
// field at once.
type FieldErrors map[string]string

// Error implements the error interface.
func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "no field errors"
	}
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return strings.Join(parts, "; ")
}

// Validate checks the submission against the service's rule set. A service id
// with no registered schema validates trivially. On failure the returned
// FieldErrors is non-nil and covers every violation; on success Clean carries
// the sanitized values.
func Validate(id models.ServiceType, values Values) (Clean, FieldErrors) {
	clean := Clean{
		Fields:  make(map[string]string),
		Numbers: make(map[string]int),
		Lists:   make(map[string][]string),
	}
	errs := make(FieldErrors)

	for _, r := range schemas[id] {
		if r.when != "" && stringValue(values[r.when]) != r.equals {
			continue
		}

		if r.multi {
			items := listValue(values[r.field])
			if len(items) < r.minItems {
				errs[r.field] = r.message
				continue
			}
			clean.Lists[r.field] = items
			continue
		}

		raw := stringValue(values[r.field])
		if raw == "" {
			if r.required {
				errs[r.field] = r.message
			}
			continue
		}

		if r.numeric {
			n, err := strconv.Atoi(raw)
			if err != nil {
				errs[r.field] = r.typeMessage
				continue
			}
			if n < r.min {
				errs[r.field] = r.minMessage
				continue
			}
			clean.Numbers[r.field] = n
			continue
		}

		clean.Fields[r.field] = raw
	}

	if len(errs) > 0 {
		return Clean{}, errs
	}
	return clean, nil
}

func stringValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

func listValue(v interface{}) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []string:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := strings.TrimSpace(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := stringValue(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
