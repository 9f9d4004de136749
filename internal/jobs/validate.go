package jobs

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"jobmate/jobs-service/internal/apperror"
	"jobmate/jobs-service/internal/sqlbuilder"
)

// ─── Payload validation ──────────────────────────────────────────────────────
//
// Payloads arrive from JSON bodies (json.Number), gRPC structs (float64) or
// query strings (string). Each Parse* function checks the allowed key set,
// collects every problem it finds, and returns values normalized to int,
// string and bool so the builders and pgx see one representation.

// ParseNewJob validates a create payload.
func ParseNewJob(fs sqlbuilder.Fields) (NewJob, error) {
	var (
		nj NewJob
		c  checker
	)
	seen := c.unique(fs)

	for _, f := range fs {
		switch f.Name {
		case "title":
			nj.Title = c.text(f)
		case "company_handle":
			nj.CompanyHandle = c.text(f)
		case "salary":
			nj.Salary = c.salary(f)
		case "equity":
			nj.Equity = c.equity(f)
		default:
			c.addf("field %q is not allowed", f.Name)
		}
	}

	if !seen["title"] {
		c.addf("title is required")
	}
	if !seen["company_handle"] {
		c.addf("company_handle is required")
	}
	return nj, c.err()
}

// ParseUpdate validates a partial update payload and returns it normalized,
// in the caller's order.
func ParseUpdate(fs sqlbuilder.Fields) (sqlbuilder.Fields, error) {
	if len(fs) == 0 {
		return nil, apperror.InvalidInput("no data")
	}

	var c checker
	seen := c.unique(fs)
	if seen["companyHandle"] && seen["company_handle"] {
		c.addf("companyHandle and company_handle are mutually exclusive")
	}

	out := make(sqlbuilder.Fields, 0, len(fs))
	for _, f := range fs {
		var v any
		switch f.Name {
		case "title", "companyHandle", "company_handle":
			v = c.text(f)
		case "salary":
			if n := c.salary(f); n != nil {
				v = *n
			}
		case "equity":
			if s := c.equity(f); s != nil {
				v = *s
			}
		default:
			c.addf("field %q is not allowed", f.Name)
			continue
		}
		out = append(out, sqlbuilder.Field{Name: f.Name, Value: v})
	}

	if err := c.err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ParseFilter validates search criteria. Query-string forms ("500", "true")
// are accepted alongside typed values.
func ParseFilter(fs sqlbuilder.Fields) (sqlbuilder.Fields, error) {
	var c checker
	c.unique(fs)

	out := make(sqlbuilder.Fields, 0, len(fs))
	for _, f := range fs {
		var v any
		switch f.Name {
		case sqlbuilder.FilterTitleLike:
			s, ok := f.Value.(string)
			if !ok {
				c.addf("%s must be a string", f.Name)
			}
			v = s
		case sqlbuilder.FilterMinSalary:
			n, ok := integer(f.Value, true)
			switch {
			case !ok:
				c.addf("%s must be an integer", f.Name)
			case n < 0:
				c.addf("%s must be >= 0", f.Name)
			}
			v = n
		case sqlbuilder.FilterHasEquity:
			b, ok := boolean(f.Value)
			if !ok {
				c.addf("%s must be a boolean", f.Name)
			}
			v = b
		default:
			c.addf("filter %q is not allowed", f.Name)
			continue
		}
		out = append(out, sqlbuilder.Field{Name: f.Name, Value: v})
	}

	if err := c.err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

type checker struct {
	errs []string
}

func (c *checker) addf(format string, args ...any) {
	c.errs = append(c.errs, fmt.Sprintf(format, args...))
}

func (c *checker) err() error {
	if len(c.errs) == 0 {
		return nil
	}
	return apperror.InvalidInput(strings.Join(c.errs, "; "), c.errs...)
}

// unique flags repeated keys and returns the set of names present.
func (c *checker) unique(fs sqlbuilder.Fields) map[string]bool {
	seen := make(map[string]bool, len(fs))
	for _, f := range fs {
		if seen[f.Name] {
			c.addf("field %q given more than once", f.Name)
		}
		seen[f.Name] = true
	}
	return seen
}

func (c *checker) text(f sqlbuilder.Field) string {
	s, ok := f.Value.(string)
	switch {
	case !ok:
		c.addf("%s must be a string", f.Name)
	case strings.TrimSpace(s) == "":
		c.addf("%s must not be empty", f.Name)
	}
	return s
}

func (c *checker) salary(f sqlbuilder.Field) *int {
	if f.Value == nil {
		return nil
	}
	n, ok := integer(f.Value, false)
	if !ok {
		c.addf("%s must be an integer", f.Name)
		return nil
	}
	if n < 0 {
		c.addf("%s must be >= 0", f.Name)
	}
	return &n
}

// equity accepts a number or a numeric string in [0, 1] and returns its
// decimal text, which PostgreSQL parses into NUMERIC without float rounding.
func (c *checker) equity(f sqlbuilder.Field) *string {
	if f.Value == nil {
		return nil
	}

	var s string
	switch v := f.Value.(type) {
	case json.Number:
		s = v.String()
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		s = strconv.Itoa(v)
	case string:
		s = strings.TrimSpace(v)
	default:
		c.addf("%s must be a number", f.Name)
		return nil
	}

	x, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
		c.addf("%s must be a number", f.Name)
		return nil
	}
	if x < 0 || x > 1 {
		c.addf("%s must be between 0 and 1", f.Name)
	}
	return &s
}

func integer(v any, fromString bool) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case json.Number:
		i, err := n.Int64()
		if err != nil || i > math.MaxInt32 || i < math.MinInt32 {
			return 0, false
		}
		return int(i), true
	case float64:
		if n != math.Trunc(n) || n > math.MaxInt32 || n < math.MinInt32 {
			return 0, false
		}
		return int(n), true
	case string:
		if !fromString {
			return 0, false
		}
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 32)
		if err != nil {
			return 0, false
		}
		return int(i), true
	}
	return 0, false
}

func boolean(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		p, err := strconv.ParseBool(b)
		return p, err == nil
	}
	return false, false
}
