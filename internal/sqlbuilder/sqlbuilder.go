// Package sqlbuilder turns sparse, caller-supplied payloads into fragments of
// PostgreSQL text with positional ($1, $2, ...) parameters.
//
// Values never appear in the generated text; they are returned alongside it
// in placeholder order. Identifiers are quoted with pgx's sanitizer.
package sqlbuilder

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"jobmate/jobs-service/internal/apperror"
)

// Field is one named value of an ordered payload.
type Field struct {
	Name  string
	Value any
}

// Fields keeps payload entries in the order the caller supplied them. That
// order decides placeholder numbering.
type Fields []Field

// Get returns the value stored under name.
func (fs Fields) Get(name string) (any, bool) {
	for _, f := range fs {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Names returns the field names in payload order.
func (fs Fields) Names() []string {
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.Name
	}
	return names
}

// FieldMap translates external field names into storage column names.
type FieldMap map[string]string

// Column resolves name to its column, falling back to name itself.
func (m FieldMap) Column(name string) string {
	if col, ok := m[name]; ok {
		return col
	}
	return name
}

// Clause is a generated SQL fragment and the values its placeholders refer to.
type Clause struct {
	Text string
	Args []any
}

// Empty reports whether the clause produced no predicates or assignments.
func (c Clause) Empty() bool { return c.Text == "" }

// Next returns the next unused placeholder index.
func (c Clause) Next() int { return len(c.Args) + 1 }

// SetClause builds the body of an UPDATE ... SET for a partial update.
//
//	SetClause(Fields{{"name", "jerry"}, {"familyMembers", 7}}, FieldMap{"familyMembers": "family_members"})
//	// Text: "name"=$1, "family_members"=$2
//	// Args: [jerry 7]
//
// An empty payload is an input error, not a no-op.
func SetClause(payload Fields, m FieldMap) (Clause, error) {
	if len(payload) == 0 {
		return Clause{}, apperror.InvalidInput("no data")
	}

	cols := make([]string, len(payload))
	args := make([]any, len(payload))
	for i, f := range payload {
		cols[i] = fmt.Sprintf("%s=$%d", quote(m.Column(f.Name)), i+1)
		args[i] = f.Value
	}

	return Clause{Text: strings.Join(cols, ", "), Args: args}, nil
}

// Recognized filter keys.
const (
	FilterTitleLike = "titleLike"
	FilterMinSalary = "minSalary"
	FilterHasEquity = "hasEquity"
)

// WhereClause builds the predicate list of a job search. Predicates are ANDed
// in the order their keys appear; keys it does not know are skipped. When no
// recognized key is present the clause is empty and must not be appended
// after a WHERE keyword.
func WhereClause(filter Fields) Clause {
	var (
		preds []string
		args  []any
	)
	for _, f := range filter {
		switch f.Name {
		case FilterTitleLike:
			args = append(args, f.Value)
			preds = append(preds, fmt.Sprintf("title ILIKE '%%' || $%d || '%%'", len(args)))
		case FilterMinSalary:
			args = append(args, f.Value)
			preds = append(preds, fmt.Sprintf("salary >= $%d", len(args)))
		case FilterHasEquity:
			// binds nothing
			if b, _ := f.Value.(bool); b {
				preds = append(preds, "equity != 0")
			} else {
				preds = append(preds, "equity = 0")
			}
		}
	}
	return Clause{Text: strings.Join(preds, " AND "), Args: args}
}

func quote(col string) string {
	return pgx.Identifier{col}.Sanitize()
}
