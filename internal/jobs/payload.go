package jobs

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"jobmate/jobs-service/internal/apperror"
	"jobmate/jobs-service/internal/sqlbuilder"
)

// DecodeFields reads a JSON object from r, keeping its keys in document
// order. Numbers are left as json.Number.
func DecodeFields(r io.Reader) (sqlbuilder.Fields, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, apperror.InvalidInput("invalid JSON body")
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, apperror.InvalidInput("body must be a JSON object")
	}

	fs := sqlbuilder.Fields{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, apperror.InvalidInput("invalid JSON body")
		}
		key, ok := tok.(string)
		if !ok {
			return nil, apperror.InvalidInput("invalid JSON body")
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, apperror.InvalidInput(fmt.Sprintf("invalid value for %q", key))
		}
		fs = append(fs, sqlbuilder.Field{Name: key, Value: v})
	}
	if _, err := dec.Token(); err != nil {
		return nil, apperror.InvalidInput("invalid JSON body")
	}
	return fs, nil
}

// QueryFields splits a raw query string into fields, in the order they were
// written. Values stay strings.
func QueryFields(rawQuery string) (sqlbuilder.Fields, error) {
	fs := sqlbuilder.Fields{}
	for _, part := range strings.Split(rawQuery, "&") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			return nil, apperror.InvalidInput(fmt.Sprintf("invalid query parameter %q", k))
		}
		val, err := url.QueryUnescape(v)
		if err != nil {
			return nil, apperror.InvalidInput(fmt.Sprintf("invalid value for %q", key))
		}
		fs = append(fs, sqlbuilder.Field{Name: key, Value: val})
	}
	return fs, nil
}
