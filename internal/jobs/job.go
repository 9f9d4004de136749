// Package jobs manages job postings: validation of caller payloads, the
// PostgreSQL repository, the transport-agnostic Service and its HTTP handler.
package jobs

import "jobmate/jobs-service/internal/sqlbuilder"

// Job is the stored row, also the JSON shape returned to clients.
type Job struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	Salary        *int    `json:"salary"`
	Equity        *string `json:"equity"`
	CompanyHandle string  `json:"company_handle"`
}

// NewJob is a validated create request.
type NewJob struct {
	Title         string
	Salary        *int
	Equity        *string
	CompanyHandle string
}

// Columns maps update payload names that differ from their column.
var Columns = sqlbuilder.FieldMap{
	"companyHandle": "company_handle",
}

// Map renders j with plain values (no pointers), for encoders such as
// structpb that only accept basic types.
func (j Job) Map() map[string]any {
	m := map[string]any{
		"id":             j.ID,
		"title":          j.Title,
		"salary":         nil,
		"equity":         nil,
		"company_handle": j.CompanyHandle,
	}
	if j.Salary != nil {
		m["salary"] = *j.Salary
	}
	if j.Equity != nil {
		m["equity"] = *j.Equity
	}
	return m
}
