package repository

import (
	"clinicbook/internal/errors"
)

// FieldColumn maps a public request field name to its database column. Tables
// of these are declared per entity at compile time; column names never come
// from request data.
type FieldColumn struct {
	Name   string
	Column string
}

// UpdateSet is a validated partial-update description: SET-clause fragments
// with one bound placeholder each, and the values in matching order.
type UpdateSet struct {
	Assignments []string
	Values      []interface{}
}

// BuildPartialUpdate maps a sparse field map to an UpdateSet using the given
// translation table.
//
// Unknown keys are ignored rather than rejected, deliberately: payloads with
// forward-compatible extra fields must keep working. Assignment order follows
// the translation table, not map iteration order, so generated statements are
// deterministic. Every value is a bound parameter; no value is ever
// concatenated into statement text.
func BuildPartialUpdate(fields map[string]interface{}, table []FieldColumn) (*UpdateSet, error) {
	set := &UpdateSet{}
	for _, fc := range table {
		v, ok := fields[fc.Name]
		if !ok {
			continue
		}
		set.Assignments = append(set.Assignments, fc.Column+" = ?")
		set.Values = append(set.Values, v)
	}
	if len(set.Assignments) == 0 {
		return nil, errors.BadRequest("no data")
	}
	return set, nil
}

// UserUpdateFields are the columns a user may change on their own record.
var UserUpdateFields = []FieldColumn{
	{Name: "first_name", Column: "first_name"},
	{Name: "last_name", Column: "last_name"},
	{Name: "email", Column: "email"},
	{Name: "password_hash", Column: "password_hash"},
}

// AdminUserUpdateFields additionally allows the role change. Role is
// immutable except through this admin-only table.
var AdminUserUpdateFields = append(append([]FieldColumn{}, UserUpdateFields...),
	FieldColumn{Name: "role", Column: "role"},
)

// DoctorUpdateFields are the patchable doctor columns.
var DoctorUpdateFields = []FieldColumn{
	{Name: "first_name", Column: "first_name"},
	{Name: "last_name", Column: "last_name"},
	{Name: "email", Column: "email"},
}

// AppointmentUpdateFields are the patchable appointment columns.
var AppointmentUpdateFields = []FieldColumn{
	{Name: "patient_first_name", Column: "patient_first_name"},
	{Name: "patient_last_name", Column: "patient_last_name"},
	{Name: "date", Column: "appt_date"},
	{Name: "time", Column: "appt_time"},
	{Name: "kind", Column: "kind"},
}
