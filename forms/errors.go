// file: forms/errors.go
package forms

import "sort"

// TopLevel is the Row used for fields that do not belong to a collection.
const TopLevel = -1

// FieldKey addresses one field of one row. Top-level fields use an empty
// Collection and Row TopLevel.
type FieldKey struct {
	Collection string
	Row        int
	Field      string
}

// Top returns the key of a top-level field.
func Top(field string) FieldKey {
	return FieldKey{Row: TopLevel, Field: field}
}

// FieldError is one entry of Errors in list form.
type FieldError struct {
	Collection string `json:"collection,omitempty"`
	Row        int    `json:"row"`
	Field      string `json:"field"`
	Message    string `json:"message"`
}

// Errors holds field-level validation messages.
type Errors map[FieldKey]string

// Empty reports whether there are no errors.
func (e Errors) Empty() bool { return len(e) == 0 }

// Set records msg for key.
func (e Errors) Set(key FieldKey, msg string) { e[key] = msg }

// Clear removes the error for key.
func (e Errors) Clear(key FieldKey) { delete(e, key) }

// ForRow returns the field errors of one row.
func (e Errors) ForRow(collection string, row int) map[string]string {
	out := make(map[string]string)
	for k, msg := range e {
		if k.Collection == collection && k.Row == row {
			out[k.Field] = msg
		}
	}
	return out
}

// DropRow discards the errors of a removed row and re-keys later rows so
// each error keeps pointing at the same record.
func (e Errors) DropRow(collection string, row int) {
	moved := make(map[FieldKey]string)
	for k, msg := range e {
		if k.Collection != collection || k.Row < row {
			continue
		}
		delete(e, k)
		if k.Row > row {
			k.Row--
			moved[k] = msg
		}
	}
	for k, msg := range moved {
		e[k] = msg
	}
}

// DropCollection discards every error of collection.
func (e Errors) DropCollection(collection string) {
	for k := range e {
		if k.Collection == collection {
			delete(e, k)
		}
	}
}

// List returns the errors sorted by collection, row and field.
func (e Errors) List() []FieldError {
	out := make([]FieldError, 0, len(e))
	for k, msg := range e {
		out = append(out, FieldError{Collection: k.Collection, Row: k.Row, Field: k.Field, Message: msg})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Collection != b.Collection {
			return a.Collection < b.Collection
		}
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.Field < b.Field
	})
	return out
}

// DefaultSummary is the notification raised when validation fails on
// collection fields.
const DefaultSummary = "Please fill all required fields"

// SummaryFor returns the message of the first top-level field in fields that
// has an error, or DefaultSummary.
func SummaryFor(e Errors, fields ...string) string {
	for _, f := range fields {
		if msg, ok := e[Top(f)]; ok {
			return msg
		}
	}
	return DefaultSummary
}
