// Package forms assembles multi-record forms into backend requests. A form
// keeps repeatable collections of records in local state, validates them on
// submit and flattens them through a payload.Builder.
// File: forms/collection.go
package forms

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by form operations.
var (
	ErrMinimumRows       = errors.New("minimum number of rows reached")
	ErrRowOutOfRange     = errors.New("row index out of range")
	ErrUnknownCollection = errors.New("unknown collection")
	ErrUnknownField      = errors.New("unknown field")
	ErrNotEditable       = errors.New("form is not editable")
	ErrValidation        = errors.New("validation failed")
	ErrSubmitFailed      = errors.New("submission failed")
)

// IDSource hands out local row ids. Ids are never sent to the backend.
type IDSource struct {
	next int
}

// Next returns a fresh id.
func (s *IDSource) Next() int {
	s.next++
	return s.next
}

// Row pairs a record with its local id.
type Row[R any] struct {
	ID     int `json:"id"`
	Record R   `json:"record"`
}

// Collection is an ordered list of records that never drops below min rows.
type Collection[R any] struct {
	name      string
	label     string
	min       int
	rows      []Row[R]
	ids       *IDSource
	newRecord func() R
}

// NewCollection creates a collection seeded with min empty records.
func NewCollection[R any](name, label string, min int, ids *IDSource, newRecord func() R) *Collection[R] {
	c := &Collection[R]{name: name, label: label, min: min, ids: ids, newRecord: newRecord}
	for i := 0; i < min; i++ {
		c.Add()
	}
	return c
}

// Name returns the collection name.
func (c *Collection[R]) Name() string { return c.name }

// Add appends a record with default values and returns its row.
func (c *Collection[R]) Add() Row[R] {
	row := Row[R]{ID: c.ids.Next(), Record: c.newRecord()}
	c.rows = append(c.rows, row)
	return row
}

// Remove deletes the record at index, shifting later records down.
// It refuses to go below the collection minimum.
func (c *Collection[R]) Remove(index int) error {
	if index < 0 || index >= len(c.rows) {
		return fmt.Errorf("%w: %s[%d]", ErrRowOutOfRange, c.name, index)
	}
	if len(c.rows) <= c.min {
		return fmt.Errorf("%w: %s", ErrMinimumRows, c.name)
	}
	c.rows = append(c.rows[:index], c.rows[index+1:]...)
	return nil
}

// At returns the record at index.
func (c *Collection[R]) At(index int) (R, error) {
	if index < 0 || index >= len(c.rows) {
		var zero R
		return zero, fmt.Errorf("%w: %s[%d]", ErrRowOutOfRange, c.name, index)
	}
	return c.rows[index].Record, nil
}

// Len returns the number of records.
func (c *Collection[R]) Len() int { return len(c.rows) }

// Rows returns a copy of the rows in order.
func (c *Collection[R]) Rows() []Row[R] {
	return append([]Row[R](nil), c.rows...)
}

// Records returns the records in order.
func (c *Collection[R]) Records() []R {
	out := make([]R, len(c.rows))
	for i, r := range c.rows {
		out[i] = r.Record
	}
	return out
}

// MinimumMessage is the notification raised when a removal is refused.
func (c *Collection[R]) MinimumMessage() string {
	return fmt.Sprintf("At least one %s is required", c.label)
}
