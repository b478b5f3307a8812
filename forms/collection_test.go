// file: forms/collection_test.go
package forms

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNames(min int) *Collection[string] {
	var ids IDSource
	return NewCollection("names", "name", min, &ids, func() string { return "" })
}

func TestCollection_SeedsMinimum(t *testing.T) {
	c := newNames(2)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []string{"", ""}, c.Records())
}

func TestCollection_RemoveShiftsDown(t *testing.T) {
	c := newNames(1)
	c.Add()
	c.Add()
	ids := []int{c.Rows()[0].ID, c.Rows()[1].ID, c.Rows()[2].ID}

	require.NoError(t, c.Remove(1))
	rows := c.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, ids[0], rows[0].ID)
	assert.Equal(t, ids[2], rows[1].ID)
}

func TestCollection_RemoveBounds(t *testing.T) {
	c := newNames(1)
	assert.True(t, errors.Is(c.Remove(0), ErrMinimumRows))
	assert.True(t, errors.Is(c.Remove(5), ErrRowOutOfRange))
	assert.True(t, errors.Is(c.Remove(-1), ErrRowOutOfRange))

	_, err := c.At(1)
	assert.True(t, errors.Is(err, ErrRowOutOfRange))
	assert.Equal(t, "At least one name is required", c.MinimumMessage())
}

func TestCollection_RowsIsACopy(t *testing.T) {
	c := newNames(1)
	rows := c.Rows()
	rows[0].Record = "changed"
	r, _ := c.At(0)
	assert.Empty(t, r)
}

func TestErrors_DropRowRekeys(t *testing.T) {
	e := Errors{
		{Collection: "points", Row: 0, Field: "description"}: "zero",
		{Collection: "points", Row: 1, Field: "description"}: "one",
		{Collection: "points", Row: 2, Field: "tags"}:        "two",
		{Collection: "attendees", Row: 2, Field: "name"}:     "other",
		Top("title"): "title",
	}
	e.DropRow("points", 1)

	assert.Equal(t, Errors{
		{Collection: "points", Row: 0, Field: "description"}: "zero",
		{Collection: "points", Row: 1, Field: "tags"}:        "two",
		{Collection: "attendees", Row: 2, Field: "name"}:     "other",
		Top("title"): "title",
	}, e)
}

func TestErrors_ListSorted(t *testing.T) {
	e := Errors{
		{Collection: "points", Row: 1, Field: "a"}: "3",
		{Collection: "points", Row: 0, Field: "b"}: "2",
		Top("title"): "1",
	}
	list := e.List()
	require.Len(t, list, 3)
	assert.Equal(t, "1", list[0].Message)
	assert.Equal(t, "2", list[1].Message)
	assert.Equal(t, "3", list[2].Message)

	assert.Equal(t, map[string]string{"b": "2"}, e.ForRow("points", 0))
}

func TestSummaryFor(t *testing.T) {
	e := Errors{Top("date"): "Meeting Date is required"}
	assert.Equal(t, "Meeting Date is required", SummaryFor(e, "title", "date"))
	assert.Equal(t, DefaultSummary, SummaryFor(Errors{{Collection: "x", Row: 0, Field: "y"}: "m"}, "title"))
}
