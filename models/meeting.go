// Package models defines data structures used across the application.
// File: models/meeting.go
package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go-facilities-admin/payload"
)

// ErrUnknownField is returned by Set when a record has no such field.
var ErrUnknownField = errors.New("unknown field")

// ----------------------- tag model -----------------------

// Tag is a company tag attached to a discussion point.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

// ParseTags reads a comma separated list of tag ids. Entries that are not
// positive integers are dropped.
func ParseTags(value string) []Tag {
	var tags []Tag
	seen := make(map[int64]bool)
	for _, part := range strings.Split(value, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		tags = append(tags, Tag{ID: id})
	}
	return tags
}

func joinTagIDs(tags []Tag) string {
	ids := make([]string, len(tags))
	for i, t := range tags {
		ids[i] = strconv.FormatInt(t.ID, 10)
	}
	return strings.Join(ids, ",")
}

// ----------------------- attendee model -----------------------

// Attendee is one meeting participant. Internal attendees reference a user
// account; external attendees are described by contact details.
type Attendee struct {
	External    bool   `json:"external"`
	UserID      string `json:"user_id,omitempty"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Mobile      string `json:"mobile,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
}

// Set replaces one field. Mobile numbers keep digits only, capped at 10.
func (a *Attendee) Set(field, value string) error {
	switch field {
	case "user_id":
		a.UserID = DigitsOnly(value, 0)
	case "name":
		a.Name = value
	case "email":
		a.Email = strings.TrimSpace(value)
	case "mobile":
		a.Mobile = DigitsOnly(value, MobileLength)
	case "company_name":
		a.CompanyName = value
	default:
		return fmt.Errorf("%w: attendee.%s", ErrUnknownField, field)
	}
	return nil
}

// Kind returns the attendee_type sent to the backend.
func (a *Attendee) Kind() string {
	if a.External {
		return "external"
	}
	return "internal"
}

// PayloadFields implements payload.Record. user_id only exists on internal
// rows; mobile and company_name only on external rows.
func (a *Attendee) PayloadFields() []payload.Pair {
	if a.External {
		return []payload.Pair{
			{Name: "attendee_type", Value: a.Kind()},
			{Name: "name", Value: a.Name},
			{Name: "email", Value: a.Email},
			{Name: "mobile", Value: a.Mobile},
			{Name: "company_name", Value: a.CompanyName},
		}
	}
	return []payload.Pair{
		{Name: "attendee_type", Value: a.Kind()},
		{Name: "user_id", Value: a.UserID},
		{Name: "name", Value: a.Name},
		{Name: "email", Value: a.Email},
	}
}

// Identified reports whether the attendee has enough details to be offered
// as a discussion raiser.
func (a *Attendee) Identified() bool {
	if a.External {
		return strings.TrimSpace(a.Name) != "" && a.Email != ""
	}
	return a.UserID != ""
}

// ----------------------- discussion point model -----------------------

// DiscussionPoint is one minuted item with an owner and due date.
type DiscussionPoint struct {
	Description         string `json:"description"`
	RaisedBy            string `json:"raised_by"`
	ResponsiblePersonID string `json:"responsible_person_id"`
	EndDate             string `json:"end_date"`
	Tags                []Tag  `json:"tags"`
}

// Set replaces one field. Tags are given as comma separated ids.
func (d *DiscussionPoint) Set(field, value string) error {
	switch field {
	case "description":
		d.Description = value
	case "raised_by":
		d.RaisedBy = value
	case "responsible_person_id":
		d.ResponsiblePersonID = DigitsOnly(value, 0)
	case "end_date":
		d.EndDate = strings.TrimSpace(value)
	case "tags":
		d.Tags = ParseTags(value)
	default:
		return fmt.Errorf("%w: discussion_point.%s", ErrUnknownField, field)
	}
	return nil
}

// PayloadFields implements payload.Record.
func (d *DiscussionPoint) PayloadFields() []payload.Pair {
	return []payload.Pair{
		{Name: "description", Value: d.Description},
		{Name: "raised_by", Value: d.RaisedBy},
		{Name: "responsible_person_id", Value: d.ResponsiblePersonID},
		{Name: "end_date", Value: d.EndDate},
		{Name: "company_tag_id", Value: joinTagIDs(d.Tags)},
	}
}
