// file: forms/meeting.go
package forms

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go-facilities-admin/models"
	"go-facilities-admin/payload"
)

// Meeting form collections as addressed by callers.
const (
	CollectionAttendees        = "attendees"
	CollectionDiscussionPoints = "discussion_points"
)

// KindMeeting identifies meeting-minutes drafts.
const KindMeeting = "meeting"

// Option is one entry of a select list.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// NoRaiserOption is offered when no attendee is identified yet.
var NoRaiserOption = Option{Value: "", Label: "Add attendees to select who raised the point"}

// MeetingForm builds a mom_detail request: meeting details, one of two
// attendee lists chosen by a toggle, and discussion points.
type MeetingForm struct {
	base

	Title string
	Date  string
	Venue string

	external  bool
	internals *Collection[*models.Attendee]
	externals *Collection[*models.Attendee]
	points    *Collection[*models.DiscussionPoint]

	attachments []payload.Attachment
	errors      Errors
}

// NewMeetingForm returns a form with one row in every collection.
func NewMeetingForm() *MeetingForm {
	f := &MeetingForm{base: newBase("mom_detail"), errors: Errors{}}
	f.internals = NewCollection(CollectionAttendees, "attendee", 1, &f.ids, func() *models.Attendee {
		return &models.Attendee{}
	})
	f.externals = NewCollection(CollectionAttendees, "attendee", 1, &f.ids, func() *models.Attendee {
		return &models.Attendee{External: true}
	})
	f.points = NewCollection(CollectionDiscussionPoints, "discussion point", 1, &f.ids, func() *models.DiscussionPoint {
		return &models.DiscussionPoint{}
	})
	return f
}

// Kind implements Draft.
func (f *MeetingForm) Kind() string { return KindMeeting }

// External reports which attendee list is active.
func (f *MeetingForm) External() bool { return f.external }

// SetExternal switches the active attendee list. Both lists keep their rows;
// errors of the previously shown list are dropped.
func (f *MeetingForm) SetExternal(external bool) {
	if f.external == external {
		return
	}
	f.external = external
	f.errors.DropCollection(CollectionAttendees)
}

// Attendees returns the active attendee list.
func (f *MeetingForm) Attendees() *Collection[*models.Attendee] {
	if f.external {
		return f.externals
	}
	return f.internals
}

// DiscussionPoints returns the discussion point list.
func (f *MeetingForm) DiscussionPoints() *Collection[*models.DiscussionPoint] {
	return f.points
}

// Errors returns the errors of the last validation, kept current by edits.
func (f *MeetingForm) Errors() Errors { return f.errors }

// RaiserOptions lists every identified attendee from both lists, internal
// first, or a single placeholder when there is none.
func (f *MeetingForm) RaiserOptions() []Option {
	var opts []Option
	for _, a := range f.internals.Records() {
		if a.Identified() {
			label := a.Name
			if strings.TrimSpace(label) == "" {
				label = "User #" + a.UserID
			}
			opts = append(opts, Option{Value: a.UserID, Label: label})
		}
	}
	for _, a := range f.externals.Records() {
		if a.Identified() {
			opts = append(opts, Option{Value: a.Email, Label: a.Name + " (external)"})
		}
	}
	if len(opts) == 0 {
		return []Option{NoRaiserOption}
	}
	return opts
}

// ------------------- row and field editing -------------------

// AddRow implements Draft.
func (f *MeetingForm) AddRow(collection string) error {
	if err := f.editable(); err != nil {
		return err
	}
	switch collection {
	case CollectionAttendees:
		f.Attendees().Add()
	case CollectionDiscussionPoints:
		f.points.Add()
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}
	return nil
}

// RemoveRow implements Draft. Refusals below the minimum raise a notification.
func (f *MeetingForm) RemoveRow(collection string, index int) error {
	if err := f.editable(); err != nil {
		return err
	}
	var err error
	var minimum string
	switch collection {
	case CollectionAttendees:
		err = f.Attendees().Remove(index)
		minimum = f.Attendees().MinimumMessage()
	case CollectionDiscussionPoints:
		err = f.points.Remove(index)
		minimum = f.points.MinimumMessage()
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}
	if errors.Is(err, ErrMinimumRows) {
		f.notifyError(minimum)
	}
	if err != nil {
		return err
	}
	f.errors.DropRow(collection, index)
	return nil
}

// SetField implements Draft. Top-level fields use an empty collection.
func (f *MeetingForm) SetField(collection string, index int, field, value string) error {
	if err := f.editable(); err != nil {
		return err
	}
	switch collection {
	case "":
		if err := f.setTop(field, value); err != nil {
			return err
		}
		f.errors.Clear(Top(field))
		return nil
	case CollectionAttendees:
		a, err := f.Attendees().At(index)
		if err != nil {
			return err
		}
		if err := a.Set(field, value); err != nil {
			return fmt.Errorf("%w: %v", ErrUnknownField, err)
		}
	case CollectionDiscussionPoints:
		d, err := f.points.At(index)
		if err != nil {
			return err
		}
		if err := d.Set(field, value); err != nil {
			return fmt.Errorf("%w: %v", ErrUnknownField, err)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}
	f.errors.Clear(FieldKey{Collection: collection, Row: index, Field: field})
	return nil
}

func (f *MeetingForm) setTop(field, value string) error {
	switch field {
	case "title":
		f.Title = value
	case "date":
		f.Date = strings.TrimSpace(value)
	case "venue":
		f.Venue = value
	case "is_external":
		external, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: is_external must be true or false", ErrUnknownField)
		}
		f.SetExternal(external)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

// Attach implements Draft. Meeting attachments are top-level only.
func (f *MeetingForm) Attach(collection string, _ int, a payload.Attachment) error {
	if err := f.editable(); err != nil {
		return err
	}
	if collection != "" {
		return fmt.Errorf("%w: attachments belong to the meeting", ErrUnknownCollection)
	}
	f.attachments = append(f.attachments, a)
	return nil
}

// ------------------- validation and flattening -------------------

// Validate implements Form. Only the active attendee list is checked.
func (f *MeetingForm) Validate() (Errors, bool) {
	errs := Errors{}

	if blank(f.Title) {
		errs.Set(Top("title"), "Meeting Title is required")
	}
	switch {
	case blank(f.Date):
		errs.Set(Top("date"), "Meeting Date is required")
	case !isDate(f.Date):
		errs.Set(Top("date"), "Meeting Date must be in YYYY-MM-DD format")
	}

	for i, a := range f.Attendees().Records() {
		key := func(field string) FieldKey { return FieldKey{Collection: CollectionAttendees, Row: i, Field: field} }
		if !a.External {
			if blank(a.UserID) {
				errs.Set(key("user_id"), "Attendee is required")
			}
			continue
		}
		if blank(a.Name) {
			errs.Set(key("name"), "Name is required")
		}
		switch {
		case blank(a.Email):
			errs.Set(key("email"), "Email is required")
		case !isEmail(a.Email):
			errs.Set(key("email"), "Enter a valid email")
		}
		if a.Mobile != "" && !hasLength(a.Mobile, models.MobileLength) {
			errs.Set(key("mobile"), "Mobile number must be 10 digits")
		}
	}

	raisers := make(map[string]bool)
	for _, o := range f.RaiserOptions() {
		if o.Value != "" {
			raisers[o.Value] = true
		}
	}
	for i, d := range f.points.Records() {
		key := func(field string) FieldKey { return FieldKey{Collection: CollectionDiscussionPoints, Row: i, Field: field} }
		if blank(d.Description) {
			errs.Set(key("description"), "Description is required")
		}
		if d.RaisedBy != "" && !raisers[d.RaisedBy] {
			errs.Set(key("raised_by"), "Raised by must be one of the attendees")
		}
		if blank(d.ResponsiblePersonID) {
			errs.Set(key("responsible_person_id"), "Responsible person is required")
		}
		switch {
		case blank(d.EndDate):
			errs.Set(key("end_date"), "End date is required")
		case !isDate(d.EndDate):
			errs.Set(key("end_date"), "End date must be in YYYY-MM-DD format")
		}
		if len(d.Tags) == 0 {
			errs.Set(key("tags"), "Select at least one tag")
		}
	}

	f.errors = errs
	return errs, errs.Empty()
}

// Summary implements Form.
func (f *MeetingForm) Summary(errs Errors) string {
	return SummaryFor(errs, "title", "date")
}

// Flatten implements Form. Only the active attendee list is emitted.
func (f *MeetingForm) Flatten(b *payload.Builder) {
	b.Scalar("title", f.Title).
		Scalar("date", f.Date).
		Scalar("venue", f.Venue).
		Scalar("is_external", strconv.FormatBool(f.external))
	b.Collection("mom_attendees", records(f.Attendees().Records()))
	b.Collection("mom_tasks", records(f.points.Records()))
	b.Attach("attachments", f.attachments...)
}

// ------------------- view -------------------

// MeetingView is the JSON shape of a meeting draft.
type MeetingView struct {
	Kind             string                        `json:"kind"`
	State            string                        `json:"state"`
	Title            string                        `json:"title"`
	Date             string                        `json:"date"`
	Venue            string                        `json:"venue"`
	External         bool                          `json:"is_external"`
	Attendees        []Row[*models.Attendee]       `json:"attendees"`
	DiscussionPoints []Row[*models.DiscussionPoint] `json:"discussion_points"`
	RaiserOptions    []Option                      `json:"raiser_options"`
	Attachments      []payload.Attachment          `json:"attachments"`
	Errors           []FieldError                  `json:"errors"`
	Notifications    []Notification                `json:"notifications"`
}

// View implements Draft. Queued notifications are drained.
func (f *MeetingForm) View() any {
	return MeetingView{
		Kind:             KindMeeting,
		State:            f.lc.Current(),
		Title:            f.Title,
		Date:             f.Date,
		Venue:            f.Venue,
		External:         f.external,
		Attendees:        f.Attendees().Rows(),
		DiscussionPoints: f.points.Rows(),
		RaiserOptions:    f.RaiserOptions(),
		Attachments:      f.attachments,
		Errors:           f.errors.List(),
		Notifications:    f.notes.Drain(),
	}
}
