// file: forms/mail_inbound.go
package forms

import (
	"errors"
	"fmt"
	"strings"

	"go-facilities-admin/models"
	"go-facilities-admin/payload"
)

// CollectionPackages is the package list of a mail-inbound form.
const CollectionPackages = "packages"

// KindMailInbound identifies mail-inbound drafts.
const KindMailInbound = "mail-inbound"

// MailInboundForm builds a mail_inbound request: delivery details plus one or
// more package records, each with its own files and errors.
type MailInboundForm struct {
	base

	ReceivedDate   string
	CourierCompany string
	Remarks        string

	packages *Collection[*models.PackageRecord]
	errors   Errors
}

// NewMailInboundForm returns a form with one empty package.
func NewMailInboundForm() *MailInboundForm {
	f := &MailInboundForm{base: newBase("mail_inbound"), errors: Errors{}}
	f.packages = NewCollection(CollectionPackages, "package", 1, &f.ids, models.NewPackageRecord)
	return f
}

// Kind implements Draft.
func (f *MailInboundForm) Kind() string { return KindMailInbound }

// Packages returns the package list.
func (f *MailInboundForm) Packages() *Collection[*models.PackageRecord] {
	return f.packages
}

// AddRow implements Draft.
func (f *MailInboundForm) AddRow(collection string) error {
	if err := f.editable(); err != nil {
		return err
	}
	if collection != CollectionPackages {
		return fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}
	f.packages.Add()
	return nil
}

// RemoveRow implements Draft. The record's files and errors go with it.
func (f *MailInboundForm) RemoveRow(collection string, index int) error {
	if err := f.editable(); err != nil {
		return err
	}
	if collection != CollectionPackages {
		return fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}
	err := f.packages.Remove(index)
	if errors.Is(err, ErrMinimumRows) {
		f.notifyError(f.packages.MinimumMessage())
	}
	return err
}

// SetField implements Draft.
func (f *MailInboundForm) SetField(collection string, index int, field, value string) error {
	if err := f.editable(); err != nil {
		return err
	}
	switch collection {
	case "":
		switch field {
		case "received_date":
			f.ReceivedDate = strings.TrimSpace(value)
		case "courier_company":
			f.CourierCompany = value
		case "remarks":
			f.Remarks = value
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
		f.errors.Clear(Top(field))
		return nil
	case CollectionPackages:
		p, err := f.packages.At(index)
		if err != nil {
			return err
		}
		if err := p.Set(field, value); err != nil {
			return fmt.Errorf("%w: %v", ErrUnknownField, err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}
}

// Attach implements Draft. Files always belong to one package.
func (f *MailInboundForm) Attach(collection string, index int, a payload.Attachment) error {
	if err := f.editable(); err != nil {
		return err
	}
	if collection != CollectionPackages {
		return fmt.Errorf("%w: attachments belong to a package", ErrUnknownCollection)
	}
	p, err := f.packages.At(index)
	if err != nil {
		return err
	}
	p.Files = append(p.Files, a)
	return nil
}

// Validate implements Form. Package errors are stored on each record and
// also returned keyed by position.
func (f *MailInboundForm) Validate() (Errors, bool) {
	top := Errors{}
	switch {
	case blank(f.ReceivedDate):
		top.Set(Top("received_date"), "Received date is required")
	case !isDate(f.ReceivedDate):
		top.Set(Top("received_date"), "Received date must be in YYYY-MM-DD format")
	}
	if blank(f.CourierCompany) {
		top.Set(Top("courier_company"), "Courier company is required")
	}
	f.errors = top

	errs := Errors{}
	for k, msg := range top {
		errs[k] = msg
	}
	for i, p := range f.packages.Records() {
		validatePackage(p)
		for field, msg := range p.Errors {
			errs.Set(FieldKey{Collection: CollectionPackages, Row: i, Field: field}, msg)
		}
	}
	return errs, errs.Empty()
}

func validatePackage(p *models.PackageRecord) {
	p.ClearErrors()
	if blank(p.Sender) {
		p.SetError("sender", "Sender is required")
	}
	if blank(p.RecipientID) {
		p.SetError("recipient_id", "Recipient is required")
	}
	switch {
	case blank(p.PackageType):
		p.SetError("package_type", "Package type is required")
	case !oneOf(p.PackageType, models.PackageTypes):
		p.SetError("package_type", "Select a valid package type")
	case p.PackageType == models.OtherPackageType && blank(p.OtherType):
		p.SetError("other_type", "Please specify the package type")
	}
	if blank(p.Quantity) || strings.Trim(p.Quantity, "0") == "" {
		p.SetError("quantity", "Quantity is required")
	}
	if p.SenderMobile != "" && !hasLength(p.SenderMobile, models.MobileLength) {
		p.SetError("sender_mobile", "Mobile number must be 10 digits")
	}
}

// Summary implements Form.
func (f *MailInboundForm) Summary(Errors) string {
	return DefaultSummary
}

// Flatten implements Form.
func (f *MailInboundForm) Flatten(b *payload.Builder) {
	b.Scalar("received_date", f.ReceivedDate).
		Scalar("courier_company", f.CourierCompany).
		Scalar("remarks", f.Remarks)
	pkgs := f.packages.Records()
	b.Collection(CollectionPackages, records(pkgs))
	for i, p := range pkgs {
		b.AttachMember(CollectionPackages, i, "attachments", p.Files...)
	}
}

// ------------------- view -------------------

// MailInboundView is the JSON shape of a mail-inbound draft.
type MailInboundView struct {
	Kind           string                      `json:"kind"`
	State          string                      `json:"state"`
	ReceivedDate   string                      `json:"received_date"`
	CourierCompany string                      `json:"courier_company"`
	Remarks        string                      `json:"remarks"`
	Packages       []Row[*models.PackageRecord] `json:"packages"`
	PackageTypes   []string                    `json:"package_types"`
	Errors         []FieldError                `json:"errors"`
	Notifications  []Notification              `json:"notifications"`
}

// View implements Draft. Queued notifications are drained.
func (f *MailInboundForm) View() any {
	return MailInboundView{
		Kind:           KindMailInbound,
		State:          f.lc.Current(),
		ReceivedDate:   f.ReceivedDate,
		CourierCompany: f.CourierCompany,
		Remarks:        f.Remarks,
		Packages:       f.packages.Rows(),
		PackageTypes:   models.PackageTypes,
		Errors:         f.errors.List(),
		Notifications:  f.notes.Drain(),
	}
}
