// File: models/mail_inbound.go
package models

import (
	"fmt"
	"strings"

	"go-facilities-admin/payload"
)

// Package types offered at the intake desk. OtherPackageType requires a
// free-text description.
const (
	PackageTypeDocument = "Document"
	PackageTypeParcel   = "Parcel"
	OtherPackageType    = "Others"
)

// PackageTypes lists the accepted package_type values.
var PackageTypes = []string{PackageTypeDocument, PackageTypeParcel, OtherPackageType}

// ----------------------- package record model -----------------------

// PackageRecord is one received item. Each record carries its own files and
// its own field errors, so removing a record discards both.
type PackageRecord struct {
	Sender       string               `json:"sender"`
	RecipientID  string               `json:"recipient_id"`
	PackageType  string               `json:"package_type"`
	OtherType    string               `json:"other_type"`
	AWBNumber    string               `json:"awb_number"`
	Quantity     string               `json:"quantity"`
	SenderMobile string               `json:"sender_mobile"`
	Remarks      string               `json:"remarks"`
	Files        []payload.Attachment `json:"files"`
	Errors       map[string]string    `json:"errors,omitempty"`
}

// NewPackageRecord returns a record with default values.
func NewPackageRecord() *PackageRecord {
	return &PackageRecord{Quantity: "1", Errors: make(map[string]string)}
}

// Set replaces one field after normalizing it and clears that field's error.
// Moving package_type away from "Others" also clears other_type and its error.
func (p *PackageRecord) Set(field, value string) error {
	switch field {
	case "sender":
		p.Sender = value
	case "recipient_id":
		p.RecipientID = DigitsOnly(value, 0)
	case "package_type":
		p.PackageType = strings.TrimSpace(value)
		if p.PackageType != OtherPackageType {
			p.OtherType = ""
			p.clearError("other_type")
		}
	case "other_type":
		p.OtherType = value
	case "awb_number":
		p.AWBNumber = AlphanumericUpper(value, AWBMaxLength)
	case "quantity":
		p.Quantity = DigitsOnly(value, QuantityLength)
	case "sender_mobile":
		p.SenderMobile = DigitsOnly(value, MobileLength)
	case "remarks":
		p.Remarks = value
	default:
		return fmt.Errorf("%w: package.%s", ErrUnknownField, field)
	}
	p.clearError(field)
	return nil
}

// SetError records a field error on this record.
func (p *PackageRecord) SetError(field, msg string) {
	if p.Errors == nil {
		p.Errors = make(map[string]string)
	}
	p.Errors[field] = msg
}

// ClearErrors drops every error on this record.
func (p *PackageRecord) ClearErrors() {
	p.Errors = make(map[string]string)
}

func (p *PackageRecord) clearError(field string) {
	delete(p.Errors, field)
}

// PayloadFields implements payload.Record. Files are attached separately.
func (p *PackageRecord) PayloadFields() []payload.Pair {
	return []payload.Pair{
		{Name: "sender", Value: p.Sender},
		{Name: "recipient_id", Value: p.RecipientID},
		{Name: "package_type", Value: p.PackageType},
		{Name: "other_type", Value: p.OtherType},
		{Name: "awb_number", Value: p.AWBNumber},
		{Name: "quantity", Value: p.Quantity},
		{Name: "sender_mobile", Value: p.SenderMobile},
		{Name: "remarks", Value: p.Remarks},
	}
}
