// file: payload/builder.go
package payload

import "fmt"

// KeyScheme turns a logical field position into the backend's field name.
// Form code only talks to a Builder; the scheme is the one place that knows
// the wire naming convention.
type KeyScheme interface {
	Scalar(root, field string) string
	Member(root, collection string, index int, field string) string
	Attachment(root, field string) string
	MemberAttachment(root, collection string, index int, field string) string
}

// Bracket is the nested-attributes convention:
// root[field], root[collection_attributes][i][field], root[field][].
type Bracket struct{}

// Scalar implements KeyScheme.
func (Bracket) Scalar(root, field string) string {
	return fmt.Sprintf("%s[%s]", root, field)
}

// Member implements KeyScheme.
func (Bracket) Member(root, collection string, index int, field string) string {
	return fmt.Sprintf("%s[%s_attributes][%d][%s]", root, collection, index, field)
}

// Attachment implements KeyScheme.
func (Bracket) Attachment(root, field string) string {
	return fmt.Sprintf("%s[%s][]", root, field)
}

// MemberAttachment implements KeyScheme.
func (Bracket) MemberAttachment(root, collection string, index int, field string) string {
	return fmt.Sprintf("%s[%s_attributes][%d][%s][]", root, collection, index, field)
}

// Pair is one field of a record. Records list only the fields their variant
// carries; a field left out of the list is omitted from the payload.
type Pair struct {
	Name  string
	Value string
}

// Record is anything that can list its payload fields in order.
type Record interface {
	PayloadFields() []Pair
}

// Builder accumulates a Payload for one root object.
type Builder struct {
	root   string
	scheme KeyScheme
	p      *Payload
}

// NewBuilder returns a builder for root using scheme.
func NewBuilder(root string, scheme KeyScheme) *Builder {
	if scheme == nil {
		scheme = Bracket{}
	}
	return &Builder{root: root, scheme: scheme, p: New()}
}

// Scalar emits one top-level field. Empty values are still emitted.
func (b *Builder) Scalar(field, value string) *Builder {
	b.p.Add(b.scheme.Scalar(b.root, field), value)
	return b
}

// Collection emits every record at its position in records.
func (b *Builder) Collection(name string, records []Record) *Builder {
	for i, r := range records {
		for _, f := range r.PayloadFields() {
			b.p.Add(b.scheme.Member(b.root, name, i, f.Name), f.Value)
		}
	}
	return b
}

// Attach adds files under the shared top-level attachment key.
func (b *Builder) Attach(field string, files ...Attachment) *Builder {
	key := b.scheme.Attachment(b.root, field)
	for _, f := range files {
		b.p.AddFile(key, f)
	}
	return b
}

// AttachMember adds files belonging to one record of a collection.
func (b *Builder) AttachMember(collection string, index int, field string, files ...Attachment) *Builder {
	key := b.scheme.MemberAttachment(b.root, collection, index, field)
	for _, f := range files {
		b.p.AddFile(key, f)
	}
	return b
}

// Payload returns the accumulated payload.
func (b *Builder) Payload() *Payload {
	return b.p
}
