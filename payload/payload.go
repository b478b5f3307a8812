// Package payload holds the flat, ordered request body built at submit time
// and the key scheme that maps nested form state onto backend field names.
// File: payload/payload.go
package payload

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"strings"
)

// Field is one key/value entry in submission order.
type Field struct {
	Key   string
	Value string
}

// Attachment is a binary part attached to a form.
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"-"`
}

// File is an attachment placed under a (possibly repeated) key.
type File struct {
	Key string
	Attachment
}

// Payload is write-only output: built fresh for one request and never read back
// by the form that produced it.
type Payload struct {
	fields []Field
	files  []File
}

// New returns an empty payload.
func New() *Payload {
	return &Payload{}
}

// Add appends a scalar entry.
func (p *Payload) Add(key, value string) {
	p.fields = append(p.fields, Field{Key: key, Value: value})
}

// AddFile appends a binary part under key.
func (p *Payload) AddFile(key string, a Attachment) {
	p.files = append(p.files, File{Key: key, Attachment: a})
}

// Fields returns the scalar entries in order.
func (p *Payload) Fields() []Field {
	return append([]Field(nil), p.fields...)
}

// Files returns the binary parts in order.
func (p *Payload) Files() []File {
	return append([]File(nil), p.files...)
}

// Get returns the first value stored under key.
func (p *Payload) Get(key string) (string, bool) {
	for _, f := range p.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// KeysWithPrefix returns every scalar key starting with prefix, in order.
func (p *Payload) KeysWithPrefix(prefix string) []string {
	var keys []string
	for _, f := range p.fields {
		if strings.HasPrefix(f.Key, prefix) {
			keys = append(keys, f.Key)
		}
	}
	return keys
}

// Len returns the number of scalar entries.
func (p *Payload) Len() int { return len(p.fields) }

// Encode returns the urlencoded body preserving insertion order.
func (p *Payload) Encode() string {
	var b strings.Builder
	for i, f := range p.fields {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(f.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(f.Value))
	}
	return b.String()
}

// Multipart renders the payload as a multipart body and returns it with its content type.
func (p *Payload) Multipart() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range p.fields {
		if err := w.WriteField(f.Key, f.Value); err != nil {
			return nil, "", fmt.Errorf("writing field %s: %w", f.Key, err)
		}
	}
	for _, f := range p.files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(f.Key), escapeQuotes(f.Filename)))
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("creating part %s: %w", f.Key, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, "", fmt.Errorf("writing part %s: %w", f.Key, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
