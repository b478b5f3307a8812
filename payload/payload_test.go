// file: payload/payload_test.go
package payload

import (
	"io"
	"mime"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row []Pair

func (r row) PayloadFields() []Pair { return r }

func TestBracket_Keys(t *testing.T) {
	var s Bracket
	assert.Equal(t, "mom_detail[title]", s.Scalar("mom_detail", "title"))
	assert.Equal(t, "mom_detail[mom_tasks_attributes][2][end_date]", s.Member("mom_detail", "mom_tasks", 2, "end_date"))
	assert.Equal(t, "mom_detail[attachments][]", s.Attachment("mom_detail", "attachments"))
	assert.Equal(t, "mail_inbound[packages_attributes][0][attachments][]", s.MemberAttachment("mail_inbound", "packages", 0, "attachments"))
}

func TestBuilder_OrderAndPositions(t *testing.T) {
	b := NewBuilder("mom_detail", nil)
	b.Scalar("title", "Sprint Review").Scalar("venue", "")
	b.Collection("mom_attendees", []Record{
		row{{"user_id", "4"}},
		row{{"user_id", "9"}},
	})
	b.Collection("mom_tasks", []Record{row{{"description", "Ship it"}}})

	p := b.Payload()
	assert.Equal(t, []Field{
		{"mom_detail[title]", "Sprint Review"},
		{"mom_detail[venue]", ""},
		{"mom_detail[mom_attendees_attributes][0][user_id]", "4"},
		{"mom_detail[mom_attendees_attributes][1][user_id]", "9"},
		{"mom_detail[mom_tasks_attributes][0][description]", "Ship it"},
	}, p.Fields())
	assert.Len(t, p.KeysWithPrefix("mom_detail[mom_attendees_attributes]"), 2)
}

func TestPayload_EncodeKeepsOrder(t *testing.T) {
	p := New()
	p.Add("b[x]", "1 2")
	p.Add("a[y]", "&")
	assert.Equal(t, "b%5Bx%5D=1+2&a%5By%5D=%26", p.Encode())
}

func TestPayload_Multipart(t *testing.T) {
	b := NewBuilder("mail_inbound", Bracket{})
	b.Scalar("courier_company", "DHL")
	b.Attach("attachments", Attachment{Filename: "a.pdf", ContentType: "application/pdf", Content: []byte("%PDF")})
	b.AttachMember("packages", 0, "attachments", Attachment{Filename: "b.jpg", Content: []byte("jpg")})

	body, ct, err := b.Payload().Multipart()
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(ct)
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)

	r := multipart.NewReader(body, params["boundary"])
	form, err := r.ReadForm(1 << 20)
	require.NoError(t, err)

	assert.Equal(t, []string{"DHL"}, form.Value["mail_inbound[courier_company]"])
	require.Len(t, form.File["mail_inbound[attachments][]"], 1)
	fh := form.File["mail_inbound[packages_attributes][0][attachments][]"]
	require.Len(t, fh, 1)
	assert.Equal(t, "b.jpg", fh[0].Filename)
	assert.Equal(t, "application/octet-stream", fh[0].Header.Get("Content-Type"))

	f, err := fh[0].Open()
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "jpg", string(data))
}
