package astromail

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type captured struct {
	from string
	to   []string
	raw  string
}

func captureSender(c *captured) gomail.SendFunc {
	return func(from string, to []string, msg io.WriterTo) error {
		var buf bytes.Buffer
		if _, err := msg.WriteTo(&buf); err != nil {
			return err
		}
		c.from, c.to, c.raw = from, to, buf.String()
		return nil
	}
}

func TestReporterSend(t *testing.T) {
	var got captured
	cfg := Config{From: "mbr@example.com", To: []string{"ops@example.com", "dev@example.com"}}
	r := NewReporterWithSender(cfg, captureSender(&got))

	err := r.Send(Report{
		Subject:    "MBR batch: 2 cases, 0 failed",
		Body:       "all cases reduced",
		Attachment: []byte("-13 -25 7 45\n0 0 1 1\n"),
	})
	require.NoError(t, err)

	assert.Equal(t, "mbr@example.com", got.from)
	assert.Equal(t, []string{"ops@example.com", "dev@example.com"}, got.to)
	assert.Contains(t, got.raw, "Subject: MBR batch: 2 cases, 0 failed")
	assert.Contains(t, got.raw, "all cases reduced")
	assert.Contains(t, got.raw, `filename="results.txt"`)
}

func TestReporterSendWithoutAttachment(t *testing.T) {
	var got captured
	r := NewReporterWithSender(Config{From: "a@b.c", To: []string{"x@y.z"}}, captureSender(&got))

	require.NoError(t, r.Send(Report{Subject: "s", Body: "b"}))
	assert.NotContains(t, got.raw, "filename=")
}

func TestReporterErrors(t *testing.T) {
	r := NewReporterWithSender(Config{From: "a@b.c"}, captureSender(&captured{}))
	assert.ErrorIs(t, r.Send(Report{}), ErrNoRecipients)

	boom := errors.New("smtp down")
	failing := gomail.SendFunc(func(string, []string, io.WriterTo) error { return boom })
	r = NewReporterWithSender(Config{From: "a@b.c", To: []string{"x@y.z"}}, failing)
	assert.ErrorContains(t, r.Send(Report{Subject: "s"}), boom.Error())
}

func TestParseRecipientsAndEnabled(t *testing.T) {
	assert.Equal(t, []string{"a@x", "b@x"}, ParseRecipients(" a@x, ,b@x,"))
	assert.Nil(t, ParseRecipients(""))

	assert.False(t, Config{Host: "smtp"}.Enabled())
	assert.True(t, Config{Host: "smtp", To: []string{"a@x"}}.Enabled())
}
