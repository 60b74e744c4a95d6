package mailer

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jask/invoicedesk/internal/config"
)

func TestBuildMessage(t *testing.T) {
	msg, err := BuildMessage("billing@acme.test", Message{
		To:          "ap@globex.test",
		Subject:     "Invoice #3 from Acme",
		Body:        "Total Due: 10.00",
		Attachments: []Attachment{{Filename: "invoice_3.pdf", Data: []byte("%PDF-1.3")}},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()
	assert.Contains(t, raw, "Subject: Invoice #3 from Acme")
	assert.Contains(t, raw, "<ap@globex.test>")
	assert.Contains(t, raw, `filename="invoice_3.pdf"`)
}

func TestBuildMessageRejectsBadRecipient(t *testing.T) {
	_, err := BuildMessage("billing@acme.test", Message{To: "not an address"})
	require.Error(t, err)
}

func TestClientOptions(t *testing.T) {
	m := New(config.SMTPConfig{Host: "smtp.example.test", Port: 587, Timeout: time.Second}, nil)
	c, err := m.client(Credentials{Email: "a@example.test", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "smtp.example.test:587", c.ServerAddr())
}
