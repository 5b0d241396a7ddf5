package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildBody(t *testing.T) {
	msg := Message{
		To:      []string{"one@example.com", "two@example.com"},
		Subject: "Request to publish article",
		HTML:    "<p>hello</p>",
	}

	body := string(buildBody("noreply@example.com", "author@example.com", msg))

	assert.Contains(t, body, "From: noreply@example.com\r\n")
	assert.Contains(t, body, "To: one@example.com, two@example.com\r\n")
	assert.Contains(t, body, "Subject: Request to publish article\r\n")
	assert.Contains(t, body, "Reply-To: author@example.com\r\n")
	assert.Contains(t, body, "\r\n\r\n<p>hello</p>")
}

func TestBuildBodyOmitsEmptyReplyTo(t *testing.T) {
	body := string(buildBody("noreply@example.com", "", Message{To: []string{"one@example.com"}}))

	assert.NotContains(t, body, "Reply-To:")
}

func TestSendDisabledIsANoop(t *testing.T) {
	s := New(Config{Enable: false})
	assert.NoError(t, s.Send(Message{To: []string{"one@example.com"}}))
}
