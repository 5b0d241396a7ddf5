package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishRequestHTML(t *testing.T) {
	body := PublishRequestHTML("A Day at the Museum", "Alex Writer")

	assert.Contains(t, body, "Request to publish article")
	assert.Contains(t, body, "Alex Writer has requested that their article be published:")
	assert.Contains(t, body, "A Day at the Museum")
}

func TestConfirmEmailHTMLCarriesActionLink(t *testing.T) {
	body := ConfirmEmailHTML("https://read.example.com/auth/confirm?token=abc")

	assert.Contains(t, body, `href="https://read.example.com/auth/confirm?token=abc"`)
	assert.Contains(t, body, "Confirm email")
}

func TestPasswordResetHTMLCarriesActionLink(t *testing.T) {
	body := PasswordResetHTML("https://read.example.com/auth/password-reset?token=abc")

	assert.Contains(t, body, `href="https://read.example.com/auth/password-reset?token=abc"`)
	assert.Contains(t, body, "Reset password")
	assert.Contains(t, body, "The link expires in ten minutes.")
}

func TestInviteBodies(t *testing.T) {
	assert.Contains(t, PublisherInviteHTML(), "Invitation to become a publisher")

	writer := WriterInviteHTML("Pat Publisher")
	assert.Contains(t, writer, "Invitation to become a writer")
	assert.Contains(t, writer, "Pat Publisher has added you as a writer")
}

func TestRenderEscapesContent(t *testing.T) {
	body := WriterInviteHTML("<script>alert(1)</script>")

	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
}
