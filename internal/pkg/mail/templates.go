package mail

import (
	"bytes"
	"html/template"
	"time"
)

const layoutTpl = `<!DOCTYPE html>
<html lang="en">
<body style="font-family:sans-serif;background:#f5f5f5;padding:20px">
<div style="max-width:600px;margin:0 auto;background:#fff;border-radius:8px;padding:24px">
  <h2 style="color:#333">{{.Heading}}</h2>
  {{range .Lines}}<p style="color:#444;line-height:1.5">{{.}}</p>{{end}}
  {{if .ActionURL}}
  <p style="margin-top:24px">
    <a href="{{.ActionURL}}" style="background:#4f46e5;color:#fff;padding:8px 16px;text-decoration:none;border-radius:4px">{{.ActionLabel}}</a>
  </p>
  {{end}}
  <p style="color:#999;font-size:12px;margin-top:24px">This email was sent automatically. If this wasn't you, you can ignore it.<br />&copy;{{.Year}} Easy Read</p>
</div>
</body>
</html>`

var layout = template.Must(template.New("mail").Parse(layoutTpl))

type templateData struct {
	Heading     string
	Lines       []string
	ActionURL   string
	ActionLabel string
	Year        int
}

func render(data templateData) string {
	data.Year = time.Now().Year()
	var buf bytes.Buffer
	if err := layout.Execute(&buf, data); err != nil {
		return ""
	}
	return buf.String()
}

// PublisherInviteHTML is the body sent when admin promotes a user.
func PublisherInviteHTML() string {
	return render(templateData{
		Heading: "Invitation to become a publisher",
		Lines: []string{
			"You have been promoted to publisher on Easy Read.",
			"Publishers review and publish articles requested by their writers, and can publish their own work directly.",
		},
	})
}

// WriterInviteHTML is the body sent when a publisher recruits a writer.
func WriterInviteHTML(publisherName string) string {
	return render(templateData{
		Heading: "Invitation to become a writer",
		Lines: []string{
			publisherName + " has added you as a writer on Easy Read.",
			"Your future publication requests will be sent to them for review.",
		},
	})
}

// PublishRequestHTML is the body of a publication request notification.
func PublishRequestHTML(articleTitle, authorName string) string {
	return render(templateData{
		Heading: "Request to publish article",
		Lines: []string{
			authorName + " has requested that their article be published:",
			"“" + articleTitle + "”",
			"Review the request from your publisher dashboard.",
		},
	})
}

// ConfirmEmailHTML is the body of the address confirmation email.
func ConfirmEmailHTML(confirmURL string) string {
	return render(templateData{
		Heading:     "Confirm your email address",
		Lines:       []string{"Please confirm your email address to request publication of your articles."},
		ActionURL:   confirmURL,
		ActionLabel: "Confirm email",
	})
}

// PasswordResetHTML is the body of the password reset email.
func PasswordResetHTML(resetURL string) string {
	return render(templateData{
		Heading:     "Reset your password",
		Lines:       []string{"A password reset was requested for your account. The link expires in ten minutes."},
		ActionURL:   resetURL,
		ActionLabel: "Reset password",
	})
}
