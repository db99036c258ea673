package email

import (
	"bytes"
	"fmt"
	"html/template"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"
	"time"

	"portfolio-backend/internal/domain"

	"github.com/microcosm-cc/bluemonday"
)

// SubjectPrefix marks operator notifications coming from the contact form
const SubjectPrefix = "New Contact Form Submission: "

var strictPolicy = bluemonday.StrictPolicy()

// contactEmailTemplate is the HTML alternative for contact notifications
var contactEmailTemplate = template.Must(template.New("contact").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New Contact Form Submission</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #1e3a8a; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .label { font-weight: bold; color: #555; }
        .message-box { background: white; padding: 15px; border-left: 4px solid #3b82f6; margin-top: 10px; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header"><h1>New Contact Form Submission</h1></div>
        <div class="content">
            <p><span class="label">From:</span> {{.Name}} ({{.Email}})</p>
            <p><span class="label">Subject:</span> {{.Subject}}</p>
            <div class="label">Message:</div>
            <div class="message-box">{{.Message}}</div>
        </div>
        <div class="footer">
            <p>Sent from the portfolio contact form. Record {{.ID}}.</p>
            <p>Reply to this email to answer {{.Email}} directly.</p>
        </div>
    </div>
</body>
</html>`))

type contactTemplateData struct {
	ID      string
	Name    string
	Email   string
	Subject string
	Message template.HTML
}

// ComposeContactEmail derives the operator notification from a stored message
func (s *EmailService) ComposeContactEmail(msg *domain.ContactMessage) (domain.NotificationEmail, error) {
	var html bytes.Buffer
	err := contactEmailTemplate.Execute(&html, contactTemplateData{
		ID:      msg.ID,
		Name:    msg.Name,
		Email:   msg.Email,
		Subject: msg.Subject,
		Message: renderMessageHTML(msg.Message),
	})
	if err != nil {
		return domain.NotificationEmail{}, fmt.Errorf("failed to execute email template: %w", err)
	}

	return domain.NotificationEmail{
		FromName:  msg.Name,
		FromEmail: s.fromEmail,
		To:        s.toEmail,
		ReplyTo:   msg.Email,
		Subject:   SubjectPrefix + msg.Subject,
		TextBody:  fmt.Sprintf("Message from %s (%s):\n\n%s", msg.Name, msg.Email, msg.Message),
		HTMLBody:  html.String(),
	}, nil
}

// renderMessageHTML strips all markup, leaving escaped text with line breaks kept
func renderMessageHTML(message string) template.HTML {
	clean := strictPolicy.Sanitize(message)
	clean = strings.ReplaceAll(clean, "\r\n", "\n")
	return template.HTML(strings.ReplaceAll(clean, "\n", "<br>\n"))
}

// BuildMIMEMessage renders a multipart/alternative message ready for DATA
func BuildMIMEMessage(e domain.NotificationEmail, date time.Time, messageID string) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := writePart(mw, "text/plain; charset=UTF-8", e.TextBody); err != nil {
		return nil, err
	}
	if e.HTMLBody != "" {
		if err := writePart(mw, "text/html; charset=UTF-8", e.HTMLBody); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	from := mail.Address{Name: headerValue(e.FromName), Address: e.FromEmail}
	headers := []struct{ key, value string }{
		{"From", from.String()},
		{"To", e.To},
		{"Reply-To", headerValue(e.ReplyTo)},
		{"Subject", mime.QEncoding.Encode("utf-8", headerValue(e.Subject))},
		{"Date", date.Format(time.RFC1123Z)},
		{"Message-ID", messageID},
		{"MIME-Version", "1.0"},
		{"Content-Type", "multipart/alternative; boundary=\"" + mw.Boundary() + "\""},
	}

	var msg bytes.Buffer
	for _, h := range headers {
		if h.value == "" {
			continue
		}
		fmt.Fprintf(&msg, "%s: %s\r\n", h.key, h.value)
	}
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())
	return msg.Bytes(), nil
}

func writePart(mw *multipart.Writer, contentType, content string) error {
	part, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {contentType},
		"Content-Transfer-Encoding": {"quoted-printable"},
	})
	if err != nil {
		return err
	}
	qp := quotedprintable.NewWriter(part)
	if _, err := qp.Write([]byte(content)); err != nil {
		return err
	}
	return qp.Close()
}

// headerValue flattens line breaks so user input cannot add headers
func headerValue(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}
