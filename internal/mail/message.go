package mail

import (
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	gomail "gopkg.in/mail.v2"
)

// Message is what a caller wants delivered in one Send call.
type Message struct {
	Recipients  []string
	Subject     string
	Body        string
	HTML        bool
	Attachments []string
}

// ParseRecipients splits a comma separated address list, trimming entries
// and dropping empty ones.
func ParseRecipients(s string) []string {
	return cleanRecipients(strings.Split(s, ","))
}

func cleanRecipients(in []string) []string {
	out := make([]string, 0, len(in))
	for _, r := range in {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

func (msg Message) contentType() string {
	if msg.HTML {
		return "text/html"
	}
	return "text/plain"
}

// compose builds the MIME message. Attachments are read here; the ones that
// fail are returned and left out.
func (m *Mailer) compose(from string, recipients []string, msg Message) (*gomail.Message, []string, []*AttachmentError) {
	out := gomail.NewMessage(gomail.SetCharset("UTF-8"))
	out.SetHeader("From", from)
	out.SetHeader("To", recipients...)
	out.SetHeader("Subject", msg.Subject)
	out.SetBody(msg.contentType(), msg.Body)

	attached := make([]string, 0, len(msg.Attachments))
	var skipped []*AttachmentError
	for _, path := range msg.Attachments {
		data, err := os.ReadFile(path)
		if err != nil {
			aerr := &AttachmentError{Path: path, Err: err}
			m.log.Errorf("Failed to attach %s: %v", path, err)
			skipped = append(skipped, aerr)
			continue
		}

		name := filepath.Base(path)
		out.Attach(name,
			gomail.SetHeader(map[string][]string{
				"Content-Type":        {mime.FormatMediaType("application/octet-stream", map[string]string{"name": name})},
				"Content-Disposition": {mime.FormatMediaType("attachment", map[string]string{"filename": name})},
			}),
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
		)
		attached = append(attached, name)
	}

	return out, attached, skipped
}
