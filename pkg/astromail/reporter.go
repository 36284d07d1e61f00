// Package astromail delivers batch reports over SMTP.
package astromail

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/gomail.v2"
)

var ErrNoRecipients = errors.New("mail report has no recipients")

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// Enabled reports whether enough is configured to attempt delivery.
func (c Config) Enabled() bool {
	return c.Host != "" && len(c.To) > 0
}

// Report is one message: a short text body plus the raw results as an
// attachment.
type Report struct {
	Subject        string
	Body           string
	AttachmentName string
	Attachment     []byte
}

type Reporter struct {
	cfg    Config
	sender gomail.Sender
}

// NewReporter sends through an SMTP dialer built from cfg.
func NewReporter(cfg Config) *Reporter {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &Reporter{cfg: cfg, sender: dialSender{d}}
}

// NewReporterWithSender uses s instead of dialing SMTP.
func NewReporterWithSender(cfg Config, s gomail.Sender) *Reporter {
	return &Reporter{cfg: cfg, sender: s}
}

func (r *Reporter) Send(rep Report) error {
	if len(r.cfg.To) == 0 {
		return ErrNoRecipients
	}
	if err := gomail.Send(r.sender, r.message(rep)); err != nil {
		return fmt.Errorf("send mail report: %w", err)
	}
	return nil
}

func (r *Reporter) message(rep Report) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", r.cfg.From)
	m.SetHeader("To", r.cfg.To...)
	m.SetHeader("Subject", rep.Subject)
	m.SetBody("text/plain", rep.Body)

	if len(rep.Attachment) > 0 {
		name := rep.AttachmentName
		if name == "" {
			name = "results.txt"
		}
		data := rep.Attachment
		m.Attach(name, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}))
	}
	return m
}

// ParseRecipients splits a comma separated address list, dropping blanks.
func ParseRecipients(list string) []string {
	var out []string
	for _, a := range strings.Split(list, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// dialSender opens one SMTP session per Send.
type dialSender struct {
	d *gomail.Dialer
}

func (s dialSender) Send(from string, to []string, msg io.WriterTo) error {
	sc, err := s.d.Dial()
	if err != nil {
		return err
	}
	defer sc.Close()
	return sc.Send(from, to, msg)
}
