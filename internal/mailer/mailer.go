// Package mailer sends the composed application email over SMTP with the
// resume PDF attached. Sending real mail is the one irreversible action in
// the pipeline, so the sender previews every message and blocks on an
// interactive confirmation unless told otherwise.
package mailer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	gomail "gopkg.in/gomail.v2"
)

// Default SMTP settings target Gmail with an app password.
const (
	DefaultSMTPHost = "smtp.gmail.com"
	DefaultSMTPPort = 465
)

// Message is one outgoing application email.
type Message struct {
	To         string
	Subject    string
	Body       string
	ResumePath string
}

// Sender delivers messages over SMTP. Input and Output are injectable so
// the confirmation prompt is testable; they default to stdin/stdout.
type Sender struct {
	Host        string
	Port        int
	SenderEmail string
	AppPassword string

	DryRun      bool
	AutoConfirm bool

	Input  io.Reader
	Output io.Writer

	// dial is swapped in tests to avoid a real SMTP connection.
	dial func(m *gomail.Message) error
}

// NewSender creates a sender with Gmail defaults for empty host/port.
func NewSender(senderEmail, appPassword string) *Sender {
	s := &Sender{
		Host:        DefaultSMTPHost,
		Port:        DefaultSMTPPort,
		SenderEmail: senderEmail,
		AppPassword: appPassword,
		Input:       os.Stdin,
		Output:      os.Stdout,
	}
	s.dial = s.smtpSend
	return s
}

// Send previews the message and, unless this is a dry run, confirms and
// delivers it. The bool reports whether mail actually went out: a dry run
// or a declined confirmation returns (false, nil), which is not an error.
func (s *Sender) Send(msg *Message) (bool, error) {
	if _, err := os.Stat(msg.ResumePath); err != nil {
		return false, fmt.Errorf("resume not found: %s", msg.ResumePath)
	}

	s.printPreview(msg)

	if s.DryRun {
		return false, nil
	}

	if !s.AutoConfirm && !s.confirm(msg.To) {
		fmt.Fprintln(s.out(), "[mailer] sending aborted by user")
		return false, nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.SenderEmail)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	m.Attach(msg.ResumePath)

	fmt.Fprintf(s.out(), "\n[mailer] sending email to %s...\n", msg.To)
	if err := s.dial(m); err != nil {
		return false, fmt.Errorf("smtp send failed: %w", err)
	}

	fmt.Fprintf(s.out(), "[mailer] email successfully sent to %s\n", msg.To)
	return true, nil
}

func (s *Sender) smtpSend(m *gomail.Message) error {
	d := gomail.NewDialer(s.Host, s.Port, s.SenderEmail, s.AppPassword)
	// Port 465 is implicit TLS, not STARTTLS.
	d.SSL = s.Port == 465
	return d.DialAndSend(m)
}

func (s *Sender) printPreview(msg *Message) {
	w := s.out()
	rule := strings.Repeat("=", 60)

	label := "PREVIEW: email ready to send"
	if s.DryRun {
		label = "DRY RUN: email NOT sent"
	}

	fmt.Fprintf(w, "\n%s\n[mailer] %s\n%s\n", rule, label, rule)
	fmt.Fprintf(w, "To:      %s\n", msg.To)
	fmt.Fprintf(w, "From:    %s\n", s.SenderEmail)
	fmt.Fprintf(w, "Subject: %s\n", msg.Subject)
	fmt.Fprintf(w, "Resume:  %s\n", filepath.Base(msg.ResumePath))
	fmt.Fprintf(w, "%s\n%s\n%s\n\n", strings.Repeat("-", 60), msg.Body, rule)
}

// confirm blocks on a y/n prompt. A closed or absent input stream counts
// as "n" so unattended runs never send mail by accident.
func (s *Sender) confirm(to string) bool {
	reader := bufio.NewReader(s.in())
	for {
		fmt.Fprintf(s.out(), "Send this email to %s? (y/n): ", to)
		line, err := reader.ReadString('\n')
		choice := strings.ToLower(strings.TrimSpace(line))
		switch choice {
		case "y":
			return true
		case "n":
			return false
		}
		if err != nil {
			return false
		}
		fmt.Fprintln(s.out(), "Please enter 'y' to send or 'n' to abort.")
	}
}

func (s *Sender) in() io.Reader {
	if s.Input != nil {
		return s.Input
	}
	return os.Stdin
}

func (s *Sender) out() io.Writer {
	if s.Output != nil {
		return s.Output
	}
	return os.Stdout
}
