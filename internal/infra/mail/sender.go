package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/xavierca1/residence-leads/internal/entity"
	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templatesFS embed.FS

var newLeadTemplate = template.Must(
	template.New("new_lead.html").
		Funcs(template.FuncMap{"deref": func(p *int) int { return *p }}).
		ParseFS(templatesFS, "templates/new_lead.html"),
)

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

func NewEmailSender(host string, port int, user, password, from, to, adminURL string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		To:       to,
		AdminURL: adminURL,
		dialer:   gomail.NewDialer(host, port, user, password),
	}
}

// NotifyLeadCreated mails the sales inbox about a new lead.
func (s *EmailSender) NotifyLeadCreated(_ context.Context, lead *entity.Lead) error {
	msg, err := s.buildNewLeadMessage(lead)
	if err != nil {
		return err
	}

	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send lead notification: %w", err)
	}
	return nil
}

func (s *EmailSender) buildNewLeadMessage(lead *entity.Lead) (*gomail.Message, error) {
	label := typeLabel(lead.Type)
	body, err := s.renderNewLead(lead)
	if err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To)
	m.SetHeader("Reply-To", lead.Email)
	m.SetHeader("Subject", fmt.Sprintf("New %s inquiry from %s %s", strings.ToLower(label), lead.FirstName, lead.LastName))
	m.SetBody("text/html", body)
	return m, nil
}

func (s *EmailSender) renderNewLead(lead *entity.Lead) (string, error) {
	data := NewLeadEmailData{Lead: lead, TypeLabel: typeLabel(lead.Type)}
	if s.AdminURL != "" {
		data.AdminURL = strings.TrimRight(s.AdminURL, "/") + "/admin/leads/" + lead.ID
	}

	var body bytes.Buffer
	if err := newLeadTemplate.Execute(&body, data); err != nil {
		return "", fmt.Errorf("render lead notification: %w", err)
	}
	return body.String(), nil
}

func typeLabel(t entity.LeadType) string {
	if label, ok := typeLabels[t]; ok {
		return label
	}
	return string(t)
}
