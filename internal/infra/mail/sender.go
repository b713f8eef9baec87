package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/leadsync/internal/entity"
)

//go:embed templates/sync_report.html
var templateFS embed.FS

var syncReportTmpl = template.Must(template.ParseFS(templateFS, "templates/sync_report.html"))

// dialer é satisfeito por *gomail.Dialer.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailSender struct {
	From   string
	To     string
	dialer dialer
}

type syncReportData struct {
	Title string
	When  string
	Event entity.SyncEvent
}

func NewEmailSender(host string, port int, user, password, from, to string) *EmailSender {
	return &EmailSender{
		From:   from,
		To:     to,
		dialer: gomail.NewDialer(host, port, user, password),
	}
}

// SendSyncReport manda o relatório só para falhas e syncs com aviso; o resto é ignorado.
func (s *EmailSender) SendSyncReport(ctx context.Context, event entity.SyncEvent) error {
	if !shouldNotify(event) {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	subject, body, err := renderSyncReport(event)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	log.Printf("📧 [MAIL] Relatório de sync (%s) enviado para %s", event.Status, s.To)
	return nil
}

func shouldNotify(event entity.SyncEvent) bool {
	return event.Status == entity.SyncStatusError || event.Warning != ""
}

func renderSyncReport(event entity.SyncEvent) (string, string, error) {
	title := fmt.Sprintf("Lead sync failed for user %s", event.UserID)
	if event.Status != entity.SyncStatusError {
		title = fmt.Sprintf("Lead sync finished with a warning for user %s", event.UserID)
	}

	data := syncReportData{
		Title: title,
		When:  event.OccurredAt.UTC().Format(time.RFC1123),
		Event: event,
	}

	var body bytes.Buffer
	if err := syncReportTmpl.Execute(&body, data); err != nil {
		return "", "", fmt.Errorf("erro ao processar template: %w", err)
	}
	return title, body.String(), nil
}
