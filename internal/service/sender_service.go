package service

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"datefinder/internal/entities"
)

// SenderService composes and delivers invitation links for an event.
// Delivery is asynchronous: the caller gets control back immediately and
// failures are logged, never surfaced to the inviting participant.
type SenderService struct {
	BaseURL string
}

func NewSenderService(baseURL string) *SenderService {
	return &SenderService{BaseURL: baseURL}
}

type inviteEmailData struct {
	EventName   string
	FromName    string
	WindowStart string
	WindowEnd   string
	EventURL    string
	CurrentYear int
}

// EventURL is the shareable link participants open to vote.
func (s *SenderService) EventURL(event *entities.Event) string {
	return fmt.Sprintf("%s/event/%s", s.BaseURL, event.Code)
}

// SendInviteEmail emails the event link to one recipient.
func (s *SenderService) SendInviteEmail(event *entities.Event, toEmail, fromName string) {
	data := inviteEmailData{
		EventName:   event.Name,
		FromName:    fromName,
		WindowStart: event.Window.Start.Time().Format("02 Jan 2006"),
		WindowEnd:   event.Window.End.Time().Format("02 Jan 2006"),
		EventURL:    s.EventURL(event),
		CurrentYear: time.Now().Year(),
	}

	subject := fmt.Sprintf("%s invites you to pick dates for \"%s\"", data.FromName, data.EventName)
	plainTextBody := fmt.Sprintf(
		"Hi,\n\n%s is planning \"%s\" and wants to know which dates work for you.\n\n"+
			"Candidate dates: %s – %s\n\n"+
			"Mark your availability here: %s\n\n"+
			"DateFinder",
		data.FromName, data.EventName, data.WindowStart, data.WindowEnd, data.EventURL,
	)

	var htmlBody string
	tmplPath := filepath.Join("internal", "templates", "invite_email.html")
	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		log.Warn().Err(err).Str("template", tmplPath).Msg("could not parse invite email template, sending plain text only")
	} else {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			log.Warn().Err(err).Str("event", event.Code).Msg("could not execute invite email template")
		} else {
			htmlBody = buf.String()
		}
	}

	go func(toEmail, subject, plainBody, htmlBodyContent string) {
		if err := SendEmailWithSendGrid(toEmail, "", subject, plainBody, htmlBodyContent); err != nil {
			log.Warn().Err(err).Str("event", event.Code).Str("to", toEmail).Msg("invite email delivery failed")
		}
	}(toEmail, subject, plainTextBody, htmlBody)
}

// SendInviteSMS texts the event link to one phone number.
func (s *SenderService) SendInviteSMS(event *entities.Event, toPhone, fromName string) {
	message := fmt.Sprintf("DateFinder: %s invites you to pick dates for \"%s\".\nVote here: %s",
		fromName, event.Name, s.EventURL(event))

	go func() {
		if err := SendSMS(toPhone, message); err != nil {
			log.Warn().Err(err).Str("event", event.Code).Str("to", toPhone).Msg("invite SMS delivery failed")
		}
	}()
}
