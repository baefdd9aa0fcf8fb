package service

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"net/url"
	texttemplate "text/template"
	"time"

	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/infrastructure/mailer"

	"github.com/goodsign/monday"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

const (
	ReminderSubject      = "Promemoria Appuntamento - Centro Medico Plus"
	verificationSubject  = "Verifica il tuo indirizzo email - Centro Medico Plus"
	passwordResetSubject = "Reimposta la tua password - Centro Medico Plus"
)

var supportedLocales = []language.Tag{language.Italian, language.English}

var localeMatcher = language.NewMatcher(supportedLocales)

// ReminderEmail carries everything the reminder template shows
type ReminderEmail struct {
	To             string
	FirstName      string
	LastName       string
	Locale         string
	StartsAt       time.Time
	Time           string
	DoctorName     string
	Specialization string
	Location       string
}

type NotificationService interface {
	RenderReminder(data *ReminderEmail) (*mailer.Message, error)
	SendAppointmentReminder(ctx context.Context, data *ReminderEmail) error
	SendEmailVerification(ctx context.Context, user *entity.User, token string) error
	SendPasswordReset(ctx context.Context, user *entity.User, token string) error
}

type notificationService struct {
	mailer  mailer.Mailer
	log     *logrus.Logger
	baseURL string
}

func NewNotificationService(m mailer.Mailer, log *logrus.Logger, baseURL string) NotificationService {
	return &notificationService{
		mailer:  m,
		log:     log,
		baseURL: baseURL,
	}
}

// FormatLongDate renders t as "lunedì 9 giugno 2025" for Italian recipients
// and "Monday, June 9, 2025" for English ones.
func FormatLongDate(t time.Time, locale string) string {
	if resolveLocale(locale) == language.English {
		return monday.Format(t, "Monday, January 2, 2006", monday.LocaleEnUS)
	}
	return monday.Format(t, "Monday 2 January 2006", monday.LocaleItIT)
}

// resolveLocale picks the closest supported language, Italian when nothing matches
func resolveLocale(locale string) language.Tag {
	_, index := language.MatchStrings(localeMatcher, locale)
	return supportedLocales[index]
}

type reminderView struct {
	FullName       string
	Date           string
	Time           string
	DoctorName     string
	Specialization string
	Location       string
}

var reminderHTML = map[language.Tag]*htmltemplate.Template{
	language.Italian: htmltemplate.Must(htmltemplate.New("reminder_it").Parse(`<h2>Promemoria Appuntamento</h2>
<p>Gentile {{.FullName}},</p>
<p>Le ricordiamo che ha un appuntamento programmato per domani:</p>
<ul>
  <li>Data: {{.Date}}</li>
  <li>Ora: {{.Time}}</li>
  <li>Dottore: Dr. {{.DoctorName}}</li>
  <li>Specializzazione: {{.Specialization}}</li>
  <li>Ubicazione: {{.Location}}</li>
</ul>
<p>In caso di impossibilità a presentarsi, la preghiamo di cancellare l'appuntamento con almeno 24 ore di anticipo.</p>
<p>Cordiali saluti,<br>Centro Medico Plus</p>
`)),
	language.English: htmltemplate.Must(htmltemplate.New("reminder_en").Parse(`<h2>Appointment Reminder</h2>
<p>Dear {{.FullName}},</p>
<p>This is a reminder of your appointment scheduled for tomorrow:</p>
<ul>
  <li>Date: {{.Date}}</li>
  <li>Time: {{.Time}}</li>
  <li>Doctor: Dr. {{.DoctorName}}</li>
  <li>Specialization: {{.Specialization}}</li>
  <li>Location: {{.Location}}</li>
</ul>
<p>If you cannot attend, please cancel the appointment at least 24 hours in advance.</p>
<p>Kind regards,<br>Centro Medico Plus</p>
`)),
}

var reminderText = map[language.Tag]*texttemplate.Template{
	language.Italian: texttemplate.Must(texttemplate.New("reminder_it").Parse(`Gentile {{.FullName}},

Le ricordiamo che ha un appuntamento programmato per domani:
- Data: {{.Date}}
- Ora: {{.Time}}
- Dottore: Dr. {{.DoctorName}}
- Specializzazione: {{.Specialization}}
- Ubicazione: {{.Location}}

In caso di impossibilità a presentarsi, la preghiamo di cancellare l'appuntamento con almeno 24 ore di anticipo.

Cordiali saluti,
Centro Medico Plus
`)),
	language.English: texttemplate.Must(texttemplate.New("reminder_en").Parse(`Dear {{.FullName}},

This is a reminder of your appointment scheduled for tomorrow:
- Date: {{.Date}}
- Time: {{.Time}}
- Doctor: Dr. {{.DoctorName}}
- Specialization: {{.Specialization}}
- Location: {{.Location}}

If you cannot attend, please cancel the appointment at least 24 hours in advance.

Kind regards,
Centro Medico Plus
`)),
}

type linkView struct {
	FullName string
	Link     string
}

var verificationHTML = htmltemplate.Must(htmltemplate.New("verification").Parse(`<h2>Benvenuto in Centro Medico Plus</h2>
<p>Gentile {{.FullName}},</p>
<p>per completare la registrazione conferma il tuo indirizzo email:</p>
<p><a href="{{.Link}}">Verifica email</a></p>
<p>Il link scade tra 24 ore.</p>
<p>Cordiali saluti,<br>Centro Medico Plus</p>
`))

var passwordResetHTML = htmltemplate.Must(htmltemplate.New("password_reset").Parse(`<h2>Reimposta la password</h2>
<p>Gentile {{.FullName}},</p>
<p>abbiamo ricevuto una richiesta di reimpostazione della password:</p>
<p><a href="{{.Link}}">Reimposta password</a></p>
<p>Il link scade tra un'ora. Se non hai richiesto tu la modifica, ignora questa email.</p>
<p>Cordiali saluti,<br>Centro Medico Plus</p>
`))

func (s *notificationService) RenderReminder(data *ReminderEmail) (*mailer.Message, error) {
	lang := resolveLocale(data.Locale)
	view := reminderView{
		FullName:       fmt.Sprintf("%s %s", data.FirstName, data.LastName),
		Date:           FormatLongDate(data.StartsAt, data.Locale),
		Time:           data.Time,
		DoctorName:     data.DoctorName,
		Specialization: data.Specialization,
		Location:       data.Location,
	}

	var html, text bytes.Buffer
	if err := reminderHTML[lang].Execute(&html, view); err != nil {
		return nil, fmt.Errorf("render reminder html: %w", err)
	}
	if err := reminderText[lang].Execute(&text, view); err != nil {
		return nil, fmt.Errorf("render reminder text: %w", err)
	}

	return &mailer.Message{
		To:       []string{data.To},
		Subject:  ReminderSubject,
		HTMLBody: html.String(),
		TextBody: text.String(),
	}, nil
}

func (s *notificationService) SendAppointmentReminder(ctx context.Context, data *ReminderEmail) error {
	msg, err := s.RenderReminder(data)
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, msg)
}

func (s *notificationService) SendEmailVerification(ctx context.Context, user *entity.User, token string) error {
	return s.sendLink(ctx, user, verificationSubject, verificationHTML, "/verify-email", token)
}

func (s *notificationService) SendPasswordReset(ctx context.Context, user *entity.User, token string) error {
	return s.sendLink(ctx, user, passwordResetSubject, passwordResetHTML, "/reset-password", token)
}

func (s *notificationService) sendLink(ctx context.Context, user *entity.User, subject string, tmpl *htmltemplate.Template, path, token string) error {
	link := fmt.Sprintf("%s%s?token=%s", s.baseURL, path, url.QueryEscape(token))

	var html bytes.Buffer
	if err := tmpl.Execute(&html, linkView{FullName: user.FullName(), Link: link}); err != nil {
		return fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}

	msg := &mailer.Message{
		To:       []string{user.Email},
		Subject:  subject,
		HTMLBody: html.String(),
		TextBody: fmt.Sprintf("Gentile %s,\n\napri questo link: %s\n\nCentro Medico Plus\n", user.FullName(), link),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.log.Warnf("Failed to send %s email to %s: %+v", tmpl.Name(), user.Email, err)
		return err
	}
	return nil
}
