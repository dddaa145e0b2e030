package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/fitcity/fitcity-backend/internal/app/model"
	"github.com/fitcity/fitcity-backend/internal/app/repository"
	"github.com/fitcity/fitcity-backend/pkg/email/resend"
	"github.com/fitcity/fitcity-backend/pkg/logger"
)

const confirmationSubject = "Bevestiging inschrijving FitCity Culemborg"

// NotificationService sends the signup confirmation email and retries
// the ones that failed at submission time.
type NotificationService interface {
	SendConfirmation(ctx context.Context, signup *model.Signup) error
	RetryPending(ctx context.Context, limit int) (int, error)
}

type notificationService struct {
	repo   repository.SignupRepository
	mailer *resend.Client
}

func NewNotificationService(repo repository.SignupRepository, mailer *resend.Client) NotificationService {
	return &notificationService{
		repo:   repo,
		mailer: mailer,
	}
}

// SendConfirmation renders and dispatches the confirmation email for
// one signup and records the dispatch time on success.
func (s *notificationService) SendConfirmation(ctx context.Context, signup *model.Signup) error {
	data := newConfirmationData(signup)

	var htmlBody bytes.Buffer
	if err := confirmationHTMLTemplate.Execute(&htmlBody, data); err != nil {
		return fmt.Errorf("failed to render confirmation email: %w", err)
	}

	var textBody bytes.Buffer
	if err := confirmationTextTemplate.Execute(&textBody, data); err != nil {
		return fmt.Errorf("failed to render confirmation email: %w", err)
	}

	resp, err := s.mailer.Send(ctx, resend.Message{
		To:      []string{signup.Email},
		Subject: confirmationSubject,
		HTML:    htmlBody.String(),
		Text:    textBody.String(),
	})
	if err != nil {
		return err
	}

	logger.Info("Confirmation email sent", map[string]interface{}{
		"signup_id":  signup.ID,
		"message_id": resp.ID,
	})

	if err := s.repo.MarkEmailSent(signup.ID, time.Now()); err != nil {
		// The mail went out; a bookkeeping failure at worst causes one
		// duplicate email from the retry job.
		logger.Error("Failed to record email dispatch time", err, map[string]interface{}{
			"signup_id": signup.ID,
		})
	}
	return nil
}

// RetryPending sends the confirmation email for signups that never got
// one, oldest first. Per-signup failures are logged and skipped; the
// next run tries again. Returns the number of emails sent.
func (s *notificationService) RetryPending(ctx context.Context, limit int) (int, error) {
	signups, err := s.repo.ListPendingConfirmation(limit)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range signups {
		if err := s.SendConfirmation(ctx, &signups[i]); err != nil {
			logger.Warn("Confirmation email retry failed", map[string]interface{}{
				"signup_id": signups[i].ID,
				"reason":    err.Error(),
			})
			continue
		}
		sent++
	}

	if len(signups) > 0 {
		logger.Info("Confirmation email retry run finished", map[string]interface{}{
			"pending": len(signups),
			"sent":    sent,
		})
	}
	return sent, nil
}

type confirmationData struct {
	FirstName      string
	MembershipName string
	Price          string
	MembershipTerm string
	StartDate      string
}

func newConfirmationData(signup *model.Signup) confirmationData {
	return confirmationData{
		FirstName:      signup.FirstName,
		MembershipName: signup.MembershipName,
		Price:          formatEuro(signup.MembershipPrice),
		MembershipTerm: signup.MembershipTerm,
		StartDate:      formatDutchDate(signup.StartDate),
	}
}

// formatEuro renders a stored price string as a Dutch amount, e.g.
// "24.5" becomes "€24,50".
func formatEuro(price string) string {
	value, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return "€" + price
	}
	return "€" + strings.Replace(strconv.FormatFloat(value, 'f', 2, 64), ".", ",", 1)
}

var dutchWeekdays = [...]string{"zondag", "maandag", "dinsdag", "woensdag", "donderdag", "vrijdag", "zaterdag"}

var dutchMonths = [...]string{"januari", "februari", "maart", "april", "mei", "juni",
	"juli", "augustus", "september", "oktober", "november", "december"}

// formatDutchDate renders "2026-06-01" as "maandag 1 juni 2026". An
// unparseable value is returned as-is.
func formatDutchDate(dateString string) string {
	date, err := time.Parse("2006-01-02", dateString)
	if err != nil {
		return dateString
	}
	return fmt.Sprintf("%s %d %s %d",
		dutchWeekdays[date.Weekday()], date.Day(), dutchMonths[date.Month()-1], date.Year())
}

var confirmationHTMLTemplate = template.Must(template.New("confirmation_html").Parse(`<!DOCTYPE html>
<html lang="nl">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Bevestiging inschrijving</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f5f5f2; color: #1a1c23;">
  <div style="max-width: 600px; margin: 0 auto; padding: 32px 16px;">
    <div style="background-color: #ffffff; border-radius: 16px; padding: 32px 24px; box-shadow: 0 4px 6px rgba(0, 0, 0, 0.05);">

      <div style="display: flex; align-items: center; gap: 12px; margin-bottom: 24px;">
        <div style="height: 40px; width: 40px; border-radius: 12px; background: #ffe500; display: inline-flex; align-items: center; justify-content: center; font-weight: 800; color: #0b0b0f; font-size: 14px;">FC</div>
        <div>
          <div style="text-transform: uppercase; letter-spacing: 0.28em; font-size: 10px; color: #6b7280;">FitCity</div>
          <div style="font-weight: 700; font-size: 16px;">Culemborg</div>
        </div>
      </div>

      <div style="text-align: center; margin-bottom: 28px;">
        <h1 style="color: #05060a; font-size: 22px; margin: 0 0 8px 0;">Welkom bij FitCity!</h1>
        <p style="color: #6b7280; margin: 0;">Je inschrijving is bevestigd</p>
      </div>

      <p style="margin: 0 0 20px 0; line-height: 1.6;">Beste {{.FirstName}},</p>

      <p style="margin: 0 0 20px 0; line-height: 1.6;">Bedankt voor je inschrijving bij FitCity Culemborg! We hebben je betaling van <strong>&euro;17,00</strong> inschrijfkosten ontvangen.</p>

      <div style="background-color: #f9fafb; border-radius: 12px; padding: 20px; margin: 0 0 20px 0;">
        <h2 style="font-size: 16px; color: #05060a; margin: 0 0 12px 0;">Jouw abonnement</h2>
        <table style="width: 100%; border-collapse: collapse;">
          <tr>
            <td style="padding: 6px 0; color: #6b7280;">Abonnement:</td>
            <td style="padding: 6px 0; text-align: right; font-weight: 600;">{{.MembershipName}}</td>
          </tr>
          <tr>
            <td style="padding: 6px 0; color: #6b7280;">Prijs:</td>
            <td style="padding: 6px 0; text-align: right; font-weight: 600;">{{.Price}} / {{.MembershipTerm}}</td>
          </tr>
          <tr>
            <td style="padding: 6px 0; color: #6b7280;">Startdatum:</td>
            <td style="padding: 6px 0; text-align: right; font-weight: 600;">{{.StartDate}}</td>
          </tr>
        </table>
      </div>

      <div style="background-color: #fffbeb; border: 1px solid #fcd34d; border-radius: 12px; padding: 14px; margin: 0 0 20px 0;">
        <p style="margin: 0; font-size: 14px; color: #92400e;"><strong>Let op:</strong> Vanaf je startdatum worden de abonnementskosten maandelijks automatisch ge&iuml;ncasseerd via SEPA automatische incasso.</p>
      </div>

      <div style="background-color: #f9fafb; border-radius: 12px; padding: 18px; margin: 0 0 20px 0;">
        <h2 style="font-size: 15px; color: #05060a; margin: 0 0 10px 0;">Volgende stappen</h2>
        <ol style="margin: 0; padding-left: 18px; color: #374151; line-height: 1.6;">
          <li style="margin-bottom: 8px;">Kom langs met een geldig legitimatiebewijs om je ledenpas op te halen.</li>
          <li style="margin-bottom: 8px;">Op je startdatum is je lidmaatschap actief; incasso van het maandbedrag volgt automatisch.</li>
          <li style="margin-bottom: 0;">Vragen? Neem contact op via <a href="https://fitcityculemborg.nl/contact" style="color: #0f172a;">fitcityculemborg.nl/contact</a> of bel +31 6 46872274.</li>
        </ol>
      </div>

      <p style="margin: 0 0 20px 0; line-height: 1.6;">We kijken ernaar uit je te verwelkomen in onze sportschool. Heb je vragen? Neem gerust contact met ons op.</p>

      <table role="presentation" cellspacing="0" cellpadding="0" style="margin: 0 0 14px 0; width: 100%;">
        <tr>
          <td style="border-radius: 999px; background: #ffe500; padding: 12px 24px; text-align: center;">
            <a href="https://fitcityculemborg.nl/contact" style="color: #0b0b0f; font-weight: 700; text-decoration: none; display: inline-block;">Contact opnemen</a>
          </td>
        </tr>
      </table>

      <p style="margin: 0; line-height: 1.6; color: #111827;">
        Sportieve groet,<br>
        <strong>Team FitCity Culemborg</strong><br>
        <a href="https://fitcityculemborg.nl/contact" style="color: #0f172a;">fitcityculemborg.nl/contact</a>
      </p>

    </div>

    <div style="text-align: center; padding: 20px 0; color: #9ca3af; font-size: 12px;">
      <p style="margin: 0 0 6px 0;">FitCity Culemborg</p>
      <p style="margin: 0;"><a href="https://fitcityculemborg.nl" style="color: #6b7280;">fitcityculemborg.nl</a></p>
    </div>

  </div>
</body>
</html>`))

var confirmationTextTemplate = texttemplate.Must(texttemplate.New("confirmation_text").Parse(`Welkom bij FitCity!

Beste {{.FirstName}},

Bedankt voor je inschrijving bij FitCity Culemborg! We hebben je betaling van €17,00 inschrijfkosten ontvangen.

JOUW ABONNEMENT
---------------
Abonnement: {{.MembershipName}}
Prijs: {{.Price}} / {{.MembershipTerm}}
Startdatum: {{.StartDate}}

LET OP: Vanaf je startdatum worden de abonnementskosten maandelijks automatisch geïncasseerd via SEPA automatische incasso.

VOLGENDE STAPPEN
---------------
1) Kom langs met een geldig legitimatiebewijs om je ledenpas op te halen.
2) Op je startdatum is je lidmaatschap actief; incasso van het maandbedrag volgt automatisch.
3) Vragen? Neem contact op via https://fitcityculemborg.nl/contact of bel +31 6 46872274.

We kijken ernaar uit je te verwelkomen in onze sportschool. Heb je vragen? Neem gerust contact met ons op.

Sportieve groet,
Team FitCity Culemborg

---
FitCity Culemborg
https://fitcityculemborg.nl`))
