package email

import (
	"fmt"

	"bridged/internal/models"
)

// Render produces the subject and HTML body for a lifecycle event. Unknown
// event types get a neutral fallback so a stale outbox row still delivers
// something rather than erroring forever.
func Render(eventType string, payload models.Payload) (subject, body string) {
	name := payload.String("athlete_name")
	if name == "" {
		name = "there"
	}

	switch eventType {
	case "application_accepted":
		subject = "Your application was accepted!"
		body = fmt.Sprintf(
			"<p>Hi %s,</p><p>Great news — your application was accepted and a partnership has been created. "+
				"Log in to complete onboarding and paperwork.</p>", name)

	case "application_rejected":
		subject = "Update on your application"
		body = fmt.Sprintf(
			"<p>Hi %s,</p><p>Thank you for applying. Unfortunately the company decided not to move forward "+
				"this time. Keep an eye out for new opportunities on Bridged.</p>", name)

	case "verification_approved":
		subject = "Your Bridged profile is verified"
		body = fmt.Sprintf(
			"<p>Hi %s,</p><p>Your athlete profile has been verified. Companies can now find and partner with you.</p>", name)

	case "verification_rejected":
		reason := payload.String("reason")
		subject = "Update on your Bridged verification"
		body = fmt.Sprintf(
			"<p>Hi %s,</p><p>We could not verify your profile: %s</p>", name, reason)

	case "extension_requested":
		subject = "Your partner requested an extension"
		body = fmt.Sprintf(
			"<p>Hi %s,</p><p>Your partner company requested a %d month extension of your partnership. "+
				"Log in to approve or decline.</p>", name, payload.Int("months"))

	case "model_list_approved", "model_list_rejected":
		subject = "Your model list application"
		body = fmt.Sprintf("<p>Hi %s,</p><p>%s</p>", name, payload.String("body"))

	default:
		subject = "Update from Bridged"
		body = fmt.Sprintf("<p>Hi %s,</p><p>There is an update on your Bridged account.</p>", name)
	}

	return subject, body
}
