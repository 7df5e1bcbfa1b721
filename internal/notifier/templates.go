package notifier

import (
	"fmt"
	"strings"
)

const platformName = "DevOps Jobs"

type Message struct {
	Subject  string
	HTMLBody string
	TextBody string
}

// Render builds the outgoing message for a template kind. Unknown kinds
// are an error so a typo cannot silently drop mail.
func Render(kind Kind, d Data) (Message, error) {
	switch kind {
	case KindWelcome:
		return Message{
			Subject: fmt.Sprintf("Welcome to %s!", platformName),
			HTMLBody: wrapHTML(fmt.Sprintf(
				`<h1>Welcome to %s!</h1>
				<p>Hi %s,</p>
				<p>Thank you for joining %s! We're excited to have you as part of our community.</p>
				<p>Browse the latest job opportunities and complete your profile to get started.</p>`,
				platformName, d.FirstName, platformName)),
			TextBody: fmt.Sprintf(
				"Welcome to %s!\n\nHi %s,\n\nThank you for joining %s! Browse the latest job opportunities and complete your profile to get started.\n",
				platformName, d.FirstName, platformName),
		}, nil

	case KindApplicationSubmitted:
		return Message{
			Subject: fmt.Sprintf("Application Submitted: %s at %s", d.JobTitle, d.Company),
			HTMLBody: wrapHTML(fmt.Sprintf(
				`<h1>Application Submitted Successfully!</h1>
				<p>Hi %s,</p>
				<p>Your application for the <strong>%s</strong> position at <strong>%s</strong> has been submitted.</p>
				<p>The employer will review it and you can track the status in your dashboard.</p>`,
				d.FirstName, d.JobTitle, d.Company)),
			TextBody: fmt.Sprintf(
				"Hi %s,\n\nYour application for %s at %s has been submitted. The employer will review it and you can track the status in your dashboard.\n",
				d.FirstName, d.JobTitle, d.Company),
		}, nil

	case KindApplicationReceived:
		return Message{
			Subject: fmt.Sprintf("New Application: %s", d.JobTitle),
			HTMLBody: wrapHTML(fmt.Sprintf(
				`<h1>New Job Application Received</h1>
				<p>Hi %s,</p>
				<p>You have received a new application for your <strong>%s</strong> position.</p>
				<p><strong>Applicant:</strong> %s</p>
				<p>Review the candidate's details in your employer dashboard.</p>`,
				d.FirstName, d.JobTitle, d.ApplicantName)),
			TextBody: fmt.Sprintf(
				"Hi %s,\n\nYou have received a new application for your %s position from %s. Review the candidate's details in your employer dashboard.\n",
				d.FirstName, d.JobTitle, d.ApplicantName),
		}, nil

	case KindJobApproved:
		return Message{
			Subject: fmt.Sprintf("Job Approved: %s", d.JobTitle),
			HTMLBody: wrapHTML(fmt.Sprintf(
				`<h1>Job Posting Approved!</h1>
				<p>Hi %s,</p>
				<p>Your job posting for <strong>%s</strong> has been approved and is now live.</p>
				<p>You can manage the posting and view applications in your employer dashboard.</p>`,
				d.FirstName, d.JobTitle)),
			TextBody: fmt.Sprintf(
				"Hi %s,\n\nYour job posting for %s has been approved and is now live.\n",
				d.FirstName, d.JobTitle),
		}, nil

	case KindJobRejected:
		reasonHTML := ""
		reasonText := ""
		if strings.TrimSpace(d.Reason) != "" {
			reasonHTML = fmt.Sprintf("<p><strong>Reason:</strong> %s</p>", d.Reason)
			reasonText = fmt.Sprintf("Reason: %s\n\n", d.Reason)
		}
		return Message{
			Subject: fmt.Sprintf("Job Posting Update: %s", d.JobTitle),
			HTMLBody: wrapHTML(fmt.Sprintf(
				`<h1>Job Posting Requires Revision</h1>
				<p>Hi %s,</p>
				<p>Your job posting for <strong>%s</strong> requires revisions before it can be published.</p>
				%s
				<p>Update the posting in your employer dashboard and it will be reviewed again.</p>`,
				d.FirstName, d.JobTitle, reasonHTML)),
			TextBody: fmt.Sprintf(
				"Hi %s,\n\nYour job posting for %s requires revisions before it can be published.\n\n%sUpdate the posting in your employer dashboard and it will be reviewed again.\n",
				d.FirstName, d.JobTitle, reasonText),
		}, nil
	}

	return Message{}, fmt.Errorf("unknown notification kind: %s", kind)
}

func wrapHTML(body string) string {
	return fmt.Sprintf(
		`<html><body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
		<div style="max-width: 600px; margin: 0 auto; padding: 20px;">%s</div>
		</body></html>`, body)
}
