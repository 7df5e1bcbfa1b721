package notifier

import (
	"strings"
	"testing"
)

func TestRender_AllKinds(t *testing.T) {
	data := Data{
		FirstName:     "Erin",
		JobTitle:      "Platform Engineer",
		Company:       "Acme",
		ApplicantName: "Sam Seeker",
		Reason:        "missing salary range",
	}

	for _, kind := range []Kind{
		KindWelcome,
		KindApplicationSubmitted,
		KindApplicationReceived,
		KindJobApproved,
		KindJobRejected,
	} {
		msg, err := Render(kind, data)
		if err != nil {
			t.Fatalf("render %s: %v", kind, err)
		}
		if msg.Subject == "" || msg.HTMLBody == "" || msg.TextBody == "" {
			t.Fatalf("render %s: empty part in %+v", kind, msg)
		}
		if !strings.Contains(msg.HTMLBody, "Erin") {
			t.Fatalf("render %s: recipient name missing from HTML body", kind)
		}
	}
}

func TestRender_RejectionReason(t *testing.T) {
	withReason, err := Render(KindJobRejected, Data{FirstName: "Erin", JobTitle: "X", Reason: "spam"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(withReason.TextBody, "Reason: spam") {
		t.Fatalf("reason missing: %q", withReason.TextBody)
	}

	withoutReason, err := Render(KindJobRejected, Data{FirstName: "Erin", JobTitle: "X"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(withoutReason.TextBody, "Reason:") {
		t.Fatalf("empty reason rendered: %q", withoutReason.TextBody)
	}
}

func TestRender_UnknownKind(t *testing.T) {
	if _, err := Render(Kind("carrier-pigeon"), Data{}); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
