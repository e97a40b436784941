package model

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateReport(t *testing.T) {
	body := ReportBody{TargetId: "123", Type: ReportPost, Reason: ReasonSpam}
	if err := body.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	tests := []struct {
		name  string
		body  ReportBody
		field string
	}{
		{"missing target", ReportBody{Type: ReportUser, Reason: ReasonOther}, "target_id"},
		{"unknown type", ReportBody{TargetId: "1", Type: "PAGE", Reason: ReasonOther}, "type"},
		{"unknown reason", ReportBody{TargetId: "1", Type: ReportComment, Reason: "INAPPROPRIATE"}, "reason"},
		{"description too long", ReportBody{TargetId: "1", Type: ReportPost, Reason: ReasonOther, Description: strings.Repeat("a", 501)}, "description"},
	}

	for _, tt := range tests {
		err := tt.body.Validate()
		if !errors.Is(err, ErrInvalidReport) {
			t.Fatalf("%s: Validate() = %v, want ErrInvalidReport", tt.name, err)
		}
		if !strings.HasSuffix(err.Error(), tt.field) {
			t.Fatalf("%s: Validate() = %q, want field %q", tt.name, err, tt.field)
		}
	}
}

func TestParseReason(t *testing.T) {
	for input, want := range map[string]ReportReason{
		"spam":        ReasonSpam,
		"Hate speech": ReasonHateSpeech,
		"fake-news":   ReasonFakeNews,
		" OTHER ":     ReasonOther,
	} {
		got, err := ParseReason(input)
		if err != nil || got != want {
			t.Fatalf("ParseReason(%q) = %q, %v, want %q", input, got, err, want)
		}
	}

	if _, err := ParseReason("INAPPROPRIATE"); err == nil {
		t.Fatalf(`ParseReason("INAPPROPRIATE") returned no error`)
	}
}

func TestFirstHash(t *testing.T) {
	if got := (Post{}).FirstHash(); got != "" {
		t.Fatalf("FirstHash() = %q, want empty", got)
	}
	if got := (Post{Hash: []any{"abc", "def"}}).FirstHash(); got != "abc" {
		t.Fatalf("FirstHash() = %q, want abc", got)
	}
}
