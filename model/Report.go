package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ReportType is the kind of content being reported
type ReportType string

const (
	ReportPost    ReportType = "POST"
	ReportUser    ReportType = "USER"
	ReportComment ReportType = "COMMENT"
)

// ReportReason is the canonical set of report reasons accepted
// by the backend
type ReportReason string

const (
	ReasonSpam       ReportReason = "SPAM"
	ReasonHateSpeech ReportReason = "HATE_SPEECH"
	ReasonHarassment ReportReason = "HARASSMENT"
	ReasonNudity     ReportReason = "NUDITY"
	ReasonViolence   ReportReason = "VIOLENCE"
	ReasonFakeNews   ReportReason = "FAKE_NEWS"
	ReasonOther      ReportReason = "OTHER"
)

// Reasons lists every report reason, in the order they are
// offered to users
var Reasons = []ReportReason{
	ReasonSpam,
	ReasonHateSpeech,
	ReasonHarassment,
	ReasonNudity,
	ReasonViolence,
	ReasonFakeNews,
	ReasonOther,
}

// ParseReason returns the reason matching s, case-insensitively.
// Spaces and dashes are accepted in place of underscores.
func ParseReason(s string) (ReportReason, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)

	for _, r := range Reasons {
		if string(r) == normalized {
			return r, nil
		}
	}

	return "", fmt.Errorf("unknown report reason %q", s)
}

// ReportBody is the body sent to create a report
type ReportBody struct {
	TargetId    string       `json:"target_id" validate:"required,max=64"`
	Type        ReportType   `json:"type" validate:"required,oneof=POST USER COMMENT"`
	Reason      ReportReason `json:"reason" validate:"required,oneof=SPAM HATE_SPEECH HARASSMENT NUDITY VIOLENCE FAKE_NEWS OTHER"`
	Description string       `json:"description,omitempty" validate:"max=500"`
}

// Report is a stored report
type Report struct {
	Id          string       `json:"id"`
	Reporter    string       `json:"reporter"`
	TargetId    string       `json:"target_id"`
	Type        ReportType   `json:"type"`
	Reason      ReportReason `json:"reason"`
	Description string       `json:"description,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

var reportValidator = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		return strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	})
	return v
}()

// ErrInvalidReport is returned by Validate, wrapping the
// name of the first invalid field
var ErrInvalidReport = errors.New("invalid report")

// Validate checks the body against the accepted types and reasons
func (b ReportBody) Validate() error {
	err := reportValidator.Struct(&b)
	if err == nil {
		return nil
	}

	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidReport, fields[0].Field())
	}

	return fmt.Errorf("%w: %v", ErrInvalidReport, err)
}
