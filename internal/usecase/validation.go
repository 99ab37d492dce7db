package usecase

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xavierca1/residence-leads/internal/entity"
)

// DefaultLanguage is used when a submission carries no language.
const DefaultLanguage = "cs"

const maxShareCount = 50

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[0-9\s+()\-./]{6,20}$`)

	requiredFields = []string{"type", "first_name", "last_name", "email"}
)

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateLeadSubmission turns a raw decoded JSON body into a normalized
// LeadInput. It does no I/O; provenance fields are left empty.
func ValidateLeadSubmission(raw map[string]any) (*entity.LeadInput, error) {
	for _, field := range requiredFields {
		s, err := optionalString(raw, field)
		if err != nil {
			return nil, err
		}
		if s == "" {
			return nil, newValidationError(field, "Missing required field: %s", field)
		}
	}

	if !strictTrue(raw["gdpr_consent"]) {
		return nil, newValidationError("gdpr_consent", "GDPR consent must be accepted")
	}
	if !strictTrue(raw["terms_accepted"]) {
		return nil, newValidationError("terms_accepted", "Terms must be accepted")
	}

	leadType := entity.LeadType(mustString(raw, "type"))
	if !leadType.Valid() {
		return nil, newValidationError("type", "Invalid inquiry type")
	}

	email := strings.ToLower(mustString(raw, "email"))
	if !IsValidEmail(email) {
		return nil, newValidationError("email", "Invalid email address")
	}

	input := &entity.LeadInput{
		Type:          leadType,
		FirstName:     mustString(raw, "first_name"),
		LastName:      mustString(raw, "last_name"),
		Email:         email,
		GDPRConsent:   true,
		TermsAccepted: true,
	}

	optionals := []struct {
		field string
		dst   *string
	}{
		{"apartment_slug", &input.ApartmentSlug},
		{"apartment_title", &input.ApartmentTitle},
		{"phone", &input.Phone},
		{"message", &input.Message},
		{"preferred_dates", &input.PreferredDates},
		{"language", &input.Language},
	}
	for _, o := range optionals {
		s, err := optionalString(raw, o.field)
		if err != nil {
			return nil, err
		}
		*o.dst = s
	}

	if input.Phone != "" && !IsValidPhone(input.Phone) {
		return nil, newValidationError("phone", "Invalid phone number")
	}

	if input.Language == "" {
		input.Language = DefaultLanguage
	}

	guests, err := optionalInt(raw, "guest_count")
	if err != nil {
		return nil, err
	}
	if guests != nil && *guests < 1 {
		return nil, newValidationError("guest_count", "guest_count must be a positive integer")
	}
	input.GuestCount = guests

	shares, err := optionalInt(raw, "share_count")
	if err != nil {
		return nil, err
	}
	if shares != nil && (*shares < 1 || *shares > maxShareCount) {
		return nil, newValidationError("share_count", "share_count must be between 1 and %d", maxShareCount)
	}
	input.ShareCount = shares

	switch v := raw["marketing_consent"].(type) {
	case nil:
	case bool:
		input.MarketingConsent = v
	default:
		return nil, newValidationError("marketing_consent", "marketing_consent must be a boolean")
	}

	if err := structValidator.Struct(input); err != nil {
		return nil, translateStructError(err)
	}

	return input, nil
}

// IsValidEmail checks the local@domain.tld shape only.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsValidPhone is deliberately loose: 6-20 chars of digits, spaces and punctuation.
func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

func strictTrue(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

// optionalString returns the trimmed string value, "" when absent or null.
func optionalString(raw map[string]any, field string) (string, error) {
	v, ok := raw[field]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", newValidationError(field, "Invalid value for field: %s", field)
	}
	return strings.TrimSpace(s), nil
}

func mustString(raw map[string]any, field string) string {
	s, _ := optionalString(raw, field)
	return s
}

func optionalInt(raw map[string]any, field string) (*int, error) {
	invalid := newValidationError(field, "%s must be a whole number", field)

	var n int
	switch v := raw[field].(type) {
	case nil:
		return nil, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil, nil
		}
		parsed, err := strconv.Atoi(s)
		if err != nil {
			return nil, invalid
		}
		n = parsed
	case json.Number:
		parsed, err := strconv.Atoi(v.String())
		if err != nil {
			return nil, invalid
		}
		n = parsed
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || v > math.MaxInt32 || v < math.MinInt32 {
			return nil, invalid
		}
		n = int(v)
	case int:
		n = v
	default:
		return nil, invalid
	}
	return &n, nil
}

func translateStructError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return newValidationError("", "Invalid submission")
	}

	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return newValidationError(field, "Missing required field: %s", field)
	case "max":
		return newValidationError(field, "%s must be at most %s characters", field, fe.Param())
	case "min":
		return newValidationError(field, "%s must be at least %s", field, fe.Param())
	default:
		return newValidationError(field, "Invalid value for field: %s", field)
	}
}
