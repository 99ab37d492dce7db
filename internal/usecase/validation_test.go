package usecase

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/residence-leads/internal/entity"
)

func TestValidate_NormalizesValidSubmission(t *testing.T) {
	raw := validRaw()
	raw["first_name"] = "  Jan "
	raw["phone"] = "+420 777 123 456"
	raw["guest_count"] = "4"
	raw["marketing_consent"] = true
	raw["language"] = "en"

	in, err := ValidateLeadSubmission(raw)
	require.NoError(t, err)

	assert.Equal(t, entity.LeadTypeSale, in.Type)
	assert.Equal(t, "Jan", in.FirstName)
	assert.Equal(t, "jan@example.com", in.Email)
	assert.Equal(t, "+420 777 123 456", in.Phone)
	require.NotNil(t, in.GuestCount)
	assert.Equal(t, 4, *in.GuestCount)
	assert.Nil(t, in.ShareCount)
	assert.True(t, in.GDPRConsent)
	assert.True(t, in.TermsAccepted)
	assert.True(t, in.MarketingConsent)
	assert.Equal(t, "en", in.Language)
}

func TestValidate_DefaultsLanguage(t *testing.T) {
	in, err := ValidateLeadSubmission(validRaw())
	require.NoError(t, err)
	assert.Equal(t, DefaultLanguage, in.Language)
}

func TestValidate_MissingRequiredFieldIsCited(t *testing.T) {
	for _, field := range []string{"type", "first_name", "last_name", "email"} {
		for _, variant := range []any{nil, "", "   "} {
			raw := validRaw()
			if variant == nil {
				delete(raw, field)
			} else {
				raw[field] = variant
			}

			_, err := ValidateLeadSubmission(raw)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve, "%s=%v", field, variant)
			assert.Equal(t, field, ve.Field)
			assert.Equal(t, "Missing required field: "+field, ve.Message)
		}
	}
}

func TestValidate_ConsentMustBeLiteralTrue(t *testing.T) {
	for _, field := range []string{"gdpr_consent", "terms_accepted"} {
		for _, v := range []any{nil, false, "true", 1, json.Number("1")} {
			raw := validRaw()
			if v == nil {
				delete(raw, field)
			} else {
				raw[field] = v
			}

			_, err := ValidateLeadSubmission(raw)

			var ve *ValidationError
			require.ErrorAs(t, err, &ve, "%s=%v", field, v)
			assert.Equal(t, field, ve.Field)
		}
	}
}

func TestValidate_EveryLeadTypeAccepted(t *testing.T) {
	for _, typ := range entity.LeadTypes() {
		raw := validRaw()
		raw["type"] = string(typ)
		in, err := ValidateLeadSubmission(raw)
		require.NoError(t, err, typ)
		assert.Equal(t, typ, in.Type)
	}
}

func TestValidate_EmailShape(t *testing.T) {
	valid := []string{"a@b.cz", "jan.novak+lead@mail.example.com", "X@Y.Z"}
	invalid := []string{"plain", "a@b", "@b.cz", "a@.", "a b@c.cz", "a@b c.cz", "a@@b.cz"}

	for _, e := range valid {
		raw := validRaw()
		raw["email"] = e
		_, err := ValidateLeadSubmission(raw)
		assert.NoError(t, err, e)
	}
	for _, e := range invalid {
		raw := validRaw()
		raw["email"] = e
		_, err := ValidateLeadSubmission(raw)
		assert.EqualError(t, err, "Invalid email address", e)
	}
}

func TestValidate_Counts(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value any
		want  *int
		err   string
	}{
		{"share from string", "share_count", "12", intPtr(12), ""},
		{"share from number", "share_count", json.Number("50"), intPtr(50), ""},
		{"share from float", "share_count", float64(1), intPtr(1), ""},
		{"share zero", "share_count", 0, nil, "share_count must be between 1 and 50"},
		{"share over max", "share_count", "51", nil, "share_count must be between 1 and 50"},
		{"share fractional", "share_count", 2.5, nil, "share_count must be a whole number"},
		{"share text", "share_count", "many", nil, "share_count must be a whole number"},
		{"guest blank string", "guest_count", "", nil, ""},
		{"guest negative", "guest_count", json.Number("-1"), nil, "guest_count must be a positive integer"},
		{"guest bool", "guest_count", true, nil, "guest_count must be a whole number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validRaw()
			raw[tt.field] = tt.value

			in, err := ValidateLeadSubmission(raw)
			if tt.err != "" {
				assert.EqualError(t, err, tt.err)
				return
			}
			require.NoError(t, err)

			got := in.GuestCount
			if tt.field == "share_count" {
				got = in.ShareCount
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate_OptionalFieldChecks(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value any
		err   string
	}{
		{"phone letters", "phone", "call me maybe", "Invalid phone number"},
		{"phone too short", "phone", "123", "Invalid phone number"},
		{"phone not a string", "phone", 777123456, "Invalid value for field: phone"},
		{"marketing as string", "marketing_consent", "yes", "marketing_consent must be a boolean"},
		{"message too long", "message", strings.Repeat("x", 5001), "message must be at most 5000 characters"},
		{"first name too long", "first_name", strings.Repeat("J", 101), "first_name must be at most 100 characters"},
		{"type not a string", "type", 3, "Invalid value for field: type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validRaw()
			raw[tt.field] = tt.value
			_, err := ValidateLeadSubmission(raw)
			assert.EqualError(t, err, tt.err)
		})
	}
}

func intPtr(n int) *int {
	return &n
}
