package validation

import (
	"strings"
	"testing"

	"github.com/dmitrymomot/saaskit/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestField(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
		valid bool
	}{
		{"name ok", "first_name", "Ivan", true},
		{"name cyrillic", "second_name", "Иванов-Петров", true},
		{"name lowercase", "first_name", "ivan", false},
		{"name digit", "first_name", "Ivan2", false},
		{"name space", "first_name", "Ivan Ivan", false},
		{"login ok", "login", "ivan_99", true},
		{"login digits only", "login", "12345", false},
		{"login short", "login", "iv", false},
		{"login long", "login", "abcdefghijklmnopqrstu", false},
		{"login cyrillic", "login", "иван", false},
		{"email ok", "email", "ivan@mail.ru", true},
		{"email subdomain", "email", "ivan@mail.co.uk", true},
		{"email cyrillic", "email", "иван@mail.ru", false},
		{"email no tld", "email", "ivan@mail", false},
		{"password ok", "password", "Secret123", true},
		{"password no upper", "newPassword", "secret123", false},
		{"password no digit", "oldPassword", "SecretSecret", false},
		{"password short", "password", "Sec1", false},
		{"password long", "password", "S1" + strings.Repeat("a", 39), false},
		{"phone ok", "phone", "+79991234567", true},
		{"phone short", "phone", "12345", false},
		{"phone letters", "phone", "+7999abc4567", false},
		{"phone long", "phone", "+7999123456789012", false},
		{"message ok", "message", "hi", true},
		{"message blank", "message", "   ", false},
		{"message leading newline", "message", "\nhi", false},
		{"display name blank", "display_name", " ", false},
		{"unknown field", "nickname", "@@@", true},
		{"empty value", "email", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := Field(tt.field, tt.value)
			if tt.valid {
				assert.Empty(t, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

func TestForm(t *testing.T) {
	errs := Form(map[string]string{
		"login":    "12345",
		"password": "Secret123",
		"email":    "",
	})

	assert.Len(t, errs, 1)
	assert.Contains(t, errs, "login")
}

func TestFields(t *testing.T) {
	assert.Contains(t, Fields(), "newPasswordRepeat")
	assert.IsIncreasing(t, Fields())
}

func TestRule_CheckReportsEveryFailure(t *testing.T) {
	err := rules["password"].Check("password", "secret")

	require.Error(t, err)
	errs := validator.ExtractValidationErrors(err)
	assert.Equal(t, []string{"password"}, errs.Fields())
	assert.Len(t, errs.Get("password"), 3, "too short, no capital letter, no digit")
}

func TestRule_Valid(t *testing.T) {
	assert.True(t, nameRule.Valid("Anna"))
	assert.False(t, nameRule.Valid("anna"))
}
