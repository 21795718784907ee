package application

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/lingo-social/internal/domain/apperror"
)

func TestValidateSignup(t *testing.T) {
	cases := []struct {
		name    string
		in      SignupInput
		msg     string
		fields  []string
		isValid bool
	}{
		{name: "ok", in: SignupInput{FullName: "Ana", Email: "ana@x.com", Password: "secret1"}, isValid: true},
		{name: "all missing", in: SignupInput{}, msg: msgMissingFields, fields: []string{"fullName", "email", "password"}},
		{name: "password missing", in: SignupInput{FullName: "Ana", Email: "ana@x.com"}, msg: msgMissingFields, fields: []string{"password"}},
		{name: "short password", in: SignupInput{FullName: "Ana", Email: "ana@x.com", Password: "12345"}, msg: msgShortPassword, fields: []string{"password"}},
		{name: "bad email", in: SignupInput{FullName: "Ana", Email: "ana@x", Password: "secret1"}, msg: msgInvalidEmail, fields: []string{"email"}},
		{name: "password at bcrypt limit", in: SignupInput{FullName: "Ana", Email: "ana@x.com", Password: strings.Repeat("a", 72)}, isValid: true},
		{name: "password over bcrypt limit", in: SignupInput{FullName: "Ana", Email: "ana@x.com", Password: strings.Repeat("a", 80)}, msg: msgLongPassword, fields: []string{"password"}},
		{name: "multibyte password over limit", in: SignupInput{FullName: "Ana", Email: "ana@x.com", Password: strings.Repeat("ü", 40)}, msg: msgLongPassword, fields: []string{"password"}},
		{name: "password checked before email", in: SignupInput{FullName: "Ana", Email: "nope", Password: "123"}, msg: msgShortPassword, fields: []string{"password"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSignup(tc.in)
			if tc.isValid {
				assert.NoError(t, err)
				return
			}
			var ve *apperror.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tc.msg, ve.Message)
			assert.Equal(t, tc.fields, ve.Fields)
		})
	}
}

func TestValidateOnboarding_ReportsEveryMissingField(t *testing.T) {
	err := ValidateOnboarding(OnboardInput{FullName: "Ana", Bio: "hola"})

	var ve *apperror.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, msgMissingFields, ve.Message)
	assert.Equal(t, []string{"nativeLanguage", "learningLanguage", "location"}, ve.Fields)
}

func TestValidateLogin(t *testing.T) {
	assert.NoError(t, ValidateLogin(LoginInput{Email: "a@b.co", Password: "x"}))

	var ve *apperror.ValidationError
	require.True(t, errors.As(ValidateLogin(LoginInput{Email: "a@b.co"}), &ve))
	assert.Equal(t, []string{"password"}, ve.Fields)
}
