package application

import (
	"strings"

	"github.com/oksasatya/lingo-social/internal/domain/apperror"
	"github.com/oksasatya/lingo-social/pkg/helpers"
	"github.com/oksasatya/lingo-social/pkg/validation"
)

const (
	msgMissingFields = "please fill all the fields"
	msgShortPassword = "password must be at least 6 characters long"
	msgLongPassword  = "password must be at most 72 bytes"
	msgInvalidEmail  = "invalid email format"
)

var validate = validation.New()

type SignupInput struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,basicemail"`
	Password string `json:"password" validate:"required,pwd"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// OnboardInput field order is the order missing fields are reported in.
type OnboardInput struct {
	FullName         string `json:"fullName" validate:"required"`
	Bio              string `json:"bio" validate:"required"`
	NativeLanguage   string `json:"nativeLanguage" validate:"required"`
	LearningLanguage string `json:"learningLanguage" validate:"required"`
	Location         string `json:"location" validate:"required"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (in *SignupInput) normalize() {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = normalizeEmail(in.Email)
}

func (in *OnboardInput) normalize() {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Bio = strings.TrimSpace(in.Bio)
	in.NativeLanguage = strings.TrimSpace(in.NativeLanguage)
	in.LearningLanguage = strings.TrimSpace(in.LearningLanguage)
	in.Location = strings.TrimSpace(in.Location)
}

// ValidateSignup checks presence first, then password length, then email shape.
// The upper bound is in bytes since that is what bcrypt limits.
func ValidateSignup(in SignupInput) error {
	err := validate.Struct(in)
	if missing := missingFields(err); len(missing) > 0 {
		return apperror.Validation(msgMissingFields, missing...)
	}
	tags := validation.FailedTags(err)
	if _, ok := tags["password"]; ok {
		return apperror.Validation(msgShortPassword, "password")
	}
	if len(in.Password) > helpers.MaxPasswordBytes {
		return apperror.Validation(msgLongPassword, "password")
	}
	if _, ok := tags["email"]; ok {
		return apperror.Validation(msgInvalidEmail, "email")
	}
	if err != nil {
		return apperror.Validation(err.Error())
	}
	return nil
}

func ValidateLogin(in LoginInput) error {
	if err := validate.Struct(in); err != nil {
		return apperror.Validation(msgMissingFields, missingFields(err)...)
	}
	return nil
}

// ValidateOnboarding reports every missing field at once.
func ValidateOnboarding(in OnboardInput) error {
	if err := validate.Struct(in); err != nil {
		return apperror.Validation(msgMissingFields, missingFields(err)...)
	}
	return nil
}

func missingFields(err error) []string {
	tags := validation.FailedTags(err)
	var out []string
	for _, f := range validation.Fields(err) {
		if tags[f] == "required" {
			out = append(out, f)
		}
	}
	return out
}
