package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/lingo-social/pkg/mailer/templates"
)

func TestComposeTemplate(t *testing.T) {
	job := EmailJob{
		To:       "ana@x.com",
		Template: templates.Welcome,
		Data:     templates.NewWelcomeData("Lingo", "Ana", "ana@x.com", templates.WithActionURL("https://app.test/onboarding")),
	}
	subject, text, html, err := Compose(job)
	require.NoError(t, err)
	assert.Equal(t, "Welcome to Lingo", subject)
	assert.Contains(t, text, "https://app.test/onboarding")
	assert.NotEmpty(t, html)
}

func TestComposeRaw(t *testing.T) {
	subject, text, _, err := Compose(EmailJob{To: "a@b.c", Subject: "hi", Text: "body"})
	require.NoError(t, err)
	assert.Equal(t, "hi", subject)
	assert.Equal(t, "body", text)

	_, _, _, err = Compose(EmailJob{To: "a@b.c", Subject: "hi"})
	assert.Error(t, err)
	_, _, _, err = Compose(EmailJob{Subject: "hi", Text: "x"})
	assert.Error(t, err)
}
