package helpers

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomAvatarURLRange(t *testing.T) {
	re := regexp.MustCompile(`^https://avatar\.test/public/([1-9][0-9]?|100)\.png$`)
	for i := 0; i < 200; i++ {
		assert.Regexp(t, re, RandomAvatarURL("https://avatar.test/public/"))
	}
}
