package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/lingo-social/pkg/helpers"
)

func TestObjectPath(t *testing.T) {
	p := objectPath("u1", "Me.PNG")

	assert.True(t, strings.HasPrefix(p, "avatars/u1/"))
	assert.True(t, strings.HasSuffix(p, ".png"))
	assert.NotEqual(t, p, objectPath("u1", "Me.PNG"))
	assert.False(t, strings.Contains(objectPath("u1", "../../etc"), ".."))
}

func TestObjectURL(t *testing.T) {
	assert.Equal(t,
		"https://storage.googleapis.com/bkt/avatars/u1/a%20b.png",
		helpers.ObjectURL("bkt", "avatars/u1/a b.png"),
	)
}
