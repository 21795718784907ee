package helpers

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// RandomAvatarURL picks one of the 100 public default avatars.
// Not security relevant.
func RandomAvatarURL(baseURL string) string {
	idx := rand.IntN(100) + 1
	return fmt.Sprintf("%s/%d.png", strings.TrimRight(baseURL, "/"), idx)
}
