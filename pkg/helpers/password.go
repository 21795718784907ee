package helpers

import "golang.org/x/crypto/bcrypt"

// dummyHash is compared against when no account matches, so a lookup miss
// costs the same as a wrong password.
// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("lingo-social-dummy"), bcrypt.DefaultCost)

// HashPassword hashes the plain text password using bcrypt
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword compares a bcrypt hash with a plain password
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// BurnPasswordCompare runs a compare that always fails.
func BurnPasswordCompare(plain string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plain))
}
