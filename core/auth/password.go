package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt cost for new hashes. Verification accepts whatever cost the stored
// hash carries.
const hashCost = 12

// HashPassword derives a bcrypt hash; the optional pepper is a server-side
// secret appended before hashing so a leaked table alone is not crackable
// offline against common lists.
func HashPassword(password, pepper string) (string, error) {
	if password == "" {
		return "", errors.New("empty password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password+pepper), hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func MustHashPassword(password, pepper string) string {
	hash, err := HashPassword(password, pepper)
	if err != nil {
		panic(err)
	}
	return hash
}

func VerifyPassword(password, pepper, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password+pepper)) == nil
}
