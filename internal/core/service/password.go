package service

import "golang.org/x/crypto/bcrypt"

// HashPassword applies bcrypt with a fresh random salt. Two calls with the
// same plaintext produce different hashes, so stored hashes are never
// compared for equality directly.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword recomputes the hash using the salt embedded in hashed and
// compares. Any malformed hash yields false, indistinguishable from a plain
// password mismatch at this boundary.
func VerifyPassword(plaintext, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}
