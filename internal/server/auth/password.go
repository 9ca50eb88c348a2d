package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the fixed work factor the service has always used.
// Changing it only affects newly stored hashes.
const bcryptCost = 10

// HashPassword one-way hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
