package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// GenerateAccountNumber generates a 10-digit account number.
// Uniqueness is enforced by the store; callers retry on conflict.
func GenerateAccountNumber() string {
	num, _ := rand.Int(rand.Reader, big.NewInt(9000000000))
	return fmt.Sprintf("%d", 1000000000+num.Int64())
}

// GenerateMaskedCardNumber returns the masked display form of a newly
// issued card, e.g. "•••• 4821". The full PAN never leaves the card issuer.
func GenerateMaskedCardNumber() string {
	num, _ := rand.Int(rand.Reader, big.NewInt(9000))
	return fmt.Sprintf("•••• %d", 1000+num.Int64())
}

// GenerateCardExpiry returns an MM/YY expiry the given number of years ahead.
func GenerateCardExpiry(yearsAhead int) string {
	month, _ := rand.Int(rand.Reader, big.NewInt(12))
	year := time.Now().Year() + yearsAhead
	return fmt.Sprintf("%02d/%02d", month.Int64()+1, year%100)
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword checks if a password matches a hash
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
