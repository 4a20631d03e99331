package common

import (
	"crypto/sha256"
	"encoding/hex"
	"math/rand"
	"strings"
)

const codeCharacters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomCode(length int) string {
	result := make([]byte, length)
	for i := range result {
		result[i] = codeCharacters[rand.Intn(len(codeCharacters))]
	}
	return string(result)
}

// GenerateTrxNo returns a 7 character reference used for order numbers.
func GenerateTrxNo() string {
	return randomCode(7)
}

// GenerateReferralCode returns an 8 character affiliate referral code.
func GenerateReferralCode() string {
	return randomCode(8)
}

// HashFingerprint returns the hex encoded SHA-256 of a trimmed value.
// Raw user agents and IP addresses are never stored.
func HashFingerprint(value string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(value)))
	return hex.EncodeToString(sum[:])
}
