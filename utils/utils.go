package utils

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateToken returns an opaque token for email verification and
// password-reset links
func GenerateToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// GenerateOTP generates a 6-digit one-time code for 2FA
func GenerateOTP() string {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	otp := ""
	for i := 0; i < 6; i++ {
		otp += fmt.Sprintf("%d", rng.Intn(10))
	}
	return otp
}

// Round2 rounds to 2 decimal places
func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// Percentage returns part/total*100 rounded to 2 decimals, 0 when total is 0
func Percentage(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return Round2(float64(part) / float64(total) * 100)
}

// SplitList splits a comma separated model field into trimmed values
func SplitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// HasCommonItem reports whether any needed value appears in the offered list,
// case-insensitively. Used for accessibility mismatch warnings.
func HasCommonItem(needed, offered []string) bool {
	for _, n := range needed {
		for _, o := range offered {
			if strings.EqualFold(n, o) {
				return true
			}
		}
	}
	return false
}
