package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(5, 0), "division by zero yields 0")
	assert.Equal(t, 0.0, Percentage(0, 0))
	assert.Equal(t, 50.0, Percentage(1, 2))
	assert.Equal(t, 33.33, Percentage(1, 3))
	assert.Equal(t, 100.0, Percentage(4, 4))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 3.33, Round2(3.3333))
	assert.Equal(t, 3.34, Round2(3.336))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, -1.25, Round2(-1.249))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitList("a, b ,c"))
	assert.Empty(t, SplitList(""))
	assert.Empty(t, SplitList("  ,  , "))
	assert.Equal(t, []string{"one"}, SplitList("one"))
}

func TestHasCommonItem(t *testing.T) {
	assert.True(t, HasCommonItem([]string{"Captions"}, []string{"captions", "ramp"}))
	assert.False(t, HasCommonItem([]string{"braille"}, []string{"captions"}))
	assert.False(t, HasCommonItem(nil, []string{"captions"}))
	assert.False(t, HasCommonItem([]string{"captions"}, nil))
}

func TestGenerateToken(t *testing.T) {
	a := GenerateToken()
	b := GenerateToken()
	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "-")
	assert.Len(t, a, 32)
}

func TestGenerateOTP(t *testing.T) {
	otp := GenerateOTP()
	assert.Len(t, otp, 6)
	for _, r := range otp {
		assert.True(t, strings.ContainsRune("0123456789", r))
	}
}

func TestGenerateCertificateNumber(t *testing.T) {
	number := GenerateCertificateNumber(42)
	assert.True(t, strings.HasPrefix(number, "CERT-0042-"))

	// the enrollment component wraps at four digits
	wrapped := GenerateCertificateNumber(123456)
	assert.True(t, strings.HasPrefix(wrapped, "CERT-3456-"))
}
