package common

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// GenerateNumericCode returns a uniformly random decimal code with exactly
// digits digits and no leading zero, e.g. 100000..999999 for digits == 6.
func GenerateNumericCode(digits int) (string, error) {
	if digits < 1 || digits > 18 {
		return "", fmt.Errorf("unsupported code length %d", digits)
	}

	lo := pow10(digits - 1)
	span := big.NewInt(9 * lo)

	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%d", n.Int64()+lo), nil
}

// NormalizeEmail trims and lowercases an email address so lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func pow10(n int) int64 {
	v := int64(1)
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}
