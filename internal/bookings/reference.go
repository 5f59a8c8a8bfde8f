package bookings

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"time"
)

// Booking references look like VS202603101234: the "VS" prefix, the
// creation date, and a 4-digit random suffix.
const referencePrefix = "VS"

var referencePattern = regexp.MustCompile(`^VS\d{8}\d{4}$`)

// GenerateBookingReference generates a reference for a booking created
// now. The 4-digit suffix gives 10k combinations per day; the caller
// retries on a uniqueness collision.
func GenerateBookingReference(now time.Time) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("failed to generate booking reference: %w", err)
	}
	return fmt.Sprintf("%s%s%04d", referencePrefix, now.UTC().Format("20060102"), n.Int64()), nil
}

// IsValidBookingReference reports whether a string has the reference shape.
func IsValidBookingReference(ref string) bool {
	return referencePattern.MatchString(ref)
}
