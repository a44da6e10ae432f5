package identity

import (
	"crypto/rand"
	"math/big"
	"strings"
	"time"
)

const (
	guestDateLayout   = "20060102"
	guestSuffixLength = 8
	guestAlphabet     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// GuestIDLength is the length of every generated guest id.
	GuestIDLength = len(guestDateLayout) + guestSuffixLength
)

// NewGuestID generates a guest id: the local date as YYYYMMDD followed by
// eight random upper-case alphanumerics.
func NewGuestID(now time.Time) string {
	var b strings.Builder
	b.Grow(GuestIDLength)
	b.WriteString(now.Format(guestDateLayout))

	alphabetLen := big.NewInt(int64(len(guestAlphabet)))
	for i := 0; i < guestSuffixLength; i++ {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken
			panic("identity: random source unavailable: " + err.Error())
		}
		b.WriteByte(guestAlphabet[n.Int64()])
	}

	return b.String()
}

// ValidGuestID reports whether id has the shape NewGuestID produces.
func ValidGuestID(id string) bool {
	if len(id) != GuestIDLength {
		return false
	}
	if _, err := time.Parse(guestDateLayout, id[:len(guestDateLayout)]); err != nil {
		return false
	}
	for _, r := range id[len(guestDateLayout):] {
		if !strings.ContainsRune(guestAlphabet, r) {
			return false
		}
	}
	return true
}
