package utils

import (
	"crypto/rand"
	"math/big"
	"time"
)

const (
	BookingCodePrefix = "TK"
	bookingCodeSuffix = 6
	bookingCodeChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateBookingCode returns TK<YYYYMMDD><6 uppercase alnum> for the date of now.
func GenerateBookingCode(now time.Time) (string, error) {
	suffix, err := randomString(bookingCodeSuffix, bookingCodeChars)
	if err != nil {
		return "", err
	}
	return BookingCodePrefix + now.Format("20060102") + suffix, nil
}

func randomString(n int, alphabet string) (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = alphabet[idx.Int64()]
	}
	return string(buf), nil
}
