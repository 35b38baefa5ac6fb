package util

import (
	"crypto/rand"
	"math/big"
)

const (
	// refCodeLength is the length of the random part of a reference code
	refCodeLength = 8
	// charset for reference code characters
	charset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	// refCodePrefix marks citizen-facing request references
	refCodePrefix = "REQ-"
)

// GenerateReferenceCode generates a citizen-facing reference code for a
// data request. Example: "REQ-1A2B3C4D"
func GenerateReferenceCode() string {
	result := make([]byte, refCodeLength)

	for i := 0; i < refCodeLength; i++ {
		num, _ := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		result[i] = charset[num.Int64()]
	}

	return refCodePrefix + string(result)
}
