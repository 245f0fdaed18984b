package fairness

import (
	"crypto/hmac"
	"encoding/hex"
	"strconv"

	"golang.org/x/crypto/sha3"
)

// Sign returns hex(HMAC-SHA3-256(key, decimal(number))).
func Sign(key []byte, number int) string {
	return hex.EncodeToString(mac(key, number))
}

// Verify reports whether hmacHex commits to number under key.
func Verify(hmacHex string, key []byte, number int) bool {
	published, err := hex.DecodeString(hmacHex)
	if err != nil {
		return false
	}
	return hmac.Equal(published, mac(key, number))
}

// Combine mixes both contributions into [0, rangeEnd). Either party alone
// cannot bias the result as long as the other's number is uniform.
// The sum is reduced without overflow, so any rangeEnd up to math.MaxInt works.
func Combine(userNumber, computerNumber, rangeEnd int) int {
	u := reduce(userNumber, rangeEnd)
	c := reduce(computerNumber, rangeEnd)
	if c >= rangeEnd-u {
		return c - (rangeEnd - u)
	}
	return u + c
}

// reduce maps n into [0, rangeEnd)
func reduce(n, rangeEnd int) int {
	n %= rangeEnd
	if n < 0 {
		n += rangeEnd
	}
	return n
}

func mac(key []byte, number int) []byte {
	h := hmac.New(sha3.New256, key)
	h.Write([]byte(strconv.Itoa(number)))
	return h.Sum(nil)
}
