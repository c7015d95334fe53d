package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256Hex returns the hex-encoded SHA256 hash of the input string.
func SHA256Hex(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}

// Fingerprint derives the device fingerprint recorded on a vote row from the
// client IP and user agent. Deterministic: the same (ip, userAgent) pair
// always yields the same fingerprint.
func Fingerprint(ip, userAgent string) string {
	return SHA256Hex(ip + "|" + userAgent)
}

// IteratedSHA256 applies SHA256 iteratively n times to produce a derived hash.
func IteratedSHA256(input string, iterations int) string {
	data := []byte(input)
	for i := 0; i < iterations; i++ {
		h := sha256.Sum256(data)
		data = h[:]
	}
	return hex.EncodeToString(data)
}

// HashIP hashes an IP address with a salt using 5000 iterations of SHA256.
// Applied wherever an IP leaves the ledger (voter exports, logs).
func HashIP(ip, salt string) string {
	return IteratedSHA256(salt+ip, 5000)
}
