package utils // package utils provides helpers for session tokens and password hashing

import (
	"crypto/rand"  // secure random number generation
	"encoding/hex" // hex encoding of the random bytes
)

// sessionTokenBytes is the amount of randomness in a session token.  The
// hex form is twice as long.
const sessionTokenBytes = 32

// NewSessionToken returns an opaque session token: 32 bytes from the
// operating system's CSPRNG, hex encoded (64 characters).  Tokens carry no
// claims and never expire; they are valid while stored on the user row.
func NewSessionToken() (string, error) {
	return randomHex(sessionTokenBytes)
}

// randomHex returns a hex‑encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
