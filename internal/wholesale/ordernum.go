package wholesale

import (
	"crypto/rand"
	"fmt"
	"time"
)

const orderNumberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewOrderNumber returns a human-readable order number of the form
// WHS-{epochMillis}-{7 random base36 chars, uppercase}. The format is
// not collision-proof by construction; uniqueness is enforced by the
// database index and retried by the orchestrator.
func NewOrderNumber() string {
	var b [7]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err) // crypto/rand does not fail on supported platforms
	}
	for i := range b {
		b[i] = orderNumberAlphabet[int(b[i])%len(orderNumberAlphabet)]
	}
	return fmt.Sprintf("WHS-%d-%s", time.Now().UnixMilli(), string(b[:]))
}
