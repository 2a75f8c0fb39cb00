package wholesale

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderNumberRe = regexp.MustCompile(`^WHS-\d{13}-[0-9A-Z]{7}$`)

func TestNewOrderNumber_Format(t *testing.T) {
	for i := 0; i < 100; i++ {
		n := NewOrderNumber()
		require.Regexp(t, orderNumberRe, n)
	}
}

func TestNewOrderNumber_Varies(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		seen[NewOrderNumber()] = true
	}
	assert.Len(t, seen, 100)
}
