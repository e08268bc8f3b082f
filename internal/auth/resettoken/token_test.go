package resettoken

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenFormat(t *testing.T) {
	s := NewDefault()

	for i := 0; i < 1000; i++ {
		tok, err := s.NewToken()
		require.NoError(t, err)
		require.Len(t, tok, 6)

		n, err := strconv.Atoi(tok)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestTTL(t *testing.T) {
	assert.Equal(t, 15*time.Minute, NewDefault().TTL())
	assert.Equal(t, time.Minute, New(time.Minute).TTL())
}
