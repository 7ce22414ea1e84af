package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/surplusmkt/surplus/internal/server/session"
)

func TestSecureToken(t *testing.T) {
	t1 := session.SecureToken(24)
	t2 := session.SecureToken(24)

	assert.Len(t, t1, 24)
	assert.Len(t, t2, 24)
	assert.NotEqual(t, t1, t2)
}

func TestSecureCompare(t *testing.T) {
	assert.True(t, session.SecureCompare("QcLppKAMKfLCYNXJAdLzRGkw", "QcLppKAMKfLCYNXJAdLzRGkw"))
	assert.False(t, session.SecureCompare("QcLppKAMKfLCYNXJAdLzRGkw", "wkGRzLdAJXNYCLfKMAKppLcQ"))
	assert.False(t, session.SecureCompare("QcLppKAMKfLCYNXJAdLzRGkw", "QcLppKAMKfLCYNXJ"))
}
