package branding

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppName(t *testing.T) {
	assert.Equal(t, "DealMate Context", AppName)
	assert.True(t, strings.HasPrefix(ServerName, AppName))
}
