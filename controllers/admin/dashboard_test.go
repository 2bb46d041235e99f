package adminControllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChangePercent(t *testing.T) {
	assert.Equal(t, 0.0, ChangePercent(0, 0))
	assert.Equal(t, 100.0, ChangePercent(0, 5))
	assert.Equal(t, 50.0, ChangePercent(100, 150))
	assert.Equal(t, -50.0, ChangePercent(100, 50))
	assert.Equal(t, -100.0, ChangePercent(100, 0))
}
