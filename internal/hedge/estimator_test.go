package hedge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMode_Valid(t *testing.T) {
	assert.True(t, ModeStatic.Valid())
	assert.True(t, ModeKalman.Valid())
	assert.False(t, Mode("ols").Valid())
	assert.False(t, Mode("").Valid())
}

func TestWarning_String(t *testing.T) {
	w := Warning{Index: 12, Covariance: 1.5e-13, Message: "filter covariance collapsed, clamped to floor"}

	assert.Equal(t, "bar 12: filter covariance collapsed, clamped to floor (covariance=1.500e-13)", w.String())
}
