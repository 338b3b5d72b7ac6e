package helpers_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/delvedns/delvedns/internal/helpers"
)

func TestClampInt(t *testing.T) {
	assert.Equal(t, 5, helpers.ClampInt(5, 0, 10))
	assert.Equal(t, 0, helpers.ClampInt(-3, 0, 10))
	assert.Equal(t, 10, helpers.ClampInt(42, 0, 10))
	assert.Equal(t, 0, helpers.ClampInt(0, 0, 10))
	assert.Equal(t, 10, helpers.ClampInt(10, 0, 10))
}

func TestClampIntToUint16(t *testing.T) {
	assert.Equal(t, uint16(0), helpers.ClampIntToUint16(-1))
	assert.Equal(t, uint16(0), helpers.ClampIntToUint16(0))
	assert.Equal(t, uint16(512), helpers.ClampIntToUint16(512))
	assert.Equal(t, uint16(math.MaxUint16), helpers.ClampIntToUint16(math.MaxUint16))
	assert.Equal(t, uint16(math.MaxUint16), helpers.ClampIntToUint16(math.MaxUint16+1))
}

func TestClampIntToUint32(t *testing.T) {
	assert.Equal(t, uint32(0), helpers.ClampIntToUint32(-100))
	assert.Equal(t, uint32(300), helpers.ClampIntToUint32(300))
	assert.Equal(t, uint32(math.MaxUint32), helpers.ClampIntToUint32(math.MaxUint32))
}
