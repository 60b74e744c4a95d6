package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromFloatRoundsToCents(t *testing.T) {
	assert.Equal(t, int64(1250), FromFloat(12.5))
	assert.Equal(t, int64(1235), FromFloat(12.345))
	assert.Equal(t, int64(10), FromFloat(0.1))
	assert.Equal(t, int64(-199), FromFloat(-1.99))
}

func TestToFloat(t *testing.T) {
	assert.Equal(t, 12.5, ToFloat(1250))
	assert.Equal(t, 0.07, ToFloat(7))
}

func TestParse(t *testing.T) {
	c, err := Parse(" 1,299.99 ")
	require.NoError(t, err)
	assert.Equal(t, int64(129999), c)

	c, err = Parse("3")
	require.NoError(t, err)
	assert.Equal(t, int64(300), c)

	_, err = Parse("")
	assert.Error(t, err)
	_, err = Parse("abc")
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "12.50", Format(1250))
	assert.Equal(t, "0.05", Format(5))
	assert.Equal(t, "100.00", FormatFloat(100))
	assert.Equal(t, "0.30", FormatFloat(0.1+0.2))
}

func TestLineTotal(t *testing.T) {
	assert.Equal(t, int64(3750), LineTotal(3, 1250))
}

func TestCheckedLineTotal(t *testing.T) {
	total, ok := CheckedLineTotal(3, 1250)
	require.True(t, ok)
	assert.Equal(t, int64(3750), total)

	_, ok = CheckedLineTotal(1_000_000_000_000, 100_000_000_000)
	assert.False(t, ok, "past int64")

	_, ok = CheckedLineTotal(2, MaxCents)
	assert.False(t, ok)

	total, ok = CheckedLineTotal(1, MaxCents)
	require.True(t, ok)
	assert.Equal(t, MaxCents, total)
}
