package cell

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAny_Scalars(t *testing.T) {
	v, err := FromAny(nil)
	require.NoError(t, err)
	assert.Equal(t, Null{}, v)

	v, err = FromAny(true)
	require.NoError(t, err)
	assert.Equal(t, Bool(true), v)

	v, err = FromAny(42)
	require.NoError(t, err)
	assert.Equal(t, Number(42), v)

	v, err = FromAny(3.5)
	require.NoError(t, err)
	assert.Equal(t, Number(3.5), v)

	v, err = FromAny("hello")
	require.NoError(t, err)
	assert.Equal(t, Text("hello"), v)
}

func TestFromAny_DateStrings(t *testing.T) {
	v, err := FromAny("2024-03-01")
	require.NoError(t, err)
	d, ok := v.(Date)
	require.True(t, ok, "plain date string should decode as Date")
	assert.Equal(t, 2024, time.Time(d).Year())

	v, err = FromAny("2024-03-01T10:30:00Z")
	require.NoError(t, err)
	_, ok = v.(Date)
	assert.True(t, ok, "RFC3339 string should decode as Date")
}

func TestFromAny_RejectsNonScalar(t *testing.T) {
	_, err := FromAny([]any{1, 2})
	assert.Error(t, err, "sequences are not cell values")

	_, err = FromAny(map[string]any{"a": 1})
	assert.Error(t, err, "mappings are not cell values")
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(Null{}))
	assert.True(t, IsBlank(Text("")))
	assert.True(t, IsBlank(Text("   ")))
	assert.True(t, IsBlank(nil))

	assert.False(t, IsBlank(Text("x")))
	assert.False(t, IsBlank(Number(0)), "zero is content, not blank")
	assert.False(t, IsBlank(Bool(false)), "false is content, not blank")
	assert.False(t, IsBlank(Date(time.Time{})))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "", Format(Null{}))
	assert.Equal(t, "abc", Format(Text("abc")))
	assert.Equal(t, "1", Format(Number(1)))
	assert.Equal(t, "2.5", Format(Number(2.5)))
	assert.Equal(t, "true", Format(Bool(true)))

	d := Date(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-03-01T00:00:00Z", Format(d))
}
