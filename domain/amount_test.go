package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	a, err := ParseAmount("1000000000000000000")
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", a.String())

	a, err = ParseAmount("0")
	require.NoError(t, err)
	assert.True(t, a.IsZero())

	for _, s := range []string{"-1", "1.5", "0.000001", "abc", "", "1e"} {
		_, err := ParseAmount(s)
		assert.Equal(t, ErrInvalidAmountFormat, err, s)
	}
}

func TestAmountArithmetic(t *testing.T) {
	a := MustAmount("100")
	b := MustAmount("30")

	assert.Equal(t, "130", a.Add(b).String())
	assert.Equal(t, "70", a.Sub(b).String())
	assert.Equal(t, 1, a.Cmp(b))
	assert.Equal(t, -1, b.Cmp(a))
	assert.Equal(t, 0, a.Cmp(MustAmount("100")))
	assert.True(t, a.Equals(MustAmount("100")))
	assert.False(t, a.Equals(b))
	assert.True(t, a.IsPositive())
	assert.False(t, ZeroAmount.IsPositive())

	// the zero value behaves as 0
	assert.Equal(t, "30", ZeroAmount.Add(b).String())
}

func TestAmountJSON(t *testing.T) {
	a := MustAmount("123456789012345678901234567890")

	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.Equal(t, `"123456789012345678901234567890"`, string(data))

	decoded := Amount{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, a.Equals(decoded))

	assert.Error(t, json.Unmarshal([]byte(`"-5"`), &decoded))
}

func TestAmountBSON(t *testing.T) {
	a := MustAmount("42000000000000000000")

	typ, data, err := a.MarshalBSONValue()
	require.NoError(t, err)

	decoded := Amount{}
	require.NoError(t, decoded.UnmarshalBSONValue(typ, data))
	assert.True(t, a.Equals(decoded))
}
