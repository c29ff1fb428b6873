package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in   string
		want Price
	}{
		{"0", 0},
		{"0.00", 0},
		{"5", 500},
		{"5.5", 550},
		{"12.30", 1230},
		{"999.99", 99999},
	}
	for _, tc := range cases {
		got, err := ParsePrice(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParsePriceRejectsOutOfRange(t *testing.T) {
	for _, in := range []string{"-1", "-0.01", "1000", "1000.00", "5.123", "abc", ""} {
		_, err := ParsePrice(in)
		assert.ErrorIs(t, err, ErrInvalidPrice, in)
	}
}

func TestPriceString(t *testing.T) {
	assert.Equal(t, "0.00", Price(0).String())
	assert.Equal(t, "5.05", Price(505).String())
	assert.Equal(t, "999.99", Price(99999).String())
}

func TestPriceJSON(t *testing.T) {
	b, err := json.Marshal(Price(1230))
	require.NoError(t, err)
	assert.Equal(t, "12.30", string(b))

	var p Price
	require.NoError(t, json.Unmarshal([]byte("7.25"), &p))
	assert.Equal(t, Price(725), p)

	// quoted strings are accepted too
	require.NoError(t, json.Unmarshal([]byte(`"3.10"`), &p))
	assert.Equal(t, Price(310), p)

	assert.Error(t, json.Unmarshal([]byte(`"-2"`), &p))
}
