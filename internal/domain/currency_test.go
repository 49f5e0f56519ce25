package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCurrency(t *testing.T) {
	t.Parallel()
	for _, in := range []string{"EUR", "USD", "CAD", "eur", "Jpy"} {
		code, err := ParseCurrency(in)
		require.NoError(t, err, in)
		require.Len(t, code, 3)
	}

	code, err := ParseCurrency("usd")
	require.NoError(t, err)
	require.Equal(t, "USD", code)
}

func TestParseCurrency_Unknown(t *testing.T) {
	t.Parallel()
	for _, in := range []string{"", "EU", "EURO", "QQQ", "12$"} {
		_, err := ParseCurrency(in)
		require.ErrorIs(t, err, ErrUnknownCurrency, in)
	}
}
