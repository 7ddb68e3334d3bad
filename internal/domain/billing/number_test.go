package billing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Billing-api/internal/domain"
	"github.com/jhoicas/Billing-api/internal/domain/billing"
)

func TestFormatBillNumber_RellenoMinimoTres(t *testing.T) {
	assert.Equal(t, "BILL-001", billing.FormatBillNumber("BILL", 1))
	assert.Equal(t, "BILL-042", billing.FormatBillNumber("BILL", 42))
	assert.Equal(t, "BILL-999", billing.FormatBillNumber("BILL", 999))
}

func TestFormatBillNumber_CreceSinTruncar(t *testing.T) {
	assert.Equal(t, "BILL-1000", billing.FormatBillNumber("BILL", 1000))
	assert.Equal(t, "BILL-123456", billing.FormatBillNumber("BILL", 123456))
}

func TestFormatBillNumber_PrefijoVacioUsaDefault(t *testing.T) {
	assert.Equal(t, "BILL-007", billing.FormatBillNumber("", 7))
}

func TestParseBillNumber(t *testing.T) {
	cases := map[string]int64{
		"BILL-001":      1,
		"BILL-010":      10,
		"BILL-1000":     1000,
		"INV-2024-0005": 5,
	}
	for in, want := range cases {
		got, err := billing.ParseBillNumber(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseBillNumber_MalformadoFallaRapido(t *testing.T) {
	for _, in := range []string{"", "BILL", "BILL-", "BILL-abc", "BILL-12a", "BILL-+3", "BILL- 3"} {
		_, err := billing.ParseBillNumber(in)
		require.Error(t, err, in)
		assert.ErrorIs(t, err, domain.ErrMalformedBillNumber, in)
	}
}

func TestNextBillNumber_PrimeraFactura(t *testing.T) {
	number, n, err := billing.NextBillNumber("BILL", "")
	require.NoError(t, err)
	assert.Equal(t, "BILL-001", number)
	assert.Equal(t, int64(1), n)
}

func TestNextBillNumber_Incrementa(t *testing.T) {
	number, n, err := billing.NextBillNumber("BILL", "BILL-009")
	require.NoError(t, err)
	assert.Equal(t, "BILL-010", number)
	assert.Equal(t, int64(10), n)

	number, _, err = billing.NextBillNumber("BILL", "BILL-999")
	require.NoError(t, err)
	assert.Equal(t, "BILL-1000", number)
}

func TestNextBillNumber_UltimoMalformado(t *testing.T) {
	_, _, err := billing.NextBillNumber("BILL", "BILL-XYZ")
	assert.ErrorIs(t, err, domain.ErrMalformedBillNumber)
}
