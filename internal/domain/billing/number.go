// Package billing contiene las reglas puras de facturación: numeración BILL-NNN,
// cálculo de totales y transiciones de estado. Sin dependencias de infraestructura.
package billing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/Billing-api/internal/domain"
)

const (
	// DefaultNumberPrefix prefijo de la numeración visible.
	DefaultNumberPrefix = "BILL"
	// numberMinWidth ancho mínimo del sufijo; crece sin truncar pasado 999.
	numberMinWidth = 3
)

// FormatBillNumber devuelve PREFIX-NNN con relleno de ceros a 3 dígitos como mínimo.
func FormatBillNumber(prefix string, n int64) string {
	if prefix == "" {
		prefix = DefaultNumberPrefix
	}
	return fmt.Sprintf("%s-%0*d", prefix, numberMinWidth, n)
}

// ParseBillNumber extrae el sufijo numérico después del último '-'.
// Falla con ErrMalformedBillNumber si el sufijo no es un entero no negativo:
// asumir un valor por defecto produciría números duplicados.
func ParseBillNumber(number string) (int64, error) {
	idx := strings.LastIndex(number, "-")
	if idx < 0 || idx == len(number)-1 {
		return 0, fmt.Errorf("%w: %q", domain.ErrMalformedBillNumber, number)
	}
	suffix := number[idx+1:]
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q", domain.ErrMalformedBillNumber, number)
		}
	}
	n, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrMalformedBillNumber, number)
	}
	return n, nil
}

// NextBillNumber deriva el siguiente número a partir del último emitido.
// Sin facturas previas ("") devuelve PREFIX-001.
func NextBillNumber(prefix, last string) (string, int64, error) {
	if last == "" {
		return FormatBillNumber(prefix, 1), 1, nil
	}
	n, err := ParseBillNumber(last)
	if err != nil {
		return "", 0, err
	}
	return FormatBillNumber(prefix, n+1), n + 1, nil
}
