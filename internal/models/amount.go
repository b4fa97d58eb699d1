package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/bytedance/sonic"
)

// Amount is a monetary value in the currency's minor units.
type Amount int64

var currencyPrecision = map[string]int{
	"BIF": 0, "CLP": 0, "DJF": 0, "GNF": 0, "ISK": 0, "JPY": 0, "KMF": 0,
	"KRW": 0, "PYG": 0, "RWF": 0, "UGX": 0, "VND": 0, "VUV": 0, "XAF": 0,
	"XOF": 0, "XPF": 0,
	"BHD": 3, "IQD": 3, "JOD": 3, "KWD": 3, "LYD": 3, "OMR": 3, "TND": 3,
}

// CurrencyPrecision returns the number of minor-unit digits for an ISO 4217 code.
func CurrencyPrecision(currency string) int {
	if p, ok := currencyPrecision[strings.ToUpper(currency)]; ok {
		return p
	}
	return 2
}

// ParseAmount converts a decimal literal into minor units, rounding half away
// from zero at the given precision.
func ParseAmount(value string, precision int) (Amount, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}

	r, ok := new(big.Rat).SetString(value)
	if !ok {
		return 0, fmt.Errorf("invalid amount %q", value)
	}

	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(precision)), nil)
	r.Mul(r, new(big.Rat).SetInt(scale))

	num := new(big.Int).Abs(r.Num())
	den := r.Denom()
	quo, rem := new(big.Int).QuoRem(num, den, new(big.Int))
	if rem.Sign() != 0 && new(big.Int).Mul(rem, big.NewInt(2)).Cmp(den) >= 0 {
		quo.Add(quo, big.NewInt(1))
	}
	if !quo.IsInt64() {
		return 0, fmt.Errorf("amount %q out of range", value)
	}

	minor := quo.Int64()
	if r.Sign() < 0 {
		minor = -minor
	}
	return Amount(minor), nil
}

// Decimal renders the amount as a plain decimal string.
func (a Amount) Decimal(precision int) string {
	sign := ""
	v := int64(a)
	if v < 0 {
		sign = "-"
		v = -v
	}
	if precision <= 0 {
		return fmt.Sprintf("%s%d", sign, v)
	}

	scale := int64(1)
	for range precision {
		scale *= 10
	}
	return fmt.Sprintf("%s%d.%0*d", sign, v/scale, precision, v%scale)
}

// Number renders the amount as a JSON number literal.
func (a Amount) Number(precision int) json.Number {
	return json.Number(a.Decimal(precision))
}

// Decimal holds a number exactly as it was written on the wire, accepting
// both JSON numbers and numeric strings.
type Decimal string

func (d *Decimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := sonic.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = Decimal(strings.TrimSpace(s))
		return nil
	}
	*d = Decimal(data)
	return nil
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	if d == "" {
		return []byte("0"), nil
	}
	if !sonic.Valid([]byte(d)) {
		return sonic.Marshal(string(d))
	}
	return []byte(d), nil
}

// Minor converts the decimal into minor units.
func (d Decimal) Minor(precision int) (Amount, error) {
	return ParseAmount(string(d), precision)
}
