package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestConvertIdenticalRates(t *testing.T) {
	amount := dec("123.456")
	got := Convert(amount, dec("0.90"), dec("0.9"))
	if !got.Equal(amount) {
		t.Fatalf("expected amount unchanged, got %s", got)
	}
}

func TestConvertTwoFractionalDigits(t *testing.T) {
	cases := []struct {
		amount, rateFrom, rateTo, want string
	}{
		{"50.00", "1", "0.9", "45.00"},
		{"50.00", "0.9", "1", "55.56"},
		{"10.00", "1", "7.1", "71.00"},
		{"0.01", "1", "0.9", "0.01"},
		{"100.00", "1.31", "0.9", "68.70"},
	}
	for _, c := range cases {
		got := Convert(dec(c.amount), dec(c.rateFrom), dec(c.rateTo))
		if got.String() != dec(c.want).String() {
			t.Fatalf("Convert(%s, %s, %s) = %s, want %s", c.amount, c.rateFrom, c.rateTo, got, c.want)
		}
		if got.Exponent() < -2 {
			t.Fatalf("Convert(%s, %s, %s) carries more than 2 fractional digits: %s", c.amount, c.rateFrom, c.rateTo, got)
		}
	}
}

func TestConvertBankersRounding(t *testing.T) {
	// 0.125 rounds to 0.12, 0.135 rounds to 0.14 under half-to-even.
	if got := Convert(dec("0.125"), dec("2"), dec("1")); !got.Equal(dec("0.06")) {
		t.Fatalf("expected 0.06, got %s", got)
	}
	if got := Convert(dec("1.25"), dec("10"), dec("1")); !got.Equal(dec("0.12")) {
		t.Fatalf("expected 0.12, got %s", got)
	}
	if got := Convert(dec("1.35"), dec("10"), dec("1")); !got.Equal(dec("0.14")) {
		t.Fatalf("expected 0.14, got %s", got)
	}
}

func TestToBaseFromBaseRoundTrip(t *testing.T) {
	rate := dec("0.90")
	base := ToBase(dec("45.00"), rate)
	if !base.Equal(dec("50.00")) {
		t.Fatalf("expected 50.00 in base currency, got %s", base)
	}
	back := FromBase(base, rate)
	if !back.Equal(dec("45.00")) {
		t.Fatalf("round trip drifted: %s", back)
	}
}

func TestParseCurrency(t *testing.T) {
	for _, c := range Currencies {
		parsed, err := ParseCurrency(string(c))
		if err != nil || parsed != c {
			t.Fatalf("parse %s failed: %v", c, err)
		}
	}
	if _, err := ParseCurrency("GBP"); err == nil {
		t.Fatal("expected error for unsupported currency")
	}
}
