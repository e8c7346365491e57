package utils

import "testing"

func TestFormatINR(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "₹0"},
		{500, "₹500"},
		{1500, "₹1,500"},
		{85000, "₹85,000"},
		{123456, "₹1,23,456"},
		{1234567, "₹12,34,567"},
		{12345678, "₹1,23,45,678"},
		{-85000, "-₹85,000"},
		{1500.6, "₹1,501"},
	}
	for _, tc := range cases {
		if got := FormatINR(tc.in); got != tc.want {
			t.Errorf("FormatINR(%v): got %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestAmountInWordsIndian(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "zero rupees only"},
		{7, "seven rupees only"},
		{18, "eighteen rupees only"},
		{45, "forty five rupees only"},
		{312, "three hundred twelve rupees only"},
		{8500, "eight thousand five hundred rupees only"},
		{85000, "eighty five thousand rupees only"},
		{123456, "one lakh twenty three thousand four hundred fifty six rupees only"},
		{10000000, "one crore rupees only"},
		{12345678, "one crore twenty three lakh forty five thousand six hundred seventy eight rupees only"},
		{999.99, "nine hundred ninety nine rupees only"},
	}
	for _, tc := range cases {
		if got := AmountInWordsIndian(tc.in); got != tc.want {
			t.Errorf("AmountInWordsIndian(%v):\n got %q\nwant %q", tc.in, got, tc.want)
		}
	}
}
