package utils

import (
	"fmt"
	"math"
	"strings"
)

// FormatINR renders an amount as Indian rupees with lakh/crore digit
// grouping and no paise, e.g. 1234567 -> "₹12,34,567".
func FormatINR(amount float64) string {
	negative := amount < 0
	value := int64(math.Round(math.Abs(amount)))
	digits := fmt.Sprintf("%d", value)

	var grouped string
	if len(digits) <= 3 {
		grouped = digits
	} else {
		head := digits[:len(digits)-3]
		tail := digits[len(digits)-3:]
		var parts []string
		for len(head) > 2 {
			parts = append([]string{head[len(head)-2:]}, parts...)
			head = head[:len(head)-2]
		}
		parts = append([]string{head}, parts...)
		grouped = strings.Join(parts, ",") + "," + tail
	}

	if negative {
		return "-₹" + grouped
	}
	return "₹" + grouped
}

var onesWords = []string{
	"", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
	"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
	"seventeen", "eighteen", "nineteen",
}

var tensWords = []string{
	"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety",
}

func twoDigitWords(n int64) string {
	if n < 20 {
		return onesWords[n]
	}
	tens := tensWords[n/10]
	if ones := n % 10; ones != 0 {
		return tens + " " + onesWords[ones]
	}
	return tens
}

func threeDigitWords(n int64) string {
	var parts []string
	if hundreds := n / 100; hundreds != 0 {
		parts = append(parts, onesWords[hundreds]+" hundred")
	}
	if rem := n % 100; rem != 0 {
		parts = append(parts, twoDigitWords(rem))
	}
	return strings.Join(parts, " ")
}

// AmountInWordsIndian spells a rupee amount in the Indian numbering system
// (crore/lakh/thousand) for printed receipts. Fractions are floored.
func AmountInWordsIndian(amount float64) string {
	n := int64(math.Floor(amount))
	if n <= 0 {
		return "zero rupees only"
	}

	crore := n / 10000000
	n %= 10000000
	lakh := n / 100000
	n %= 100000
	thousand := n / 1000
	rest := n % 1000

	var parts []string
	if crore != 0 {
		parts = append(parts, twoDigitWords(crore)+" crore")
	}
	if lakh != 0 {
		parts = append(parts, twoDigitWords(lakh)+" lakh")
	}
	if thousand != 0 {
		parts = append(parts, twoDigitWords(thousand)+" thousand")
	}
	if rest != 0 {
		parts = append(parts, threeDigitWords(rest))
	}

	return strings.Join(parts, " ") + " rupees only"
}
