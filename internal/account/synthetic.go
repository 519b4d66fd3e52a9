package account

import "strings"

// Name component pools. Order is part of the generator's output contract:
// reordering changes every synthetic name.
var (
	givenPool = []string{
		"AN", "BINH", "CUONG", "DUNG", "GIANG", "HAI", "HANH", "HIEU", "HOA", "HUNG",
		"KHANH", "LAN", "LINH", "LONG", "MAI", "NAM", "PHUONG", "QUANG", "TAM", "TUAN",
	}
	middlePool = []string{
		"VAN", "THI", "MINH", "DUC", "NGOC", "HOANG", "QUOC", "THANH",
	}
	surnamePool = []string{
		"NGUYEN", "TRAN", "LE", "PHAM", "HOANG", "HUYNH", "PHAN", "VU",
		"VO", "DANG", "BUI", "DO", "HO", "NGO", "DUONG", "LY",
	}
)

type composer func(given, middle, surname string) string

func withMiddle(given, middle, surname string) string {
	return given + " " + middle + " " + surname
}

func withoutMiddle(given, _, surname string) string {
	return given + " " + surname
}

var composers = map[string]composer{
	"VCB":  withMiddle,
	"BIDV": withMiddle,
	"VTB":  withMiddle,
	"AGR":  withMiddle,
	"STB":  withMiddle,
	"TCB":  withoutMiddle,
	"MB":   withoutMiddle,
	"TPB":  withoutMiddle,
	"VPB":  withoutMiddle,
	"ACB":  withoutMiddle,
}

// GenerateName maps (bankID, accountNumber) to a plausible but synthetic
// holder name. It is deterministic and total: non-digit characters are
// ignored and an empty digit string behaves as zero.
//
// With N the account number read as an integer, components are picked at
// N mod len(given), floor(N/100) mod len(middle) and
// floor(N/10000) mod len(surname). The arithmetic runs over the decimal
// string so accounts longer than 19 digits stay exact.
func GenerateName(bankID, accountNumber string) string {
	digits := onlyDigits(accountNumber)

	given := givenPool[decimalMod(digits, len(givenPool))]
	middle := middlePool[decimalMod(dropLowDigits(digits, 2), len(middlePool))]
	surname := surnamePool[decimalMod(dropLowDigits(digits, 4), len(surnamePool))]

	compose, ok := composers[bankID]
	if !ok {
		compose = withMiddle
	}
	return compose(given, middle, surname)
}

// decimalMod returns N mod m for the decimal digit string of N.
func decimalMod(digits string, m int) int {
	r := 0
	for i := 0; i < len(digits); i++ {
		r = (r*10 + int(digits[i]-'0')) % m
	}
	return r
}

// dropLowDigits is floor division by 10^n on the decimal string.
func dropLowDigits(digits string, n int) string {
	if len(digits) <= n {
		return ""
	}
	return digits[:len(digits)-n]
}

func onlyDigits(s string) string {
	if isDigits(s) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
