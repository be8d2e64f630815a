// Package validator checks Brazilian tax documents before they are forwarded
// to payment providers, which reject malformed CPF/CNPJ with opaque errors.
package validator

import "strings"

// NormalizeDocument strips punctuation from a CPF/CNPJ.
func NormalizeDocument(doc string) string {
	var b strings.Builder
	for _, r := range doc {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValidDocument accepts either a CPF (11 digits) or a CNPJ (14 digits).
func IsValidDocument(doc string) bool {
	doc = NormalizeDocument(doc)
	switch len(doc) {
	case 11:
		return isValidCPF(doc)
	case 14:
		return isValidCNPJ(doc)
	default:
		return false
	}
}

func allSame(doc string) bool {
	for i := 1; i < len(doc); i++ {
		if doc[i] != doc[0] {
			return false
		}
	}
	return true
}

func isValidCPF(doc string) bool {
	if allSame(doc) {
		return false
	}
	for _, pos := range []int{9, 10} {
		sum := 0
		for i := 0; i < pos; i++ {
			sum += int(doc[i]-'0') * (pos + 1 - i)
		}
		digit := 11 - sum%11
		if digit >= 10 {
			digit = 0
		}
		if digit != int(doc[pos]-'0') {
			return false
		}
	}
	return true
}

func isValidCNPJ(doc string) bool {
	if allSame(doc) {
		return false
	}
	weights := []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	for _, pos := range []int{12, 13} {
		sum := 0
		for i := 0; i < pos; i++ {
			sum += int(doc[i]-'0') * weights[len(weights)-pos+i]
		}
		digit := sum % 11
		if digit < 2 {
			digit = 0
		} else {
			digit = 11 - digit
		}
		if digit != int(doc[pos]-'0') {
			return false
		}
	}
	return true
}
