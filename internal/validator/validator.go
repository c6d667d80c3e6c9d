package validator

import (
	"unicode"
	"unicode/utf8"
)

const (
	minLoginLen    = 8
	maxLoginLen    = 64
	minPasswordLen = 8
	maxPasswordLen = 72 // bcrypt ignores anything past 72 bytes
)

// IsValidLogin accepts latin letters and digits only.
func IsValidLogin(login string) bool {
	if len(login) < minLoginLen || len(login) > maxLoginLen {
		return false
	}

	for _, r := range login {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return false
		}
	}

	return true
}

// IsValidPassword requires an upper case letter, a lower case letter, a digit and a symbol.
func IsValidPassword(password string) bool {
	if utf8.RuneCountInString(password) < minPasswordLen || len(password) > maxPasswordLen {
		return false
	}

	var upper, lower, digit, symbol bool

	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		case unicode.IsSpace(r):
			return false
		}
	}

	return upper && lower && digit && symbol
}
