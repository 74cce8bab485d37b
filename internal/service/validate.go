package service

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"medicare/internal/domain"
)

const (
	MaxUsernameLength = 20
	MinPasswordLength = 6
	passwordSpecials  = "!@#$%^&*()-_+="
	emailLocalChars   = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789._%+-"
	emailDomainChars  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-"
)

// ValidEmail checks local@name.ext with one '@', a restricted character set
// and alphabetic extensions of at least two letters.
func ValidEmail(email string) bool {
	if strings.Count(email, "@") != 1 {
		return false
	}
	local, host, _ := strings.Cut(email, "@")
	if local == "" || host == "" || !onlyChars(local, emailLocalChars) {
		return false
	}
	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return false
	}
	if labels[0] == "" || !onlyChars(labels[0], emailDomainChars) {
		return false
	}
	for _, ext := range labels[1:] {
		if utf8.RuneCountInString(ext) < 2 || !onlyLetters(ext) {
			return false
		}
	}
	return true
}

// ValidatePassword returns the first rule the password breaks, or nil.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return domain.ErrPasswordShort
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	switch {
	case !upper:
		return domain.ErrPasswordUpper
	case !lower:
		return domain.ErrPasswordLower
	case !digit:
		return domain.ErrPasswordDigit
	case !special:
		return domain.ErrPasswordSpecial
	}
	return nil
}

func onlyChars(s, allowed string) bool {
	for _, r := range s {
		if !strings.ContainsRune(allowed, r) {
			return false
		}
	}
	return true
}

func onlyLetters(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
