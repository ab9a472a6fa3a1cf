package utils

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(pw string) string {
	b, _ := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b)
}

func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}

var (
	ErrPasswordTooShort = errors.New("Password must be at least 8 characters long")
	ErrPasswordNoUpper  = errors.New("Password must contain at least one uppercase letter")
	ErrPasswordNoLower  = errors.New("Password must contain at least one lowercase letter")
	ErrPasswordNoDigit  = errors.New("Password must contain at least one number")
	ErrPasswordNoSymbol = errors.New("Password must contain at least one special character")
)

// 允许的特殊字符集（含空格）
const passwordSymbols = " !@#$%&'()*+,-./[\\]^_`{|}~\""

// ValidatePassword 口令复杂度：≥8 位，含大写、小写、数字、特殊字符各至少一个
func ValidatePassword(pw string) error {
	// 按字符数而非字节数：多字节字符算一位
	if utf8.RuneCountInString(pw) < 8 {
		return ErrPasswordTooShort
	}
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}
	switch {
	case !hasUpper:
		return ErrPasswordNoUpper
	case !hasLower:
		return ErrPasswordNoLower
	case !hasDigit:
		return ErrPasswordNoDigit
	case !hasSymbol:
		return ErrPasswordNoSymbol
	}
	return nil
}
