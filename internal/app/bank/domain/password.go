package domain

import (
	"crypto/subtle"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// PasswordSymbols 密碼政策要求的特殊符號集合
const PasswordSymbols = "!@#$%^&*()_+=[{]};:<>|./?,-"

// minPasswordLen 密碼最小長度
const minPasswordLen = 8

// ValidatePassword 檢查密碼強度
// 條件：長度至少 8、至少一個大寫字母、一個數字、一個特殊符號
// 只檢查密碼本身，與確認輸入無關
func ValidatePassword(password string) error {
	if len(password) < minPasswordLen {
		return ErrWeakPassword
	}
	var upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(PasswordSymbols, r):
			symbol = true
		}
	}
	if !upper || !digit || !symbol {
		return ErrWeakPassword
	}
	return nil
}

// ConfirmPassword 以常數時間比較兩次輸入是否一致，避免 timing side-channel
func ConfirmPassword(password, confirm string) error {
	if subtle.ConstantTimeCompare([]byte(password), []byte(confirm)) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}

// HashPassword 產生 bcrypt 雜湊，作為持久化的憑證內容
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// VerifyPassword 驗證密碼與儲存的雜湊是否相符
func VerifyPassword(hash, password string) error {
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return ErrInvalidPassword
	}
	return nil
}
