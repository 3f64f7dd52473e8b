package domain

import (
	"fmt"
	"math/rand"
	"strings"
)

const (
	// AccountNumberPrefix 發號行固定前綴
	AccountNumberPrefix = "7810106666"

	// accountNumberRandomDigits 前綴後的隨機位數
	accountNumberRandomDigits = 16

	// maxNumberAttempts 帳號重生上限
	// 10^16 的空間下仍頻繁碰撞，代表儲存層的資料已經損壞
	maxNumberAttempts = 1000
)

// NewAccountNumber 產生一組隨機帳號（不含唯一性檢查）
func NewAccountNumber() string {
	var b strings.Builder
	b.Grow(len(AccountNumberPrefix) + accountNumberRandomDigits)
	b.WriteString(AccountNumberPrefix)
	for i := 0; i < accountNumberRandomDigits; i++ {
		b.WriteByte(byte('0') + byte(rand.Intn(10)))
	}
	return b.String()
}

// GenerateAccountNumber 產生一組未被占用的帳號
//
// 參數:
//
//	taken: 目前所有已使用的帳號集合
//
// 回傳:
//
//	string: 未被占用的新帳號
//	error: 超過重生上限時回傳包裝後的 ErrStorageUnavailable
func GenerateAccountNumber(taken map[string]struct{}) (string, error) {
	for i := 0; i < maxNumberAttempts; i++ {
		n := NewAccountNumber()
		if _, used := taken[n]; !used {
			return n, nil
		}
	}
	return "", fmt.Errorf("account number space exhausted after %d attempts: %w", maxNumberAttempts, ErrStorageUnavailable)
}
