package domain

import "time"

// TimeLayout 持久化時間戳格式 (DD.MM.YYYY HH:MM:SS)
const TimeLayout = "02.01.2006 15:04:05"

// Account 單一帳戶的持久化紀錄
// 帳本 map 的 key 即帳戶 ID，結構內不重複存放
// JSON 欄位名稱沿用既有資料檔格式
type Account struct {
	// PasswordHash bcrypt 雜湊後的密碼，永遠不落在任何日誌
	PasswordHash string `json:"password"`
	// Balance 餘額，int64 最小單位（見 CurrencyScale），不可為負
	Balance int64 `json:"balance"`
	// AccountNumber 系統產生的全域唯一帳號，與帳戶 ID 分屬不同命名空間
	AccountNumber string `json:"account_number"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	SSN           string `json:"ssn"`
	// CreatedAt 建立時間，寫入一次後不再變動
	CreatedAt string `json:"created"`
	// ModifiedAt 最後異動時間，首次異動前不存在於資料檔
	ModifiedAt string `json:"modified,omitempty"`
}

// Deposit 存款
func (a *Account) Deposit(amount int64) error {
	if amount <= 0 {
		return ErrAmountMustBePositive
	}
	a.Balance += amount
	return nil
}

// Withdraw 提款，扣款前需檢查餘額
func (a *Account) Withdraw(amount int64) error {
	if amount <= 0 {
		return ErrAmountMustBePositive
	}
	if a.Balance < amount {
		return ErrInsufficientBalance
	}
	a.Balance -= amount
	return nil
}

// Touch 更新最後異動時間
func (a *Account) Touch(now time.Time) {
	a.ModifiedAt = now.Format(TimeLayout)
}

// Clone 回傳紀錄的複本
func (a *Account) Clone() *Account {
	cp := *a
	return &cp
}

// Ledger 全部帳戶的對映：帳戶 ID -> 紀錄
// 整份帳本是持久化的最小單位（snapshot）
type Ledger map[string]*Account

// Clone 深拷貝整份帳本，讓呼叫端的讀取與後續寫入彼此隔離
func (l Ledger) Clone() Ledger {
	out := make(Ledger, len(l))
	for id, acc := range l {
		out[id] = acc.Clone()
	}
	return out
}

// IDs 回傳所有帳戶 ID 的集合
func (l Ledger) IDs() map[string]struct{} {
	out := make(map[string]struct{}, len(l))
	for id := range l {
		out[id] = struct{}{}
	}
	return out
}

// Numbers 回傳所有帳號的集合
func (l Ledger) Numbers() map[string]struct{} {
	out := make(map[string]struct{}, len(l))
	for _, acc := range l {
		out[acc.AccountNumber] = struct{}{}
	}
	return out
}
