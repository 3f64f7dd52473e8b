package domain

import "errors"

var (
	// ErrAccountAlreadyExists 帳戶 ID 已存在
	ErrAccountAlreadyExists = errors.New("account already exists")

	// ErrAccountNotFound 找不到帳戶
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidPassword 密碼與儲存的憑證不符
	ErrInvalidPassword = errors.New("invalid password")

	// ErrWeakPassword 密碼強度不符合政策
	ErrWeakPassword = errors.New("password does not meet the policy")

	// ErrPasswordMismatch 兩次輸入的密碼不一致
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrAlreadyLoggedIn Session 已認證，不可重複 Create/Login
	ErrAlreadyLoggedIn = errors.New("session already authenticated")

	// ErrNotLoggedIn Session 尚未認證
	ErrNotLoggedIn = errors.New("session not authenticated")

	// ErrAmountMustBePositive 金額必須為正數
	ErrAmountMustBePositive = errors.New("amount must be positive")

	// ErrInsufficientBalance 餘額不足
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrStorageUnavailable 儲存層不可用（I/O 失敗或資料檔損壞）
	ErrStorageUnavailable = errors.New("storage unavailable")
)
