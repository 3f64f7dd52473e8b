package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/JoeShih716/go-file-bank/internal/app/bank/domain"
)

// Session 是單一帳戶在記憶體中的檢視
//
// 狀態機：Unauthenticated -> Authenticated
// Create 與 Login 是僅有的兩個轉移，失敗時狀態不變；
// 沒有登出轉移，重新認證需建立新的 Session。
//
// 認證前除帳戶 ID 外所有欄位皆為零值，餘額回報為 0。
// Session 的異動透過 per-account lock 序列化，同一 Session
// 被多個 goroutine 共用時也不會產生競態。
type Session struct {
	bank *Bank
	// id 僅用於日誌，方便辨識同一儲存層上的多個並發 Session
	id string

	accountID string
	record    domain.Account
	loggedIn  bool
}

// ID 回傳 Session 識別碼
func (s *Session) ID() string { return s.id }

// LoggedIn 回傳是否已認證
func (s *Session) LoggedIn() bool { return s.loggedIn }

// AccountID 回傳帳戶 ID；未認證時為空字串
func (s *Session) AccountID() string { return s.accountID }

// Balance 回傳目前餘額（最小單位）；未認證時為 0
func (s *Session) Balance() int64 { return s.record.Balance }

// AccountNumber 回傳系統產生的帳號
func (s *Session) AccountNumber() string { return s.record.AccountNumber }

func (s *Session) FirstName() string { return s.record.FirstName }
func (s *Session) LastName() string  { return s.record.LastName }

// Create 建立新帳戶
//
// 檢查順序：認證閘門 -> 密碼政策 -> 確認輸入 -> 帳戶 ID 唯一性。
// 成功時寫入餘額 0、空白個人資料與建立時間的新紀錄，
// 並直接以該紀錄完成認證（建立即登入，呼叫端不需再跑一次 Login）。
func (s *Session) Create(ctx context.Context, accountID, password, confirm string) error {
	if s.loggedIn {
		return domain.ErrAlreadyLoggedIn
	}
	if err := domain.ValidatePassword(password); err != nil {
		return err
	}
	if err := domain.ConfirmPassword(password, confirm); err != nil {
		return err
	}

	// 先查一次唯一性，重複的 ID 不需要花 bcrypt 的成本
	ids, err := s.bank.store.AccountIDs(ctx)
	if err != nil {
		return err
	}
	if _, exists := ids[accountID]; exists {
		return domain.ErrAccountAlreadyExists
	}

	hash, err := domain.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	lock := s.bank.locks.get(accountID)
	lock.Lock()
	defer lock.Unlock()

	var created domain.Account
	err = s.bank.commit(ctx, func(ledger domain.Ledger) error {
		// commit 鎖內重新檢查，避免與並發的 Create 競態
		if _, exists := ledger[accountID]; exists {
			return domain.ErrAccountAlreadyExists
		}
		number, err := domain.GenerateAccountNumber(ledger.Numbers())
		if err != nil {
			return err
		}
		acc := &domain.Account{
			PasswordHash:  hash,
			Balance:       0,
			AccountNumber: number,
			CreatedAt:     time.Now().Format(domain.TimeLayout),
		}
		ledger[accountID] = acc
		created = *acc
		return nil
	})
	if err != nil {
		return err
	}

	s.accountID = accountID
	s.record = created
	s.loggedIn = true
	s.bank.log.WithFields(logrus.Fields{
		"session_id": s.id,
		"account_id": accountID,
	}).Info("account created")
	return nil
}

// Login 以帳戶 ID 與密碼完成認證
// 帳戶不存在與密碼錯誤回傳不同的錯誤，讓呼叫端自行決定
// 是否在顯示訊息時模糊兩者的差異
func (s *Session) Login(ctx context.Context, accountID, password string) error {
	if s.loggedIn {
		return domain.ErrAlreadyLoggedIn
	}

	ledger, err := s.bank.store.ReadAll(ctx)
	if err != nil {
		return err
	}
	acc, ok := ledger[accountID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if err := domain.VerifyPassword(acc.PasswordHash, password); err != nil {
		return err
	}

	s.accountID = accountID
	s.record = *acc
	s.loggedIn = true
	s.bank.log.WithFields(logrus.Fields{
		"session_id": s.id,
		"account_id": accountID,
	}).Info("login ok")
	return nil
}

// Deposit 存款
func (s *Session) Deposit(ctx context.Context, amount int64) error {
	if amount <= 0 {
		return domain.ErrAmountMustBePositive
	}
	return s.mutate(ctx, "deposit", func(acc *domain.Account) error {
		return acc.Deposit(amount)
	})
}

// Withdraw 提款，金額超過餘額時回傳 ErrInsufficientBalance
func (s *Session) Withdraw(ctx context.Context, amount int64) error {
	if amount <= 0 {
		return domain.ErrAmountMustBePositive
	}
	return s.mutate(ctx, "withdraw", func(acc *domain.Account) error {
		return acc.Withdraw(amount)
	})
}

// UpdateProfile 更新個人資料欄位並持久化
func (s *Session) UpdateProfile(ctx context.Context, firstName, lastName, ssn string) error {
	return s.mutate(ctx, "update_profile", func(acc *domain.Account) error {
		acc.FirstName = firstName
		acc.LastName = lastName
		acc.SSN = ssn
		return nil
	})
}

// mutate 在 per-account 鎖內執行一次帳戶異動的完整週期：
// 讀取快照 -> 套用異動 -> 更新異動時間 -> 持久化
//
// Session 的記憶體狀態只在持久化成功後才被替換，
// 失敗時記憶體檢視與磁碟內容維持一致（不需要額外 rollback）。
// 鎖在所有離開路徑上都會釋放。
func (s *Session) mutate(ctx context.Context, op string, apply func(*domain.Account) error) error {
	if !s.loggedIn {
		return domain.ErrNotLoggedIn
	}

	lock := s.bank.locks.get(s.accountID)
	lock.Lock()
	defer lock.Unlock()

	var updated domain.Account
	err := s.bank.commit(ctx, func(ledger domain.Ledger) error {
		acc, ok := ledger[s.accountID]
		if !ok {
			return domain.ErrAccountNotFound
		}
		if err := apply(acc); err != nil {
			return err
		}
		acc.Touch(time.Now())
		updated = *acc
		return nil
	})
	if err != nil {
		return err
	}

	s.record = updated
	s.bank.log.WithFields(logrus.Fields{
		"session_id": s.id,
		"account_id": s.accountID,
		"op":         op,
	}).Info("account updated")
	return nil
}
