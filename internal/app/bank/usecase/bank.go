package usecase

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/JoeShih716/go-file-bank/internal/app/bank/domain"
)

// Bank 是帳本系統的核心
// 行程內建立一份，注入給所有 Session（不使用全域單例）
type Bank struct {
	store Store
	locks *lockTable
	log   *logrus.Logger

	// commitMu 序列化所有 read-modify-write 週期
	// 不同帳戶雖各自持有 per-account lock，仍共用同一份快照，
	// 沒有這把鎖時兩筆並發異動會互相蓋掉對方的寫入
	commitMu sync.Mutex
}

// NewBank 建立 Bank 實例
func NewBank(store Store, log *logrus.Logger) *Bank {
	if log == nil {
		log = logrus.New()
	}
	return &Bank{
		store: store,
		locks: newLockTable(),
		log:   log,
	}
}

// NewSession 建立一個未認證的 Session
func (b *Bank) NewSession() *Session {
	return &Session{
		bank: b,
		id:   uuid.New().String(),
	}
}

// commit 執行一次 read-modify-write-persist 週期
// mutate 回傳錯誤時不會寫入，持久化內容維持原狀
func (b *Bank) commit(ctx context.Context, mutate func(domain.Ledger) error) error {
	b.commitMu.Lock()
	defer b.commitMu.Unlock()

	ledger, err := b.store.ReadAll(ctx)
	if err != nil {
		return err
	}
	if err := mutate(ledger); err != nil {
		return err
	}
	return b.store.WriteAll(ctx, ledger)
}
