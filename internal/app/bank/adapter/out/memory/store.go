package memory

import (
	"context"
	"sync"

	"github.com/JoeShih716/go-file-bank/internal/app/bank/domain"
	"github.com/JoeShih716/go-file-bank/internal/app/bank/usecase"
)

// Store 是純記憶體的帳本儲存
// 供測試與 ephemeral 模式使用，行程結束後資料即消失
type Store struct {
	mu     sync.RWMutex
	ledger domain.Ledger
}

// NewStore 建立一個空的記憶體儲存
func NewStore() *Store {
	return &Store{ledger: domain.Ledger{}}
}

// ReadAll 回傳帳本複本
func (s *Store) ReadAll(ctx context.Context) (domain.Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Clone(), nil
}

// WriteAll 以傳入的快照取代既有內容
func (s *Store) WriteAll(ctx context.Context, ledger domain.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger = ledger.Clone()
	return nil
}

// AccountIDs 回傳所有帳戶 ID 集合
func (s *Store) AccountIDs(ctx context.Context) (map[string]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.IDs(), nil
}

// AccountNumbers 回傳所有帳號集合
func (s *Store) AccountNumbers(ctx context.Context) (map[string]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Numbers(), nil
}

var _ usecase.Store = (*Store)(nil)
