package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/JoeShih716/go-file-bank/internal/app/bank/domain"
	"github.com/JoeShih716/go-file-bank/internal/app/bank/usecase"
)

// Store 以單一 JSON 檔保存整份帳本
//
// 寫入採「tmp 檔 + rename」的原子策略，任何時間點資料檔
// 都是一份完整合法的快照，不會出現寫到一半的內容。
// WriteAll 以內部鎖全域序列化。
type Store struct {
	mu   sync.RWMutex
	path string
	// ledger 當前快照的記憶體快取，與磁碟內容同步
	ledger domain.Ledger
}

// Open 開啟（或初始化）資料檔
// 檔案不存在時以空帳本建立；無法建立、讀取或格式錯誤時
// 回傳包裝後的 ErrStorageUnavailable
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w: %w", domain.ErrStorageUnavailable, err)
		}
	}
	s := &Store{path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path 回傳資料檔路徑
func (s *Store) Path() string { return s.path }

func (s *Store) load() error {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		// 初始化為空帳本並立即落盤
		s.ledger = domain.Ledger{}
		return s.writeSnapshot(s.ledger)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w: %w", s.path, domain.ErrStorageUnavailable, err)
	}

	var ledger domain.Ledger
	if err := json.Unmarshal(raw, &ledger); err != nil {
		return fmt.Errorf("parse %s: %w: %w", s.path, domain.ErrStorageUnavailable, err)
	}
	if ledger == nil {
		ledger = domain.Ledger{}
	}
	s.ledger = ledger
	return nil
}

// writeSnapshot 原子寫入：先寫 tmp 檔，完成後以 rename 取代正式檔
// 失敗時原檔不受影響
func (s *Store) writeSnapshot(ledger domain.Ledger) error {
	data, err := json.MarshalIndent(ledger, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w: %w", domain.ErrStorageUnavailable, err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write snapshot: %w: %w", domain.ErrStorageUnavailable, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace snapshot: %w: %w", domain.ErrStorageUnavailable, err)
	}
	return nil
}

// ReadAll 回傳當前快照的複本
func (s *Store) ReadAll(ctx context.Context) (domain.Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Clone(), nil
}

// WriteAll 以整份快照取代磁碟內容
// 落盤成功後才更新記憶體快取，失敗時兩者皆維持原狀
func (s *Store) WriteAll(ctx context.Context, ledger domain.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writeSnapshot(ledger); err != nil {
		return err
	}
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
