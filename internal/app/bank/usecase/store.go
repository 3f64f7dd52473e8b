package usecase

import (
	"context"

	"github.com/JoeShih716/go-file-bank/internal/app/bank/domain"
)

// Store 是帳本持久層的介面
// 實作必須保證：
//   - WriteAll 為原子性的整份快照替換，讀取端不會看到新舊混雜的內容
//   - WriteAll 彼此全域序列化
//   - WriteAll 失敗時，持久化內容維持原狀（no partial commit）
type Store interface {
	// ReadAll 回傳完整帳本快照（複本，與後續寫入隔離）
	ReadAll(ctx context.Context) (domain.Ledger, error)
	// WriteAll 以整份快照取代既有內容
	WriteAll(ctx context.Context, ledger domain.Ledger) error
	// AccountIDs 回傳所有帳戶 ID 集合，用於唯一性檢查
	AccountIDs(ctx context.Context) (map[string]struct{}, error)
	// AccountNumbers 回傳所有帳號集合，用於唯一性檢查
	AccountNumbers(ctx context.Context) (map[string]struct{}, error)
}
