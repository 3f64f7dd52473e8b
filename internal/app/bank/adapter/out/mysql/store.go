package mysql

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/JoeShih716/go-file-bank/internal/app/bank/domain"
	"github.com/JoeShih716/go-file-bank/internal/app/bank/usecase"
	"github.com/JoeShih716/go-file-bank/pkg/mysql"
)

// sqlAccount 對應資料庫的 accounts 表
// 時間欄位沿用快照檔的字串格式，確保兩種後端資料可互轉
type sqlAccount struct {
	ID            string `gorm:"primaryKey;size:64"`
	Password      string `gorm:"column:password;size:128"`
	Balance       int64
	AccountNumber string `gorm:"uniqueIndex;size:32"`
	FirstName     string `gorm:"size:64"`
	LastName      string `gorm:"size:64"`
	SSN           string `gorm:"column:ssn;size:32"`
	Created       string `gorm:"size:32"`
	Modified      string `gorm:"size:32"`
}

func (*sqlAccount) TableName() string {
	return "accounts"
}

// Store 以 MySQL 作為帳本後端
// 介面語意與檔案後端一致：WriteAll 在單一交易內以整份快照
// 取代資料表內容，失敗時交易回滾、資料維持原狀
type Store struct {
	client *mysql.Client
	// mu 讓 WriteAll 全域序列化，與其他後端的保證一致
	mu sync.Mutex
}

// NewStore 建立 MySQL 帳本儲存並確保資料表存在
func NewStore(client *mysql.Client) (*Store, error) {
	if err := client.DB().AutoMigrate(&sqlAccount{}); err != nil {
		return nil, fmt.Errorf("migrate accounts table: %w: %w", domain.ErrStorageUnavailable, err)
	}
	return &Store{client: client}, nil
}

// ReadAll 載入所有帳戶並組成帳本
func (s *Store) ReadAll(ctx context.Context) (domain.Ledger, error) {
	var rows []sqlAccount
	if err := s.client.DB().WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load accounts: %w: %w", domain.ErrStorageUnavailable, err)
	}
	ledger := make(domain.Ledger, len(rows))
	for i := range rows {
		ledger[rows[i].ID] = toDomain(&rows[i])
	}
	return ledger, nil
}

// WriteAll 在單一交易內讓資料表與傳入的快照完全一致：
// 既有帳戶 upsert，快照中不存在的帳戶刪除
func (s *Store) WriteAll(ctx context.Context, ledger domain.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.client.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make([]string, 0, len(ledger))
		for id := range ledger {
			ids = append(ids, id)
		}
		del := tx.Where("1 = 1")
		if len(ids) > 0 {
			del = tx.Where("id NOT IN ?", ids)
		}
		if err := del.Delete(&sqlAccount{}).Error; err != nil {
			return err
		}
		for id, acc := range ledger {
			row := toRow(id, acc)
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("write snapshot: %w: %w", domain.ErrStorageUnavailable, err)
	}
	return nil
}

// AccountIDs 回傳所有帳戶 ID 集合
func (s *Store) AccountIDs(ctx context.Context) (map[string]struct{}, error) {
	var ids []string
	if err := s.client.DB().WithContext(ctx).Model(&sqlAccount{}).Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list account ids: %w: %w", domain.ErrStorageUnavailable, err)
	}
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}

// AccountNumbers 回傳所有帳號集合
func (s *Store) AccountNumbers(ctx context.Context) (map[string]struct{}, error) {
	var numbers []string
	if err := s.client.DB().WithContext(ctx).Model(&sqlAccount{}).Pluck("account_number", &numbers).Error; err != nil {
		return nil, fmt.Errorf("list account numbers: %w: %w", domain.ErrStorageUnavailable, err)
	}
	out := make(map[string]struct{}, len(numbers))
	for _, n := range numbers {
		out[n] = struct{}{}
	}
	return out, nil
}

func toDomain(row *sqlAccount) *domain.Account {
	return &domain.Account{
		PasswordHash:  row.Password,
		Balance:       row.Balance,
		AccountNumber: row.AccountNumber,
		FirstName:     row.FirstName,
		LastName:      row.LastName,
		SSN:           row.SSN,
		CreatedAt:     row.Created,
		ModifiedAt:    row.Modified,
	}
}

func toRow(id string, acc *domain.Account) *sqlAccount {
	return &sqlAccount{
		ID:            id,
		Password:      acc.PasswordHash,
		Balance:       acc.Balance,
		AccountNumber: acc.AccountNumber,
		FirstName:     acc.FirstName,
		LastName:      acc.LastName,
		SSN:           acc.SSN,
		Created:       acc.CreatedAt,
		Modified:      acc.ModifiedAt,
	}
}

var _ usecase.Store = (*Store)(nil)
