package file_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	file_adapter "github.com/JoeShih716/go-file-bank/internal/app/bank/adapter/out/file"
	"github.com/JoeShih716/go-file-bank/internal/app/bank/domain"
	"github.com/JoeShih716/go-file-bank/internal/app/bank/usecase"
)

func tempPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "bank.json")
}

func TestOpenInitializesEmptyLedger(t *testing.T) {
	path := tempPath(t)
	store, err := file_adapter.Open(path)
	require.NoError(t, err)

	// 資料檔應立即存在且為合法 JSON 物件
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Empty(t, m)

	ledger, err := store.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ledger)
}

func TestOpenCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "bank.json")
	_, err := file_adapter.Open(path)
	require.NoError(t, err)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestOpenMalformedFile(t *testing.T) {
	path := tempPath(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := file_adapter.Open(path)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := tempPath(t)
	store, err := file_adapter.Open(path)
	require.NoError(t, err)
	ctx := context.Background()

	ledger := domain.Ledger{
		"alice": {
			PasswordHash:  "$2a$10$hash",
			Balance:       50 * domain.CurrencyScale,
			AccountNumber: "78101066661234567890123456",
			CreatedAt:     "28.08.2026 12:00:00",
		},
	}
	require.NoError(t, store.WriteAll(ctx, ledger))

	got, err := store.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, ledger, got)

	// 重新開啟後讀到相同內容
	reopened, err := file_adapter.Open(path)
	require.NoError(t, err)
	got, err = reopened.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, ledger, got)
}

func TestWriteAllReadAllIdempotent(t *testing.T) {
	path := tempPath(t)
	store, err := file_adapter.Open(path)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.WriteAll(ctx, domain.Ledger{
		"alice": {Balance: 7, AccountNumber: "1", CreatedAt: "01.01.2026 00:00:00"},
	}))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	// writeAll(readAll()) 對持久化內容是 no-op
	snap, err := store.ReadAll(ctx)
	require.NoError(t, err)
	require.NoError(t, store.WriteAll(ctx, snap))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestReadAllIsolatedFromWrites(t *testing.T) {
	store, err := file_adapter.Open(tempPath(t))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.WriteAll(ctx, domain.Ledger{"alice": {Balance: 1}}))

	snap, err := store.ReadAll(ctx)
	require.NoError(t, err)
	snap["alice"].Balance = 999

	again, err := store.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), again["alice"].Balance)
}

func TestNoTempFileResidue(t *testing.T) {
	path := tempPath(t)
	store, err := file_adapter.Open(path)
	require.NoError(t, err)

	require.NoError(t, store.WriteAll(context.Background(), domain.Ledger{"a": {}}))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(path), entries[0].Name())
}

// TestEndToEndScenario 走完整流程：
// 建立 alice -> 錯誤密碼登入失敗 -> 正確登入餘額 0 ->
// 存入 50 -> 重新載入資料檔後餘額為 50
func TestEndToEndScenario(t *testing.T) {
	path := tempPath(t)
	store, err := file_adapter.Open(path)
	require.NoError(t, err)

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	bank := usecase.NewBank(store, log)
	ctx := context.Background()

	require.NoError(t, bank.NewSession().Create(ctx, "alice", "Str0ng!Pw", "Str0ng!Pw"))

	sess := bank.NewSession()
	require.ErrorIs(t, sess.Login(ctx, "alice", "wrong"), domain.ErrInvalidPassword)

	require.NoError(t, sess.Login(ctx, "alice", "Str0ng!Pw"))
	require.Equal(t, int64(0), sess.Balance())

	require.NoError(t, sess.Deposit(ctx, 50*domain.CurrencyScale))
	require.Equal(t, int64(50*domain.CurrencyScale), sess.Balance())

	// 重新載入 Store，餘額已持久化
	reopened, err := file_adapter.Open(path)
	require.NoError(t, err)
	ledger, err := reopened.ReadAll(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(50*domain.CurrencyScale), ledger["alice"].Balance)
	assert.NotEmpty(t, ledger["alice"].ModifiedAt)
	assert.NotEmpty(t, ledger["alice"].CreatedAt)
}
