package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeShih716/go-file-bank/internal/app/bank/adapter/out/memory"
	"github.com/JoeShih716/go-file-bank/internal/app/bank/domain"
	"github.com/JoeShih716/go-file-bank/internal/app/bank/usecase"
)

const testPassword = "Str0ng!Pw"

func newTestBank() (*usecase.Bank, *memory.Store) {
	store := memory.NewStore()
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return usecase.NewBank(store, log), store
}

// failingStore 包裝另一個 Store，可切換讓 WriteAll 失敗
type failingStore struct {
	usecase.Store
	failWrites bool
}

func (f *failingStore) WriteAll(ctx context.Context, ledger domain.Ledger) error {
	if f.failWrites {
		return domain.ErrStorageUnavailable
	}
	return f.Store.WriteAll(ctx, ledger)
}

func TestCreateThenLogin(t *testing.T) {
	bank, _ := newTestBank()
	ctx := context.Background()

	sess := bank.NewSession()
	require.NoError(t, sess.Create(ctx, "alice", testPassword, testPassword))
	assert.True(t, sess.LoggedIn())
	assert.Equal(t, "alice", sess.AccountID())
	assert.Equal(t, int64(0), sess.Balance())
	assert.Contains(t, sess.AccountNumber(), domain.AccountNumberPrefix)

	// 同一組密碼可立刻登入，餘額為 0
	login := bank.NewSession()
	require.NoError(t, login.Login(ctx, "alice", testPassword))
	assert.True(t, login.LoggedIn())
	assert.Equal(t, int64(0), login.Balance())
	assert.Equal(t, sess.AccountNumber(), login.AccountNumber())
}

func TestCreateDuplicateID(t *testing.T) {
	bank, store := newTestBank()
	ctx := context.Background()

	require.NoError(t, bank.NewSession().Create(ctx, "alice", testPassword, testPassword))

	err := bank.NewSession().Create(ctx, "alice", testPassword, testPassword)
	assert.ErrorIs(t, err, domain.ErrAccountAlreadyExists)

	// 失敗的 Create 不可動到既有資料
	ids, err := store.AccountIDs(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}

func TestCreateValidation(t *testing.T) {
	bank, store := newTestBank()
	ctx := context.Background()

	tests := []struct {
		name     string
		password string
		confirm  string
		wantErr  error
	}{
		{"weak password", "weak", "weak", domain.ErrWeakPassword},
		{"no symbol", "Abcdefg1", "Abcdefg1", domain.ErrWeakPassword},
		{"mismatch", testPassword, "Str0ng!Pq", domain.ErrPasswordMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := bank.NewSession()
			assert.ErrorIs(t, sess.Create(ctx, "bob", tt.password, tt.confirm), tt.wantErr)
			assert.False(t, sess.LoggedIn())
		})
	}

	// 驗證失敗前不應寫入任何紀錄
	ids, err := store.AccountIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestCreateWhenLoggedIn(t *testing.T) {
	bank, _ := newTestBank()
	ctx := context.Background()

	sess := bank.NewSession()
	require.NoError(t, sess.Create(ctx, "alice", testPassword, testPassword))
	assert.ErrorIs(t, sess.Create(ctx, "bob", testPassword, testPassword), domain.ErrAlreadyLoggedIn)
	assert.ErrorIs(t, sess.Login(ctx, "alice", testPassword), domain.ErrAlreadyLoggedIn)
}

func TestLoginFailures(t *testing.T) {
	bank, _ := newTestBank()
	ctx := context.Background()

	require.NoError(t, bank.NewSession().Create(ctx, "alice", testPassword, testPassword))

	sess := bank.NewSession()
	assert.ErrorIs(t, sess.Login(ctx, "nobody", testPassword), domain.ErrAccountNotFound)
	assert.False(t, sess.LoggedIn())

	assert.ErrorIs(t, sess.Login(ctx, "alice", "wrong"), domain.ErrInvalidPassword)
	assert.False(t, sess.LoggedIn())

	// 失敗不影響後續的正確登入
	require.NoError(t, sess.Login(ctx, "alice", testPassword))
	assert.True(t, sess.LoggedIn())
}

func TestDepositRequiresLogin(t *testing.T) {
	bank, _ := newTestBank()
	sess := bank.NewSession()
	assert.ErrorIs(t, sess.Deposit(context.Background(), 100), domain.ErrNotLoggedIn)
}

func TestDepositInvalidAmount(t *testing.T) {
	bank, _ := newTestBank()
	ctx := context.Background()

	sess := bank.NewSession()
	require.NoError(t, sess.Create(ctx, "alice", testPassword, testPassword))

	assert.ErrorIs(t, sess.Deposit(ctx, 0), domain.ErrAmountMustBePositive)
	assert.ErrorIs(t, sess.Deposit(ctx, -5), domain.ErrAmountMustBePositive)
	assert.Equal(t, int64(0), sess.Balance())
}

func TestDepositAndWithdraw(t *testing.T) {
	bank, store := newTestBank()
	ctx := context.Background()

	sess := bank.NewSession()
	require.NoError(t, sess.Create(ctx, "alice", testPassword, testPassword))

	require.NoError(t, sess.Deposit(ctx, 50*domain.CurrencyScale))
	assert.Equal(t, int64(50*domain.CurrencyScale), sess.Balance())

	require.NoError(t, sess.Withdraw(ctx, 20*domain.CurrencyScale))
	assert.Equal(t, int64(30*domain.CurrencyScale), sess.Balance())

	assert.ErrorIs(t, sess.Withdraw(ctx, 31*domain.CurrencyScale), domain.ErrInsufficientBalance)
	assert.Equal(t, int64(30*domain.CurrencyScale), sess.Balance())

	// 持久化內容與 Session 檢視一致，且 modified 已寫入
	ledger, err := store.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(30*domain.CurrencyScale), ledger["alice"].Balance)
	assert.NotEmpty(t, ledger["alice"].ModifiedAt)
}

func TestConcurrentDepositsConverge(t *testing.T) {
	bank, store := newTestBank()
	ctx := context.Background()

	require.NoError(t, bank.NewSession().Create(ctx, "alice", testPassword, testPassword))

	// 兩個獨立 Session 對同一帳戶並發存款，不可遺失任何一筆
	const perSession = 50
	const amount = int64(7)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		sess := bank.NewSession()
		require.NoError(t, sess.Login(ctx, "alice", testPassword))
		wg.Add(1)
		go func(s *usecase.Session) {
			defer wg.Done()
			for j := 0; j < perSession; j++ {
				if err := s.Deposit(ctx, amount); err != nil {
					t.Error(err)
					return
				}
			}
		}(sess)
	}
	wg.Wait()

	ledger, err := store.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2*perSession)*amount, ledger["alice"].Balance)
}

func TestConcurrentDepositsDifferentAccounts(t *testing.T) {
	bank, store := newTestBank()
	ctx := context.Background()

	require.NoError(t, bank.NewSession().Create(ctx, "alice", testPassword, testPassword))
	require.NoError(t, bank.NewSession().Create(ctx, "bob", testPassword, testPassword))

	// 共用同一份快照的不同帳戶也不可互相蓋掉寫入
	var wg sync.WaitGroup
	for _, id := range []string{"alice", "bob"} {
		sess := bank.NewSession()
		require.NoError(t, sess.Login(ctx, id, testPassword))
		wg.Add(1)
		go func(s *usecase.Session) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if err := s.Deposit(ctx, 3); err != nil {
					t.Error(err)
					return
				}
			}
		}(sess)
	}
	wg.Wait()

	ledger, err := store.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(150), ledger["alice"].Balance)
	assert.Equal(t, int64(150), ledger["bob"].Balance)
}

func TestDepositRollbackOnPersistFailure(t *testing.T) {
	inner := memory.NewStore()
	store := &failingStore{Store: inner}
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	bank := usecase.NewBank(store, log)
	ctx := context.Background()

	sess := bank.NewSession()
	require.NoError(t, sess.Create(ctx, "alice", testPassword, testPassword))
	require.NoError(t, sess.Deposit(ctx, 100))

	store.failWrites = true
	assert.ErrorIs(t, sess.Deposit(ctx, 50), domain.ErrStorageUnavailable)

	// 持久化失敗時 Session 檢視必須與磁碟內容一致
	assert.Equal(t, int64(100), sess.Balance())
	ledger, err := inner.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(100), ledger["alice"].Balance)

	// 鎖已釋放，後續異動可以繼續
	store.failWrites = false
	require.NoError(t, sess.Deposit(ctx, 50))
	assert.Equal(t, int64(150), sess.Balance())
}

func TestUpdateProfile(t *testing.T) {
	bank, store := newTestBank()
	ctx := context.Background()

	sess := bank.NewSession()
	require.NoError(t, sess.Create(ctx, "alice", testPassword, testPassword))
	require.NoError(t, sess.UpdateProfile(ctx, "Alice", "Doe", "123-45-6789"))
	assert.Equal(t, "Alice", sess.FirstName())

	login := bank.NewSession()
	require.NoError(t, login.Login(ctx, "alice", testPassword))
	assert.Equal(t, "Alice", login.FirstName())
	assert.Equal(t, "Doe", login.LastName())

	ledger, err := store.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "123-45-6789", ledger["alice"].SSN)
}

func TestAccountNumbersPairwiseUnique(t *testing.T) {
	bank, store := newTestBank()
	ctx := context.Background()

	ids := []string{"a1", "a2", "a3", "a4", "a5"}
	for _, id := range ids {
		require.NoError(t, bank.NewSession().Create(ctx, id, testPassword, testPassword))
	}

	numbers, err := store.AccountNumbers(ctx)
	require.NoError(t, err)
	assert.Len(t, numbers, len(ids))
}
