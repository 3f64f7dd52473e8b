package usecase

import "sync"

// lockTable 管理 per-account 的互斥鎖
// 同一帳戶的異動必須序列化；不同帳戶彼此不阻塞
// 鎖只在單次 read-modify-write 期間持有，不會跨越任何人為輸入
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]*sync.Mutex)}
}

// get 取得（或建立）指定帳戶的鎖
func (t *lockTable) get(accountID string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	l, ok := t.locks[accountID]
	if !ok {
		l = &sync.Mutex{}
		t.locks[accountID] = l
	}
	return l
}
