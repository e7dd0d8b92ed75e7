package settings

import "sync"

// Store 保存共享的 Settings。CLI 与播放器并发读写时通过它取快照，
// 每次渲染使用快照副本，渲染期间不会看到其他写入。
type Store struct {
	mu       sync.RWMutex
	settings Settings
}

func NewStore(s Settings) *Store {
	return &Store{settings: s}
}

// Snapshot 返回当前参数的副本。
func (store *Store) Snapshot() Settings {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.settings
}

// Update 在写锁内修改参数；修改后校验失败则回滚并返回错误。
func (store *Store) Update(fn func(*Settings)) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	next := store.settings
	fn(&next)
	if err := next.Validate(); err != nil {
		return err
	}
	store.settings = next
	return nil
}

// SetTime 设置动画时间，播放器每帧调用。
func (store *Store) SetTime(t float64) {
	store.mu.Lock()
	store.settings.Time = t
	store.mu.Unlock()
}
