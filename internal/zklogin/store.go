package zklogin

import (
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Store 进行中登录会话的内存注册表
// 只存内存：失败或被放弃的尝试不会留下任何可利用的凭证材料
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

// NewStore 创建会话注册表
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Put 登记新会话，顺带清理过期会话
func (st *Store) Put(session *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := time.Now()
	for id, s := range st.sessions {
		if now.Sub(s.CreatedAt) > st.ttl {
			delete(st.sessions, id)
		}
	}

	st.sessions[session.ID] = session
}

// Get 按 ID 取会话，过期视为不存在
func (st *Store) Get(id string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	session, ok := st.sessions[id]
	if !ok {
		return nil, errors.Wrapf(ErrSessionNotFound, "session %s", id)
	}

	if time.Since(session.CreatedAt) > st.ttl {
		delete(st.sessions, id)
		return nil, errors.Wrapf(ErrSessionNotFound, "session %s expired", id)
	}

	return session, nil
}

// Delete 移除会话
func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Len 当前在途会话数
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
