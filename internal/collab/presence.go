package collab

import (
	"slices"
	"strings"
	"sync"
	"time"
)

// SessionInfo is what the registry knows about a live session.
type SessionInfo struct {
	ID          string    `json:"id"`
	Tool        string    `json:"tool"`
	ToolState   string    `json:"toolState"`
	Shapes      int       `json:"shapes"`
	Messages    int64     `json:"messages"`
	ConnectedAt time.Time `json:"connectedAt"`
}

// Registry tracks live sessions for monitoring.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]SessionInfo // sessionID -> info
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]SessionInfo),
	}
}

func (r *Registry) Update(info SessionInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[info.ID] = info
}

func (r *Registry) Remove(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// All returns every session ordered by id.
func (r *Registry) All() []SessionInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]SessionInfo, 0, len(r.sessions))
	for _, info := range r.sessions {
		result = append(result, info)
	}
	slices.SortFunc(result, func(a, b SessionInfo) int { return strings.Compare(a.ID, b.ID) })
	return result
}
