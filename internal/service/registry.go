package service

import (
	"sort"
	"sync"

	"github.com/gravityplay/gravity-backend/internal/entity"
)

// session pairs a room with its mutex. Every state-changing operation on a
// room runs with this lock held, giving each room a single writer.
type session struct {
	mu   sync.Mutex
	room *entity.Room
}

// registry is the in-process room directory, shared by every connection.
type registry struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

func newRegistry() *registry {
	return &registry{
		sessions: make(map[string]*session),
	}
}

func (that *registry) put(room *entity.Room) *session {
	that.mu.Lock()
	defer that.mu.Unlock()

	sess := &session{room: room}
	that.sessions[room.ID] = sess
	return sess
}

func (that *registry) get(id string) (*session, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	sess, ok := that.sessions[id]
	return sess, ok
}

func (that *registry) remove(id string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.sessions, id)
}

func (that *registry) count() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.sessions)
}

func (that *registry) all() []*session {
	that.mu.RLock()
	defer that.mu.RUnlock()

	sessions := make([]*session, 0, len(that.sessions))
	for _, sess := range that.sessions {
		sessions = append(sessions, sess)
	}
	return sessions
}

// snapshotRooms clones every room under its own lock, producing a list that
// is safe to serialize concurrently with room mutations.
func (that *registry) snapshotRooms() []*entity.Room {
	rooms := make([]*entity.Room, 0, that.count())
	for _, sess := range that.all() {
		sess.mu.Lock()
		rooms = append(rooms, sess.room.Clone())
		sess.mu.Unlock()
	}

	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].CreatedAt != rooms[j].CreatedAt {
			return rooms[i].CreatedAt < rooms[j].CreatedAt
		}
		return rooms[i].ID < rooms[j].ID
	})

	return rooms
}
