package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"go-social-api/internal/model"
)

// memoryUsers is an in-memory UserRepository for flow tests that need real
// state across several calls.
type memoryUsers struct {
	mu    sync.Mutex
	byID  map[string]model.User
	order []string
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: map[string]model.User{}}
}

func (m *memoryUsers) Create(_ context.Context, u model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.byID {
		if existing.Username == u.Username {
			return model.ErrUsernameTaken
		}
	}
	m.byID[u.ID] = u
	m.order = append(m.order, u.ID)
	return nil
}

func (m *memoryUsers) FindByID(_ context.Context, id string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byID[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (m *memoryUsers) FindByUsername(_ context.Context, username string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (m *memoryUsers) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := m.FindByUsername(ctx, username)
	return err == nil, nil
}

func (m *memoryUsers) update(id string, fn func(*model.User)) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byID[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	fn(&u)
	m.byID[id] = u
	return u, nil
}

func (m *memoryUsers) SetRefreshToken(_ context.Context, userID string, token string) error {
	_, err := m.update(userID, func(u *model.User) { u.RefreshToken = token })
	return err
}

func (m *memoryUsers) UpdatePassword(_ context.Context, userID string, passwordHash string) (model.User, error) {
	return m.update(userID, func(u *model.User) { u.PasswordHash = passwordHash })
}

func (m *memoryUsers) UpdateEmail(_ context.Context, userID string, email string) (model.User, error) {
	return m.update(userID, func(u *model.User) { u.Email = email })
}

func (m *memoryUsers) UpdateAvatar(_ context.Context, userID string, avatarURL string) (model.User, error) {
	return m.update(userID, func(u *model.User) { u.Avatar = avatarURL })
}

func (m *memoryUsers) AddScore(_ context.Context, userID string, delta int64) (model.User, error) {
	return m.update(userID, func(u *model.User) { u.Score += delta })
}

func (m *memoryUsers) StoreData(_ context.Context, userID string, data json.RawMessage) (model.User, error) {
	return m.update(userID, func(u *model.User) { u.UserData = data })
}

func (m *memoryUsers) Rank(_ context.Context, userID string, project string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	me, ok := m.byID[userID]
	if !ok || me.Project != project {
		return 0, model.ErrUserNotFound
	}

	rank := 1
	for _, u := range m.byID {
		if u.Project == project && u.Score > me.Score {
			rank++
		}
	}
	return rank, nil
}

func (m *memoryUsers) Leaderboard(_ context.Context, project string, lowRank int, highRank int) ([]model.LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var members []model.User
	for _, id := range m.order {
		if u := m.byID[id]; u.Project == project {
			members = append(members, u)
		}
	}
	sort.SliceStable(members, func(i, j int) bool { return members[i].Score > members[j].Score })

	entries := []model.LeaderboardEntry{}
	prevRank := 0
	for i, u := range members {
		rank := i + 1
		if i > 0 && members[i-1].Score == u.Score {
			rank = prevRank
		}
		prevRank = rank
		if rank >= lowRank && rank <= highRank {
			entries = append(entries, model.LeaderboardEntry{ID: u.ID, Username: u.Username, Score: u.Score, Project: u.Project, Rank: rank})
		}
	}
	return entries, nil
}
