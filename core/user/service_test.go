package user

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/darasa/core"
)

type fakeRepo struct {
	users  map[int]User
	lastID int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[int]User)}
}

func (r *fakeRepo) CreateUser(_ context.Context, usr User) (User, error) {
	for _, existing := range r.users {
		if existing.ChatID == usr.ChatID {
			return User{}, &core.DuplicateKeyError{Constraint: "users_chat_id_key"}
		}
	}
	r.lastID++
	usr.ID = r.lastID
	r.users[usr.ID] = usr
	return usr, nil
}

func (r *fakeRepo) GetUserByID(_ context.Context, id int) (User, error) {
	usr, ok := r.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return usr, nil
}

func (r *fakeRepo) GetUserByChatID(_ context.Context, chatID string) (User, error) {
	for _, usr := range r.users {
		if usr.ChatID == chatID {
			return usr, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *fakeRepo) UpdateUserRole(_ context.Context, id int, role string) (User, error) {
	usr, ok := r.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	usr.Role = role
	r.users[id] = usr
	return usr, nil
}

func Test_Service_GetOrCreateByChatID(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo)

	nu := NewUser{ChatID: "12345", Username: "asha", FirstName: "Asha", LastName: "Juma"}

	usr, err := svc.GetOrCreateByChatID(ctx, nu)
	if err != nil {
		t.Fatalf("GetOrCreateByChatID() error = %v", err)
	}
	if usr.Role != RoleStudent {
		t.Errorf("GetOrCreateByChatID() Role = %q, want %q", usr.Role, RoleStudent)
	}
	if usr.CreatedAt.IsZero() || usr.CreatedAt.Location() != time.UTC {
		t.Errorf("GetOrCreateByChatID() CreatedAt = %v, want non-zero UTC", usr.CreatedAt)
	}

	// reconnecting returns the same account, profile changes ignored
	again, err := svc.GetOrCreateByChatID(ctx, NewUser{ChatID: "12345", Username: "asha2"})
	if err != nil {
		t.Fatalf("GetOrCreateByChatID() error = %v", err)
	}
	if again.ID != usr.ID {
		t.Errorf("GetOrCreateByChatID() ID = %d, want %d", again.ID, usr.ID)
	}
	if again.Username != "asha" {
		t.Errorf("GetOrCreateByChatID() Username = %q, want %q", again.Username, "asha")
	}
}

func Test_Service_SetRole(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo)

	usr, _ := svc.GetOrCreateByChatID(ctx, NewUser{ChatID: "12345"})

	promoted, err := svc.SetRole(ctx, usr.ID, UpdateRole{Role: RoleTeacher})
	if err != nil {
		t.Fatalf("SetRole() error = %v", err)
	}
	if !promoted.IsTeacher() {
		t.Errorf("SetRole() Role = %q, want %q", promoted.Role, RoleTeacher)
	}

	// demotions are allowed too
	demoted, err := svc.SetRole(ctx, usr.ID, UpdateRole{Role: RoleStudent})
	if err != nil {
		t.Fatalf("SetRole() error = %v", err)
	}
	if !demoted.IsStudent() {
		t.Errorf("SetRole() Role = %q, want %q", demoted.Role, RoleStudent)
	}

	if _, err = svc.SetRole(ctx, 999, UpdateRole{Role: RoleTeacher}); !core.IsNotFound(err) {
		t.Errorf("SetRole() error = %v, want not found", err)
	}
}
