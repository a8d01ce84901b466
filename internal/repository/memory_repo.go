package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/victor-a-l-001/techchallenger-auth/internal/model"
)

// MemoryUserRepository is an in-process user store for tests and DB-less
// development. It ships with the two well-known user types preloaded.
type MemoryUserRepository struct {
	mu           sync.RWMutex
	usersByID    map[int]model.User
	usersByEmail map[string]model.User
	roles        map[model.Role]model.UserType
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		usersByID:    map[int]model.User{},
		usersByEmail: map[string]model.User{},
		roles: map[model.Role]model.UserType{
			model.RoleProfessor: {ID: model.RoleProfessor, Name: "Professor", Description: "Professor"},
			model.RoleAluno:     {ID: model.RoleAluno, Name: "Aluno", Description: "Aluno"},
		},
	}
}

// Put inserts or replaces a user record.
func (r *MemoryUserRepository) Put(user model.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.usersByID[user.ID] = user
	r.usersByEmail[strings.ToLower(user.Email)] = user
}

// Remove deletes a user record, simulating account removal between refreshes.
func (r *MemoryUserRepository) Remove(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.usersByID[id]; ok {
		delete(r.usersByEmail, strings.ToLower(user.Email))
		delete(r.usersByID, id)
	}
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.usersByEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return user, nil
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id int) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.usersByID[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return user, nil
}

func (r *MemoryUserRepository) FindRoleByID(_ context.Context, id model.Role) (model.UserType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	role, ok := r.roles[id]
	if !ok {
		return model.UserType{}, model.ErrRoleNotFound
	}
	return role, nil
}
