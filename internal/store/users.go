package store

import (
	"strings"

	"github.com/aldoetobex/mojaz-backend/pkg/models"
)

// FindUser looks a user up by exact username.
func (s *Store) FindUser(username string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.data.Users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, ErrNotFound
}

// InsertUser adds an account. Usernames are unique.
func (s *Store) InsertUser(u models.User) error {
	if strings.TrimSpace(u.Username) == "" {
		ve := &ValidationError{}
		ve.add("username", msgRequired)
		return ve
	}
	return s.mutate("insert user", func(ds *models.Dataset) error {
		for _, existing := range ds.Users {
			if existing.Username == u.Username {
				return ErrConflict
			}
		}
		ds.Users = append(ds.Users, u)
		return nil
	})
}

// UpdateUserPassword replaces the stored password (hash) of a user.
func (s *Store) UpdateUserPassword(username, password string) error {
	return s.mutate("update user password", func(ds *models.Dataset) error {
		for i := range ds.Users {
			if ds.Users[i].Username == username {
				ds.Users[i].Password = password
				return nil
			}
		}
		return ErrNotFound
	})
}
