package store

import (
	"strings"

	"github.com/aldoetobex/mojaz-backend/pkg/models"
)

// ClientPatch carries the fields of an update; nil leaves a field unchanged.
type ClientPatch struct {
	Name             *string
	Phone            *string
	Email            *string
	Notes            *string
	Type             *models.ClientType
	Address          *string
	CompanyName      *string
	SecondaryContact *string
}

func validateClient(c models.Client) error {
	ve := &ValidationError{}
	if strings.TrimSpace(c.Name) == "" {
		ve.add("name", msgRequired)
	}
	if strings.TrimSpace(c.Phone) == "" {
		ve.add("phone", msgRequired)
	}
	if !c.Type.Valid() {
		ve.add("type", msgNotAllowed)
	}
	return ve.orNil()
}

// Clients lists every client in insertion order.
func (s *Store) Clients() []models.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.data.Clients)
}

// Client returns one client.
func (s *Store) Client(id int) (models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOf(s.data.Clients, id, clientKey)
	if i < 0 {
		return models.Client{}, ErrNotFound
	}
	return s.data.Clients[i], nil
}

// InsertClient requires name and phone; the id field of c is ignored.
func (s *Store) InsertClient(c models.Client) (int, error) {
	if c.Type == "" {
		c.Type = models.ClientIndividual
	}
	if err := validateClient(c); err != nil {
		return 0, err
	}
	var id int
	err := s.mutate("insert client", func(ds *models.Dataset) error {
		id = nextID(ds.Clients, clientKey)
		c.ID = id
		ds.Clients = append(ds.Clients, c)
		return nil
	})
	return id, err
}

// UpdateClient applies p to the client with the given id.
func (s *Store) UpdateClient(id int, p ClientPatch) error {
	return s.mutate("update client", func(ds *models.Dataset) error {
		i := indexOf(ds.Clients, id, clientKey)
		if i < 0 {
			return ErrNotFound
		}
		c := ds.Clients[i]
		setIf(&c.Name, p.Name)
		setIf(&c.Phone, p.Phone)
		setIf(&c.Email, p.Email)
		setIf(&c.Notes, p.Notes)
		setIf(&c.Type, p.Type)
		setIf(&c.Address, p.Address)
		setIf(&c.CompanyName, p.CompanyName)
		setIf(&c.SecondaryContact, p.SecondaryContact)
		if err := validateClient(c); err != nil {
			return err
		}
		ds.Clients[i] = c
		return nil
	})
}

// DeleteClient removes a client that nothing references. Otherwise it
// returns a *BlockedError and the table is left untouched.
func (s *Store) DeleteClient(id int) error {
	return s.mutate("delete client", func(ds *models.Dataset) error {
		i := indexOf(ds.Clients, id, clientKey)
		if i < 0 {
			return ErrNotFound
		}
		if deps := clientDependents(ds, id); len(deps) > 0 {
			return &BlockedError{Entity: "client", ID: id, Dependents: deps}
		}
		ds.Clients = removeAt(ds.Clients, i)
		return nil
	})
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
