package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/nfrund/fogwar/internal/domain"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Roster is the static username/password table. The admin entry is the
// referee; every other entry is a player, in turn order.
type Roster struct {
	users  []domain.User
	byName map[string]domain.User
}

type rosterFile struct {
	Users []domain.User `yaml:"users"`
}

// NewRoster validates users and builds a roster.
func NewRoster(users []domain.User) (*Roster, error) {
	r := &Roster{byName: make(map[string]domain.User, len(users))}
	for _, u := range users {
		if u.Name == "" {
			return nil, errors.New("roster entry without a name")
		}
		if _, dup := r.byName[u.Name]; dup {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateUser, u.Name)
		}
		r.byName[u.Name] = u
		r.users = append(r.users, u)
	}
	if len(r.Players()) == 0 {
		return nil, errors.New("roster has no players")
	}
	return r, nil
}

// LoadRoster reads a YAML roster file.
func LoadRoster(fs afero.Fs, path string) (*Roster, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}
	var f rosterFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse roster %s: %w", path, err)
	}
	return NewRoster(f.Users)
}

// Authenticate checks name and password against the table.
func (r *Roster) Authenticate(ctx context.Context, name, password string) (*domain.User, error) {
	u, ok := r.byName[name]
	if !ok || u.Password != password {
		return nil, domain.ErrInvalidCredentials
	}
	return &u, nil
}

// Players returns the non-admin users in turn order.
func (r *Roster) Players() []string {
	var out []string
	for _, u := range r.users {
		if u.Role() == domain.RolePlayer {
			out = append(out, u.Name)
		}
	}
	return out
}

// Names returns every user, referee included.
func (r *Roster) Names() []string {
	out := make([]string, len(r.users))
	for i, u := range r.users {
		out[i] = u.Name
	}
	return out
}
