package engine

import (
	"context"
	"testing"

	"github.com/nfrund/fogwar/internal/domain"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rosterYAML = `
users:
  - name: admin
    password: referee
  - name: Blufor
    password: blue
  - name: Opfor
    password: red
`

func TestLoadRoster(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "config/roster.yaml", []byte(rosterYAML), 0o644))

	r, err := LoadRoster(fs, "config/roster.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"Blufor", "Opfor"}, r.Players())
	assert.Equal(t, []string{"admin", "Blufor", "Opfor"}, r.Names())

	u, err := r.Authenticate(context.Background(), "admin", "referee")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role())

	_, err = r.Authenticate(context.Background(), "Opfor", "blue")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoadRoster_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := LoadRoster(fs, "missing.yaml")
	assert.ErrorContains(t, err, "failed to read roster")

	require.NoError(t, afero.WriteFile(fs, "bad.yaml", []byte("users: ["), 0o644))
	_, err = LoadRoster(fs, "bad.yaml")
	assert.ErrorContains(t, err, "failed to parse roster")
}

func TestNewRoster_Validation(t *testing.T) {
	_, err := NewRoster([]domain.User{{Name: "Blufor"}, {Name: "Blufor"}})
	assert.ErrorIs(t, err, domain.ErrDuplicateUser)

	_, err = NewRoster([]domain.User{{Name: domain.AdminName}})
	assert.ErrorContains(t, err, "no players")

	_, err = NewRoster([]domain.User{{Name: ""}})
	assert.Error(t, err)
}
