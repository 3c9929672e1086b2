package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/nfrund/fogwar/internal/domain"
	"github.com/nfrund/fogwar/internal/game/world"
)

// Snapshots keeps the world state as one JSON document. Every write replaces
// the whole document.
type Snapshots struct {
	store           Store
	slot            string
	defaultSlot     string
	backupDir       string
	defaultTurnTime int64
	now             func() time.Time
}

// SnapshotConfig locates the documents inside the store.
type SnapshotConfig struct {
	Slot            string
	DefaultSlot     string
	BackupDir       string
	DefaultTurnTime int64
}

// NewSnapshots creates a snapshot slot on top of store.
func NewSnapshots(store Store, cfg SnapshotConfig) *Snapshots {
	return &Snapshots{
		store:           store,
		slot:            cfg.Slot,
		defaultSlot:     cfg.DefaultSlot,
		backupDir:       cfg.BackupDir,
		defaultTurnTime: cfg.DefaultTurnTime,
		now:             time.Now,
	}
}

// Read loads the live world. It returns domain.ErrNotFound when nothing has
// been written yet.
func (s *Snapshots) Read(ctx context.Context) (*world.State, error) {
	return s.read(ctx, s.slot)
}

// Write replaces the live world.
func (s *Snapshots) Write(ctx context.Context, st *world.State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if _, err := s.store.Save(ctx, s.slot, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return nil
}

// Backup copies the live world aside and returns the backup's path. It
// returns "" when there is nothing to back up.
func (s *Snapshots) Backup(ctx context.Context) (string, error) {
	ok, err := s.store.Exists(ctx, s.slot)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	src, err := s.store.Get(ctx, s.slot)
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := fmt.Sprintf("state-%s-%s.json", s.now().UTC().Format("20060102T150405"), uuid.NewString()[:8])
	dst := path.Join(s.backupDir, name)
	if _, err := s.store.Save(ctx, dst, src); err != nil {
		return "", fmt.Errorf("failed to back up world: %w", err)
	}
	return dst, nil
}

// LoadDefault returns the initial map. An empty world is used when no default
// map has been provided.
func (s *Snapshots) LoadDefault(ctx context.Context) (*world.State, error) {
	st, err := s.read(ctx, s.defaultSlot)
	if errors.Is(err, domain.ErrNotFound) {
		return world.New(s.defaultTurnTime), nil
	}
	if err != nil {
		return nil, err
	}
	st.GameStarted = false
	st.CurrentTime = 0
	st.TurnChangeTime = nil
	st.Normalize(s.defaultTurnTime)
	return st, nil
}

func (s *Snapshots) read(ctx context.Context, slot string) (*world.State, error) {
	r, err := s.store.Get(ctx, slot)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", slot, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var st world.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", slot, err)
	}
	st.Normalize(s.defaultTurnTime)
	if err := st.Validate(); err != nil {
		return nil, fmt.Errorf("invalid world in %s: %w", slot, err)
	}
	return &st, nil
}
