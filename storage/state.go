package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gorm.io/gorm/clause"

	"rental-manager-server/models"
)

// Persistence error kinds. Validation failures never reach here; the
// in-memory mutation has already been applied when these are reported, so
// callers treat memory as the source of truth and surface a warning.
var (
	ErrStateTooLarge    = errors.New("state snapshot exceeds the local storage budget")
	ErrRemoteSyncFailed = errors.New("remote sync failed, saved locally on this device")
)

const (
	defaultSnapshotPath  = "data/state.json"
	defaultSnapshotLimit = 3 * 1024 * 1024 // mirrors the browser build's quota
	stateChannelPrefix   = "app_state_sync:"
)

// StateStore persists the whole AppState blob. Remote mode writes a single
// Postgres row and announces each save over Redis so other instances replace
// their state wholesale (last-write-wins, no merge). Local mode writes a
// JSON snapshot file. Remote failures degrade to the snapshot with a
// one-time warning.
type StateStore struct {
	RowID         string
	SnapshotPath  string
	SnapshotLimit int

	mu             sync.Mutex
	warnedFallback bool
}

// NewStateStore builds a store from the environment. Remote mode is active
// whenever InitializeDB connected.
func NewStateStore() *StateStore {
	rowID := os.Getenv("SHARED_STATE_ROW_ID")
	if rowID == "" {
		rowID = "shared"
	}
	snapshotPath := os.Getenv("STATE_SNAPSHOT_PATH")
	if snapshotPath == "" {
		snapshotPath = defaultSnapshotPath
	}
	return &StateStore{
		RowID:         rowID,
		SnapshotPath:  snapshotPath,
		SnapshotLimit: defaultSnapshotLimit,
	}
}

func (s *StateStore) remoteEnabled() bool { return DB != nil }

func (s *StateStore) channel() string { return stateChannelPrefix + s.RowID }

// Load reads the portfolio state. Remote mode reads the shared row first; an
// empty row falls back to the local snapshot, which is then re-persisted
// remotely so the two stores converge. Every path returns a normalized
// state, never nil.
func (s *StateStore) Load(ctx context.Context) (*models.AppState, error) {
	if s.remoteEnabled() {
		state, found, err := s.loadRemote(ctx)
		if err != nil {
			log.Printf("remote state load failed, falling back to snapshot: %v", err)
		}
		if found {
			return state, nil
		}
		local := s.loadSnapshot()
		if saveErr := s.saveRemote(ctx, local); saveErr != nil {
			log.Printf("could not seed remote state from snapshot: %v", saveErr)
		}
		return local, nil
	}
	return s.loadSnapshot(), nil
}

// Save persists the state after a mutation. In remote mode a failed upsert
// falls back to the snapshot file; the degradation is reported once, then
// silently tolerated until the process restarts. Snapshot failures are
// always reported.
func (s *StateStore) Save(ctx context.Context, state *models.AppState) error {
	if s.remoteEnabled() {
		if err := s.saveRemote(ctx, state); err != nil {
			log.Printf("remote state save failed: %v", err)
			if snapErr := s.saveSnapshot(state); snapErr != nil {
				return fmt.Errorf("%w: local backup also failed: %w", ErrRemoteSyncFailed, snapErr)
			}
			s.mu.Lock()
			warned := s.warnedFallback
			s.warnedFallback = true
			s.mu.Unlock()
			if !warned {
				return ErrRemoteSyncFailed
			}
			return nil
		}
		s.publish(ctx)
		return nil
	}
	return s.saveSnapshot(state)
}

// Subscribe listens for remote change notifications and hands each freshly
// loaded state to onChange. No-op in local mode. Runs until ctx is done.
func (s *StateStore) Subscribe(ctx context.Context, onChange func(*models.AppState)) {
	if !s.remoteEnabled() || Redis == nil {
		return
	}
	sub := Redis.Subscribe(ctx, s.channel())
	go func() {
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}
				if msg.Payload != s.RowID {
					continue
				}
				state, found, err := s.loadRemote(ctx)
				if err != nil || !found {
					log.Printf("state refresh after push notification failed: %v", err)
					continue
				}
				onChange(state)
			}
		}
	}()
}

func (s *StateStore) loadRemote(ctx context.Context) (*models.AppState, bool, error) {
	var row models.AppStateRow
	result := DB.WithContext(ctx).Find(&row, "id = ?", s.RowID)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 0 || len(row.Data) == 0 {
		return nil, false, nil
	}
	state := models.NewAppState()
	if err := json.Unmarshal(row.Data, state); err != nil {
		return nil, false, fmt.Errorf("corrupt remote state row: %w", err)
	}
	state.Normalize()
	return state, true, nil
}

func (s *StateStore) saveRemote(ctx context.Context, state *models.AppState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	row := models.AppStateRow{ID: s.RowID, Data: data, UpdatedAt: time.Now()}
	return DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&row).Error
}

func (s *StateStore) publish(ctx context.Context) {
	if Redis == nil {
		return
	}
	if err := Redis.Publish(ctx, s.channel(), s.RowID).Err(); err != nil {
		log.Printf("state change publish failed: %v", err)
	}
}

func (s *StateStore) loadSnapshot() *models.AppState {
	state := models.NewAppState()
	raw, err := os.ReadFile(s.SnapshotPath)
	if err != nil {
		return state
	}
	if err := json.Unmarshal(raw, state); err != nil {
		log.Printf("corrupt state snapshot %s, starting empty: %v", s.SnapshotPath, err)
		return models.NewAppState()
	}
	state.Normalize()
	return state
}

func (s *StateStore) saveSnapshot(state *models.AppState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	if s.SnapshotLimit > 0 && len(data) > s.SnapshotLimit {
		return ErrStateTooLarge
	}
	if dir := filepath.Dir(s.SnapshotPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.SnapshotPath, data, 0o644)
}
