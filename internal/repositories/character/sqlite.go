package character

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/KirkDiggler/rpg-progression/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
	"github.com/KirkDiggler/rpg-progression/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-progression/internal/pkg/sqlitemigrate"
	"github.com/KirkDiggler/rpg-progression/internal/repositories/character/migrations"
)

// SQLiteConfig contains configuration for the SQLite character repository
type SQLiteConfig struct {
	// Path is a file path or ":memory:"
	Path   string
	Clock  clock.Clock
	Logger *zap.Logger
}

// Validate validates the SQLiteConfig
func (cfg *SQLiteConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	errors.ValidateRequired("Path", strings.TrimSpace(cfg.Path), vb)
	return vb.Build()
}

// SQLiteRepository stores each character as a JSON document next to its
// version; versioned writes are UPDATE ... WHERE version = ?
type SQLiteRepository struct {
	db     *sql.DB
	clock  clock.Clock
	logger *zap.Logger
}

// NewSQLite opens the database and applies pending schema migrations
func NewSQLite(cfg *SQLiteConfig) (*SQLiteRepository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	dsn := cfg.Path
	if dsn != ":memory:" {
		dsn = filepath.Clean(dsn) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open sqlite db")
	}
	// one connection keeps :memory: databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "failed to ping sqlite db")
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	applied, err := sqlitemigrate.Apply(context.Background(), db, migrations.FS, ".")
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "failed to migrate schema")
	}
	if len(applied) > 0 {
		logger.Info("applied sqlite migrations", zap.Strings("migrations", applied))
	}

	return &SQLiteRepository{db: db, clock: c, logger: logger}, nil
}

// Close closes the database handle
func (r *SQLiteRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Create inserts a new character
func (r *SQLiteRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if err := validateCharacter(input.Character); err != nil {
		return nil, err
	}

	stored := prepareCreate(input.Character, r.clock.Now().Unix())
	data, err := json.Marshal(stored)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal character data")
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO characters (id, player_id, version, data, updated_at) VALUES (?, ?, ?, ?, ?)`,
		stored.ID, stored.PlayerID, stored.Version, string(data), stored.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, errors.AlreadyExistsf("character with ID %s already exists", stored.ID)
		}
		return nil, errors.Wrapf(err, "failed to create character")
	}

	return &CreateOutput{Character: stored}, nil
}

// Get retrieves a character by ID
func (r *SQLiteRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	c, err := r.load(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Character: c}, nil
}

func (r *SQLiteRepository) load(ctx context.Context, id string) (*dnd5e.Character, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT data FROM characters WHERE id = ?`, id).Scan(&data)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFoundf("character with ID %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get character")
	}
	return decodeCharacter(data)
}

func decodeCharacter(data string) (*dnd5e.Character, error) {
	var c dnd5e.Character
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal character data")
	}
	return &c, nil
}

// store writes next only if the row is still at expected
func (r *SQLiteRepository) store(ctx context.Context, next *dnd5e.Character, expected int64) error {
	data, err := json.Marshal(next)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal character data")
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE characters SET player_id = ?, version = ?, data = ?, updated_at = ? WHERE id = ? AND version = ?`,
		next.PlayerID, next.Version, string(data), next.UpdatedAt, next.ID, expected)
	if err != nil {
		return errors.Wrapf(err, "failed to update character")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "failed to update character")
	}
	if n == 0 {
		actual := int64(-1)
		if latest, loadErr := r.load(ctx, next.ID); loadErr == nil {
			actual = latest.Version
		}
		return errors.CommitConflict(next.ID, expected, actual)
	}
	return nil
}

// CommitDelta applies a level-up delta with a version-checked update
func (r *SQLiteRepository) CommitDelta(ctx context.Context, input CommitDeltaInput) (*CommitDeltaOutput, error) {
	if input.Delta == nil {
		return nil, errors.InvalidArgument(errDeltaNil)
	}

	current, err := r.load(ctx, input.Delta.CharacterID)
	if err != nil {
		return nil, err
	}
	next, err := applyDelta(current, input.Delta, r.clock.Now().Unix())
	if err != nil {
		return nil, err
	}
	if err := r.store(ctx, next, current.Version); err != nil {
		return nil, err
	}

	r.logger.Debug("committed level-up",
		zap.String("character_id", next.ID),
		zap.Int("level", next.Level),
		zap.Int64("version", next.Version))

	return &CommitDeltaOutput{Character: next}, nil
}

// SaveResources stores pools, HP and hit dice with a version-checked update
func (r *SQLiteRepository) SaveResources(ctx context.Context, input SaveResourcesInput) (*SaveResourcesOutput, error) {
	if err := validateCharacter(input.Character); err != nil {
		return nil, err
	}

	current, err := r.load(ctx, input.Character.ID)
	if err != nil {
		return nil, err
	}
	next, err := applyResources(current, input.Character, r.clock.Now().Unix())
	if err != nil {
		return nil, err
	}
	if err := r.store(ctx, next, current.Version); err != nil {
		return nil, err
	}

	return &SaveResourcesOutput{Character: next}, nil
}

// Delete removes a character
func (r *SQLiteRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM characters WHERE id = ?`, input.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to delete character")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to delete character")
	}
	if n == 0 {
		return nil, errors.NotFoundf("character with ID %s not found", input.ID)
	}

	return &DeleteOutput{}, nil
}

// ListByPlayerID returns a player's characters ordered by ID
func (r *SQLiteRepository) ListByPlayerID(ctx context.Context, input ListByPlayerIDInput) (*ListByPlayerIDOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT data FROM characters WHERE player_id = ? ORDER BY id`, input.PlayerID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list characters")
	}
	defer func() { _ = rows.Close() }()

	characters := make([]*dnd5e.Character, 0)
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, errors.Wrapf(err, "failed to scan character")
		}
		c, err := decodeCharacter(data)
		if err != nil {
			return nil, err
		}
		characters = append(characters, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to list characters")
	}

	return &ListByPlayerIDOutput{Characters: characters}, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if stderrors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
