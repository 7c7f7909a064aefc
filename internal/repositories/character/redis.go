package character

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sort"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/KirkDiggler/rpg-progression/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
	"github.com/KirkDiggler/rpg-progression/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/rpg-progression/internal/redis"
)

// Player index sets live outside the character: namespace so no character id
// can collide with an index key.
const (
	characterKeyPrefix = "character:"
	playerIndexPrefix  = "player_characters:"
)

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
	logger *zap.Logger
}

// RedisConfig contains configuration for the Redis character repository.
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
	Logger *zap.Logger
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a new Redis-backed character repository. Versioned writes
// use WATCH on the character key so a concurrent writer aborts the transaction.
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  c,
		logger: logger,
	}, nil
}

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if err := validateCharacter(input.Character); err != nil {
		return nil, err
	}

	key := characterKeyPrefix + input.Character.ID
	stored := prepareCreate(input.Character, r.clock.Now().Unix())
	data, err := json.Marshal(stored)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal character data")
	}

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return errors.Wrapf(err, "failed to check existence")
		}
		if exists > 0 {
			return errors.AlreadyExistsf("character with ID %s already exists", input.Character.ID)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			if stored.PlayerID != "" {
				pipe.SAdd(ctx, playerIndexPrefix+stored.PlayerID, stored.ID)
			}
			return nil
		})
		return err
	}, key)

	if stderrors.Is(err, redis.TxFailedErr) {
		return nil, errors.AlreadyExistsf("character with ID %s already exists", input.Character.ID)
	}
	if err != nil {
		var appErr *errors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, errors.Wrapf(err, "failed to create character")
	}

	return &CreateOutput{Character: stored}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	c, err := r.load(ctx, r.client, input.ID)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Character: c}, nil
}

// getter is satisfied by both the client and a WATCH transaction
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *redisRepository) load(ctx context.Context, g getter, id string) (*dnd5e.Character, error) {
	result, err := g.Get(ctx, characterKeyPrefix+id).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("character with ID %s not found", id)
		}
		return nil, errors.Wrapf(err, "failed to get character")
	}

	var c dnd5e.Character
	if err := json.Unmarshal([]byte(result), &c); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal character data")
	}
	return &c, nil
}

// update reads the character inside a WATCH, lets mutate build the next
// snapshot and writes it in MULTI/EXEC. A concurrent write to the key aborts
// the transaction, which is reported as a commit conflict.
func (r *redisRepository) update(
	ctx context.Context,
	id string,
	expected int64,
	mutate func(current *dnd5e.Character) (*dnd5e.Character, error),
) (*dnd5e.Character, error) {
	key := characterKeyPrefix + id
	var next *dnd5e.Character

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := r.load(ctx, tx, id)
		if err != nil {
			return err
		}

		next, err = mutate(current)
		if err != nil {
			return err
		}

		data, err := json.Marshal(next)
		if err != nil {
			return errors.Wrapf(err, "failed to marshal character data")
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}, key)

	if stderrors.Is(err, redis.TxFailedErr) {
		r.logger.Warn("character changed during versioned write",
			zap.String("character_id", id),
			zap.Int64("expected_version", expected))
		actual := int64(-1)
		if latest, loadErr := r.load(ctx, r.client, id); loadErr == nil {
			actual = latest.Version
		}
		return nil, errors.CommitConflict(id, expected, actual)
	}
	if err != nil {
		var appErr *errors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, errors.Wrapf(err, "failed to update character")
	}

	return next, nil
}

func (r *redisRepository) CommitDelta(ctx context.Context, input CommitDeltaInput) (*CommitDeltaOutput, error) {
	if input.Delta == nil {
		return nil, errors.InvalidArgument(errDeltaNil)
	}
	if input.Delta.CharacterID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	now := r.clock.Now().Unix()
	next, err := r.update(ctx, input.Delta.CharacterID, input.Delta.BaseVersion,
		func(current *dnd5e.Character) (*dnd5e.Character, error) {
			return applyDelta(current, input.Delta, now)
		})
	if err != nil {
		return nil, err
	}

	r.logger.Debug("committed level-up",
		zap.String("character_id", next.ID),
		zap.Int("level", next.Level),
		zap.Int64("version", next.Version))

	return &CommitDeltaOutput{Character: next}, nil
}

func (r *redisRepository) SaveResources(ctx context.Context, input SaveResourcesInput) (*SaveResourcesOutput, error) {
	if err := validateCharacter(input.Character); err != nil {
		return nil, err
	}

	now := r.clock.Now().Unix()
	next, err := r.update(ctx, input.Character.ID, input.Character.Version,
		func(current *dnd5e.Character) (*dnd5e.Character, error) {
			return applyResources(current, input.Character, now)
		})
	if err != nil {
		return nil, err
	}

	return &SaveResourcesOutput{Character: next}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errCharacterIDEmpty)
	}

	getOutput, err := r.Get(ctx, GetInput(input))
	if err != nil {
		return nil, err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, characterKeyPrefix+input.ID)
	if getOutput.Character.PlayerID != "" {
		pipe.SRem(ctx, playerIndexPrefix+getOutput.Character.PlayerID, input.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to delete character")
	}

	return &DeleteOutput{}, nil
}

func (r *redisRepository) ListByPlayerID(
	ctx context.Context,
	input ListByPlayerIDInput,
) (*ListByPlayerIDOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	indexKey := playerIndexPrefix + input.PlayerID
	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get characters from index %s", indexKey)
	}
	sort.Strings(ids)

	characters := make([]*dnd5e.Character, 0, len(ids))
	for _, id := range ids {
		c, err := r.load(ctx, r.client, id)
		if err != nil {
			// Stale index entry; clean it up and move on
			if errors.IsNotFound(err) {
				r.logger.Warn("character not found, cleaning up index",
					zap.String("character_id", id),
					zap.String("index_key", indexKey))
				r.client.SRem(ctx, indexKey, id)
				continue
			}
			return nil, errors.Wrapf(err, "failed to get character %s", id)
		}
		characters = append(characters, c)
	}

	r.logger.Debug("listed characters by player",
		zap.String("player_id", input.PlayerID),
		zap.Int("count", len(characters)))

	return &ListByPlayerIDOutput{Characters: characters}, nil
}
