package main

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"

	"github.com/KirkDiggler/rpg-progression/internal/config"
	"github.com/KirkDiggler/rpg-progression/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
	v1alpha1 "github.com/KirkDiggler/rpg-progression/internal/handlers/progression/v1alpha1"
	levelup "github.com/KirkDiggler/rpg-progression/internal/progression"
	"github.com/KirkDiggler/rpg-progression/internal/repositories/character"
	"github.com/KirkDiggler/rpg-progression/internal/rules"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:      config.ServerConfig{GRPCPort: 50051, ShutdownTimeout: time.Second},
		Storage:     config.StorageConfig{Backend: config.StorageMemory},
		Logging:     config.LoggingConfig{Level: "debug", Format: "console"},
		Progression: config.ProgressionConfig{SessionTTL: time.Minute},
	}
}

func sampleCharacter() *dnd5e.Character {
	return &dnd5e.Character{
		ID:               "char-1",
		PlayerID:         "player-1",
		Name:             "Tamsin",
		ClassID:          dnd5e.ClassRogue,
		Level:            1,
		AbilityScores:    dnd5e.AbilityScores{Strength: 10, Dexterity: 16, Constitution: 12, Intelligence: 12, Wisdom: 10, Charisma: 14},
		MaxHP:            9,
		CurrentHP:        9,
		HitDiceRemaining: 1,
	}
}

func TestBuildRepositoryBackends(t *testing.T) {
	ctx := context.Background()
	logger := zaptest.NewLogger(t)

	t.Run("memory", func(t *testing.T) {
		repo, closer, err := buildRepository(ctx, config.StorageConfig{Backend: config.StorageMemory}, logger)
		require.NoError(t, err)
		assert.Nil(t, closer)
		assert.IsType(t, &character.InMemoryRepository{}, repo)
	})

	t.Run("sqlite", func(t *testing.T) {
		repo, closer, err := buildRepository(ctx, config.StorageConfig{
			Backend: config.StorageSQLite,
			SQLite:  config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "chars.db")},
		}, logger)
		require.NoError(t, err)
		require.NotNil(t, closer)
		defer func() { _ = closer() }()

		_, err = repo.Create(ctx, character.CreateInput{Character: sampleCharacter()})
		require.NoError(t, err)
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		repo, closer, err := buildRepository(ctx, config.StorageConfig{
			Backend: config.StorageRedis,
			Redis:   config.RedisConfig{Endpoint: mr.Addr(), PingTimeout: time.Second},
		}, logger)
		require.NoError(t, err)
		require.NotNil(t, closer)
		defer func() { _ = closer() }()

		_, err = repo.Create(ctx, character.CreateInput{Character: sampleCharacter()})
		require.NoError(t, err)
	})

	t.Run("redis unreachable", func(t *testing.T) {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		addr := mr.Addr()
		mr.Close()

		_, _, err = buildRepository(ctx, config.StorageConfig{
			Backend: config.StorageRedis,
			Redis:   config.RedisConfig{Endpoint: addr, PingTimeout: 200 * time.Millisecond},
		}, logger)
		require.Error(t, err)
		assert.Equal(t, errors.CodeUnavailable, errors.GetCode(err))
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, _, err := buildRepository(ctx, config.StorageConfig{Backend: "postgres"}, logger)
		assert.True(t, errors.IsInvalidArgument(err))
	})
}

const homebrewYAML = `
id: CLASS_BLOOD_HUNTER
name: "Blood Hunter"
hit_die: 10
slot_progression: none
asi_levels: [4, 8, 12, 16, 19]
features:
  - id: crimson_rite
    name: "Crimson Rite"
    level: 1
`

func TestBuildRegistryLoadsHomebrew(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blood_hunter.yaml"), []byte(homebrewYAML), 0o644))

	registry, err := buildRegistry(config.RulesConfig{HomebrewDir: dir}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.True(t, registry.Has("blood_hunter"))
	assert.True(t, registry.Has(dnd5e.ClassFighter))

	_, err = buildRegistry(config.RulesConfig{HomebrewDir: filepath.Join(dir, "missing")}, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestNewAppServesRequests(t *testing.T) {
	ctx := context.Background()
	application, err := newApp(ctx, testConfig(), zaptest.NewLogger(t))
	require.NoError(t, err)
	defer func() { _ = application.Close() }()

	listener := bufconn.Listen(1 << 20)
	srv := newGRPCServer(application.handler, zaptest.NewLogger(t))
	go func() { _ = srv.Serve(listener) }()
	defer srv.Stop()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	health, err := grpc_health_v1.NewHealthClient(conn).Check(ctx,
		&grpc_health_v1.HealthCheckRequest{Service: v1alpha1.ServiceName})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, health.Status)

	var created v1alpha1.CharacterResponse
	require.NoError(t, v1alpha1.NewClient(conn).Do(ctx, v1alpha1.MethodCreateCharacter, &v1alpha1.CreateCharacterRequest{
		PlayerID:      "player-1",
		Name:          "Tamsin",
		ClassID:       dnd5e.ClassRogue,
		AbilityScores: sampleCharacter().AbilityScores,
	}, &created))
	assert.Equal(t, 9, created.Character.MaxHP)
	assert.NotEmpty(t, created.Character.ID)
}

func TestPreview(t *testing.T) {
	registry, err := rules.NewRegistry(nil)
	require.NoError(t, err)

	t.Run("plan only", func(t *testing.T) {
		result, err := preview(registry, &dnd5e.Character{
			ID:            "preview",
			ClassID:       dnd5e.ClassFighter,
			Level:         1,
			AbilityScores: dnd5e.AbilityScores{Strength: 16, Dexterity: 12, Constitution: 14, Intelligence: 8, Wisdom: 10, Charisma: 10},
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, 2, result.Plan.ToLevel)
		assert.Equal(t, 10, result.Plan.HitDie)
		assert.Nil(t, result.Delta)
	})

	t.Run("with choices", func(t *testing.T) {
		result, err := preview(registry, &dnd5e.Character{
			ID:            "preview",
			ClassID:       dnd5e.ClassFighter,
			Level:         1,
			AbilityScores: dnd5e.AbilityScores{Strength: 16, Dexterity: 12, Constitution: 14, Intelligence: 8, Wisdom: 10, Charisma: 10},
		}, &levelup.Choices{HP: levelup.HPChoice{Method: dnd5e.HPMethodAverage}})
		require.NoError(t, err)
		require.NotNil(t, result.Delta)
		assert.Equal(t, 8, result.Delta.HP.Total)
		assert.Equal(t, 20, result.Delta.NewMaxHP)
	})

	t.Run("max level", func(t *testing.T) {
		_, err := preview(registry, &dnd5e.Character{ClassID: dnd5e.ClassFighter, Level: dnd5e.MaxLevel}, nil)
		assert.True(t, errors.IsInvalidArgument(err))
	})
}

func TestWriteClassTable(t *testing.T) {
	registry, err := rules.NewRegistry(nil)
	require.NoError(t, err)

	var out bytes.Buffer
	scores := dnd5e.AbilityScores{Strength: 10, Dexterity: 10, Constitution: 10, Intelligence: 10, Wisdom: 10, Charisma: 10}
	require.NoError(t, writeClassTable(&out, registry, dnd5e.ClassFighter, scores))
	assert.Contains(t, out.String(), "Second Wind")
	assert.Contains(t, out.String(), "action_surge 1")

	out.Reset()
	require.NoError(t, writeClassTable(&out, registry, dnd5e.ClassWizard, scores))
	assert.Contains(t, out.String(), "1:4 2:3 3:2")

	err = writeClassTable(&out, registry, "artificer", scores)
	assert.True(t, errors.IsNotFound(err))
}
