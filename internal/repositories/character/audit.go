package character

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/KirkDiggler/rpg-progression/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
	redisclient "github.com/KirkDiggler/rpg-progression/internal/redis"
)

// AuditFinding is one stored snapshot that cannot be trusted
type AuditFinding struct {
	Key      string   `json:"key"`
	Problems []string `json:"problems"`
}

// AuditReport summarizes a scan of the Redis character store
type AuditReport struct {
	Checked  int            `json:"checked"`
	Findings []AuditFinding `json:"findings,omitempty"`
}

// Keys returns the keys of every finding
func (r *AuditReport) Keys() []string {
	keys := make([]string, len(r.Findings))
	for i, f := range r.Findings {
		keys[i] = f.Key
	}
	return keys
}

// AuditRedis scans every character snapshot in Redis and reports those that
// do not decode or that break snapshot invariants. It never writes.
func AuditRedis(ctx context.Context, client redisclient.Client, logger *zap.Logger) (*AuditReport, error) {
	if client == nil {
		return nil, errors.InvalidArgument("client is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	report := &AuditReport{}
	iter := client.Scan(ctx, 0, characterKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		report.Checked++

		data, err := client.Get(ctx, key).Result()
		if err != nil {
			logger.Warn("failed to read character during audit", zap.String("key", key), zap.Error(err))
			continue
		}

		var c dnd5e.Character
		if err := json.Unmarshal([]byte(data), &c); err != nil {
			report.Findings = append(report.Findings, AuditFinding{Key: key, Problems: []string{"snapshot is not valid JSON"}})
			continue
		}
		if problems := checkSnapshot(key, &c); len(problems) > 0 {
			report.Findings = append(report.Findings, AuditFinding{Key: key, Problems: problems})
		}
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to scan character keys")
	}

	logger.Info("character audit finished",
		zap.Int("checked", report.Checked),
		zap.Int("findings", len(report.Findings)))
	return report, nil
}

// PurgeRedis deletes the given snapshots and drops them from their player
// index. It returns how many keys were deleted.
func PurgeRedis(ctx context.Context, client redisclient.Client, keys []string) (int, error) {
	deleted := 0
	for _, key := range keys {
		id := strings.TrimPrefix(key, characterKeyPrefix)

		var c dnd5e.Character
		if data, err := client.Get(ctx, key).Result(); err == nil && json.Unmarshal([]byte(data), &c) == nil && c.PlayerID != "" {
			client.SRem(ctx, playerIndexPrefix+c.PlayerID, id)
		}

		n, err := client.Del(ctx, key).Result()
		if err != nil {
			return deleted, errors.Wrapf(err, "failed to delete %s", key)
		}
		deleted += int(n)
	}
	return deleted, nil
}

// checkSnapshot lists the invariants a stored character breaks
func checkSnapshot(key string, c *dnd5e.Character) []string {
	var problems []string
	if characterKeyPrefix+c.ID != key {
		problems = append(problems, fmt.Sprintf("id %q does not match key", c.ID))
	}
	if c.Level < dnd5e.MinLevel || c.Level > dnd5e.MaxLevel {
		problems = append(problems, fmt.Sprintf("level %d is outside %d-%d", c.Level, dnd5e.MinLevel, dnd5e.MaxLevel))
	}
	if c.MaxHP < 1 {
		problems = append(problems, fmt.Sprintf("max hp %d is below 1", c.MaxHP))
	}
	if c.CurrentHP < 0 || c.CurrentHP > c.MaxHP {
		problems = append(problems, fmt.Sprintf("current hp %d is outside 0-%d", c.CurrentHP, c.MaxHP))
	}
	if c.HitDiceRemaining < 0 || c.HitDiceRemaining > c.Level {
		problems = append(problems, fmt.Sprintf("hit dice remaining %d is outside 0-%d", c.HitDiceRemaining, c.Level))
	}
	for _, p := range c.Resources {
		if p.IsPassive() {
			continue
		}
		if p.Current < 0 || p.Current > p.Max {
			problems = append(problems, fmt.Sprintf("pool %s current %d is outside 0-%d", p.ID, p.Current, p.Max))
		}
	}
	if c.Version < 1 {
		problems = append(problems, fmt.Sprintf("version %d is below 1", c.Version))
	}
	return problems
}
