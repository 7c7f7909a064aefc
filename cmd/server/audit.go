package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KirkDiggler/rpg-progression/internal/config"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
	"github.com/KirkDiggler/rpg-progression/internal/observability"
	"github.com/KirkDiggler/rpg-progression/internal/redis"
	"github.com/KirkDiggler/rpg-progression/internal/repositories/character"
)

var (
	auditDelete bool
	auditYes    bool
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Scan the Redis character store for corrupted snapshots",
	Long: `Read every stored character and report snapshots that fail to decode or
break level, hit point, hit die or resource pool bounds.
With --delete the reported snapshots are removed after confirmation.`,
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().BoolVar(&auditDelete, "delete", false, "Delete the reported snapshots")
	auditCmd.Flags().BoolVar(&auditYes, "yes", false, "Skip the delete confirmation")
}

func runAudit(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Storage.Backend != config.StorageRedis {
		return errors.InvalidArgumentf("audit needs the redis backend, configured backend is %q", cfg.Storage.Backend)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	client, err := redis.NewClient(cfg.Storage.Redis.Endpoint, &redis.Options{
		PoolSize:   cfg.Storage.Redis.PoolSize,
		MaxRetries: cfg.Storage.Redis.MaxRetries,
		UseTLS:     cfg.Storage.Redis.UseTLS,
	})
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to create redis client")
	}
	defer func() { _ = client.Close() }()

	return audit(cmd, client, logger)
}

func audit(cmd *cobra.Command, client redis.Client, logger *zap.Logger) error {
	ctx := cmd.Context()
	report, err := character.AuditRedis(ctx, client, logger)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return err
	}

	if !auditDelete || len(report.Findings) == 0 {
		return nil
	}
	if !auditYes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), len(report.Findings)) {
		fmt.Fprintln(cmd.OutOrStdout(), "nothing deleted")
		return nil
	}

	deleted, err := character.PurgeRedis(ctx, client, report.Keys())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %d snapshots\n", deleted)
	return nil
}

func confirm(in io.Reader, out io.Writer, n int) bool {
	fmt.Fprintf(out, "delete %d snapshots? (yes/no): ", n)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	return strings.TrimSpace(strings.ToLower(answer)) == "yes"
}
