package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KirkDiggler/rpg-progression/cmd/server/client"
	"github.com/KirkDiggler/rpg-progression/internal/config"
	"github.com/KirkDiggler/rpg-progression/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
	"github.com/KirkDiggler/rpg-progression/internal/rules"
)

var (
	tablesScores   string
	tablesHomebrew string
)

var tablesCmd = &cobra.Command{
	Use:   "tables [class]",
	Short: "Print a class progression table, or list the known classes",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTables,
}

func init() {
	tablesCmd.Flags().StringVar(&tablesScores, "scores", "10,10,10,10,10,10", "Ability scores used for resource maxima")
	tablesCmd.Flags().StringVar(&tablesHomebrew, "homebrew", "", "Directory of homebrew class profiles")
}

func runTables(cmd *cobra.Command, args []string) error {
	registry, err := buildRegistry(config.RulesConfig{HomebrewDir: tablesHomebrew}, zap.NewNop())
	if err != nil {
		return err
	}

	if len(args) == 0 {
		for _, id := range registry.Classes() {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	}

	scores, err := client.ParseScores(tablesScores)
	if err != nil {
		return errors.InvalidArgument(err.Error())
	}
	return writeClassTable(cmd.OutOrStdout(), registry, args[0], scores)
}

// writeClassTable prints one row per level: features, slots, spell counts
// and resource maxima. Unknown classes are refused rather than shown as the
// baseline.
func writeClassTable(w io.Writer, registry *rules.Registry, classID string, scores dnd5e.AbilityScores) error {
	if !registry.Has(classID) {
		return errors.NotFoundf("class %q is not in the rule tables", classID)
	}
	profile, _ := registry.Lookup(classID)

	fmt.Fprintf(w, "%s (d%d)\n", profile.Name, profile.HitDie)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LEVEL\tFEATURES\tSLOTS\tKNOWN\tCANTRIPS\tPREPARED\tRESOURCES")
	for level := dnd5e.MinLevel; level <= dnd5e.MaxLevel; level++ {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			level,
			featureNames(registry.FeaturesAtLevel(classID, level)),
			formatSlots(registry.SpellSlotTable(classID, level)),
			formatCount(registry.SpellsKnown(classID, level)),
			formatCount(registry.CantripsKnown(classID, level)),
			formatCount(registry.PreparedSpells(classID, level, scores)),
			formatPools(registry.ResourceTemplate(classID, level, scores)),
		)
	}
	return tw.Flush()
}

func featureNames(features []dnd5e.ClassFeature) string {
	if len(features) == 0 {
		return "-"
	}
	names := make([]string, len(features))
	for i, f := range features {
		names[i] = f.Name
	}
	return strings.Join(names, ", ")
}

// formatSlots renders spell level:slots pairs, e.g. 1:4 2:3
func formatSlots(slots dnd5e.SpellSlotTable) string {
	if len(slots) == 0 {
		return "-"
	}
	levels := make([]int, 0, len(slots))
	for l := range slots {
		levels = append(levels, l)
	}
	sort.Ints(levels)

	parts := make([]string, 0, len(levels))
	for _, l := range levels {
		parts = append(parts, fmt.Sprintf("%d:%d", l, slots[l]))
	}
	return strings.Join(parts, " ")
}

func formatPools(pools []dnd5e.ResourcePool) string {
	if len(pools) == 0 {
		return "-"
	}
	parts := make([]string, len(pools))
	for i, p := range pools {
		parts[i] = fmt.Sprintf("%s %d", p.ID, p.Max)
	}
	return strings.Join(parts, ", ")
}

func formatCount(n int) string {
	if n == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", n)
}
