package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KirkDiggler/rpg-progression/cmd/server/client"
	"github.com/KirkDiggler/rpg-progression/internal/config"
	"github.com/KirkDiggler/rpg-progression/internal/entities/dnd5e"
	"github.com/KirkDiggler/rpg-progression/internal/errors"
	roster "github.com/KirkDiggler/rpg-progression/internal/orchestrators/character"
	levelup "github.com/KirkDiggler/rpg-progression/internal/progression"
	"github.com/KirkDiggler/rpg-progression/internal/progression/calculator"
	"github.com/KirkDiggler/rpg-progression/internal/rules"
)

var (
	previewClass    string
	previewLevel    int
	previewScores   string
	previewMaxHP    int
	previewChoices  string
	previewHomebrew string
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Plan the next level for an ad-hoc character",
	Long: `Print what the next level brings for a character described by flags.
With --choices, the JSON choices file is validated and the resulting delta is printed too.`,
	Example: `  rpg-progression preview --class warlock --level 2 --scores 8,14,14,10,12,16
  rpg-progression preview --class fighter --level 3 --choices asi.json`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringVar(&previewClass, "class", "", "Class, e.g. wizard (required)")
	previewCmd.Flags().IntVar(&previewLevel, "level", 1, "Current level")
	previewCmd.Flags().StringVar(&previewScores, "scores", "10,10,10,10,10,10", "Ability scores in str,dex,con,int,wis,cha order")
	previewCmd.Flags().IntVar(&previewMaxHP, "max-hp", 0, "Current max HP; 0 assumes average gains")
	previewCmd.Flags().StringVar(&previewChoices, "choices", "", "JSON file with the level-up choices")
	previewCmd.Flags().StringVar(&previewHomebrew, "homebrew", "", "Directory of homebrew class profiles")
	_ = previewCmd.MarkFlagRequired("class") // nolint:errcheck // safe to ignore in init
}

// previewResult is what the preview command prints
type previewResult struct {
	Plan  *levelup.Plan         `json:"plan"`
	Delta *dnd5e.CharacterDelta `json:"delta,omitempty"`
}

func runPreview(cmd *cobra.Command, _ []string) error {
	scores, err := client.ParseScores(previewScores)
	if err != nil {
		return errors.InvalidArgument(err.Error())
	}

	var choices *levelup.Choices
	if previewChoices != "" {
		raw, err := os.ReadFile(previewChoices)
		if err != nil {
			return errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to read choices file")
		}
		choices = &levelup.Choices{}
		if err := json.Unmarshal(raw, choices); err != nil {
			return errors.WrapWithCode(err, errors.CodeInvalidArgument, "malformed choices file")
		}
	}

	registry, err := buildRegistry(config.RulesConfig{HomebrewDir: previewHomebrew}, zap.NewNop())
	if err != nil {
		return err
	}

	result, err := preview(registry, &dnd5e.Character{
		ID:            "preview",
		ClassID:       previewClass,
		Level:         previewLevel,
		AbilityScores: scores,
		MaxHP:         previewMaxHP,
	}, choices)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// preview plans the level after the character's current one and, when
// choices are given, computes the delta they produce
func preview(registry *rules.Registry, character *dnd5e.Character, choices *levelup.Choices) (*previewResult, error) {
	if character.Level < dnd5e.MinLevel || character.Level >= dnd5e.MaxLevel {
		return nil, errors.InvalidArgumentf("level must be between %d and %d, got %d", dnd5e.MinLevel, dnd5e.MaxLevel-1, character.Level)
	}

	profile, _ := registry.Lookup(character.ClassID)
	if character.MaxHP == 0 {
		character.MaxHP = roster.StartingMaxHP(profile.HitDie, character.Level, character.AbilityScores.Modifier(dnd5e.AbilityConstitution))
	}
	character.CurrentHP = character.MaxHP
	character.HitDiceRemaining = character.Level
	character.Resources = registry.ResourceTemplate(character.ClassID, character.Level, character.AbilityScores)
	character.SpellSlots = registry.SpellSlotTable(character.ClassID, character.Level)
	character.Version = 1

	calc, err := calculator.New(&calculator.Config{Rules: registry})
	if err != nil {
		return nil, err
	}

	plan, err := calc.Plan(character, character.Level+1)
	if err != nil {
		return nil, err
	}
	result := &previewResult{Plan: plan}

	if choices != nil {
		result.Delta, err = calc.Calculate(character, character.Level+1, choices)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}
