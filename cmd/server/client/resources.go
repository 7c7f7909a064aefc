package client

import (
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-progression/internal/entities/dnd5e"
	v1alpha1 "github.com/KirkDiggler/rpg-progression/internal/handlers/progression/v1alpha1"
)

var (
	poolID    string
	amount    int
	restKind  string
	diceCount int
	diceRolls []int
)

var listResourcesCmd = &cobra.Command{
	Use:   "list-resources",
	Short: "List a character's resource pools and hit points",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return call(cmd, v1alpha1.MethodListResources,
			&v1alpha1.CharacterRequest{CharacterID: characterID}, &v1alpha1.ResourcesResponse{})
	},
}

var spendResourceCmd = &cobra.Command{
	Use:   "spend",
	Short: "Spend one use of a resource pool",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return call(cmd, v1alpha1.MethodSpendResource,
			&v1alpha1.PoolRequest{CharacterID: characterID, PoolID: poolID}, &v1alpha1.PoolResponse{})
	},
}

var recoverResourceCmd = &cobra.Command{
	Use:   "recover",
	Short: "Recover uses of a resource pool, capped at its max",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return call(cmd, v1alpha1.MethodRecoverResource,
			&v1alpha1.PoolRequest{CharacterID: characterID, PoolID: poolID, Amount: amount}, &v1alpha1.PoolResponse{})
	},
}

var restCmd = &cobra.Command{
	Use:   "rest",
	Short: "Take a short or long rest",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return call(cmd, v1alpha1.MethodRest,
			&v1alpha1.RestRequest{CharacterID: characterID, Kind: dnd5e.RestKind(restKind)}, &v1alpha1.RestResponse{})
	},
}

var spendHitDiceCmd = &cobra.Command{
	Use:   "spend-hit-dice",
	Short: "Heal by spending hit dice during a short rest",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return call(cmd, v1alpha1.MethodSpendHitDice, &v1alpha1.SpendHitDiceRequest{
			CharacterID: characterID,
			Count:       diceCount,
			Rolls:       diceRolls,
		}, &v1alpha1.SpendHitDiceResponse{})
	},
}

func init() {
	for _, c := range []*cobra.Command{listResourcesCmd, spendResourceCmd, recoverResourceCmd, restCmd, spendHitDiceCmd} {
		c.Flags().StringVar(&characterID, "character-id", "", "Character ID (required)")
		_ = c.MarkFlagRequired("character-id") // nolint:errcheck // safe to ignore in init
	}
	for _, c := range []*cobra.Command{spendResourceCmd, recoverResourceCmd} {
		c.Flags().StringVar(&poolID, "pool", "", "Pool ID, e.g. second_wind (required)")
		_ = c.MarkFlagRequired("pool") // nolint:errcheck // safe to ignore in init
	}

	recoverResourceCmd.Flags().IntVar(&amount, "amount", 1, "Uses to recover")
	restCmd.Flags().StringVar(&restKind, "kind", string(dnd5e.RestShort), "Rest kind: short or long")
	spendHitDiceCmd.Flags().IntVar(&diceCount, "count", 1, "Hit dice to spend")
	spendHitDiceCmd.Flags().IntSliceVar(&diceRolls, "rolls", nil, "Table rolls, one per die; empty lets the server roll")
}
