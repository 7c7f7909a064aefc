package client

import (
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-progression/internal/entities/dnd5e"
	v1alpha1 "github.com/KirkDiggler/rpg-progression/internal/handlers/progression/v1alpha1"
)

var (
	sessionID string
	hpMethod  string
	hpRoll    int
	features  []string
	asi       []string
	spells    []string
	cantrips  []string
)

var startProgressionCmd = &cobra.Command{
	Use:   "start-progression",
	Short: "Open a level-up session for a character",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return call(cmd, v1alpha1.MethodStartProgression,
			&v1alpha1.StartProgressionRequest{CharacterID: characterID}, &v1alpha1.SessionResponse{})
	},
}

var getProgressionCmd = &cobra.Command{
	Use:   "get-progression",
	Short: "Show a level-up session",
	RunE:  sessionCall(v1alpha1.MethodGetProgression),
}

var submitHPCmd = &cobra.Command{
	Use:   "submit-hp",
	Short: "Choose average or rolled HP for the new level",
	Long:  `Submit the HP method. With --method roll and no --roll the server rolls the hit die.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return call(cmd, v1alpha1.MethodSubmitHPChoice, &v1alpha1.SubmitHPChoiceRequest{
			SessionID: sessionID,
			Method:    dnd5e.HPMethod(hpMethod),
			Roll:      hpRoll,
		}, &v1alpha1.SessionResponse{})
	},
}

var submitFeaturesCmd = &cobra.Command{
	Use:   "submit-features",
	Short: "Submit feature selections and the ability score improvement",
	Example: `  submit-features --session-id levelup_1 --feature fighting_style=defense
  submit-features --session-id levelup_2 --asi str=1 --asi con=1
  submit-features --session-id levelup_3 --feature eldritch_invocations=agonizing_blast,mask_of_many_faces`,
	RunE: runSubmitFeatures,
}

var submitSpellsCmd = &cobra.Command{
	Use:     "submit-spells",
	Short:   "Submit new spells and cantrips",
	Example: `  submit-spells --session-id levelup_1 --spell hex:1 --cantrip eldritch_blast`,
	RunE:    runSubmitSpells,
}

var backCmd = &cobra.Command{
	Use:   "back",
	Short: "Return to the previous level-up step",
	RunE:  sessionCall(v1alpha1.MethodBack),
}

var confirmCmd = &cobra.Command{
	Use:   "confirm",
	Short: "Apply the level-up to the stored character",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return call(cmd, v1alpha1.MethodConfirm,
			&v1alpha1.SessionRequest{SessionID: sessionID}, &v1alpha1.ConfirmResponse{})
	},
}

var cancelProgressionCmd = &cobra.Command{
	Use:   "cancel-progression",
	Short: "Abandon a level-up session",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return call(cmd, v1alpha1.MethodCancelProgression,
			&v1alpha1.SessionRequest{SessionID: sessionID}, &v1alpha1.MessageResponse{})
	},
}

func init() {
	startProgressionCmd.Flags().StringVar(&characterID, "character-id", "", "Character ID (required)")
	_ = startProgressionCmd.MarkFlagRequired("character-id") // nolint:errcheck // safe to ignore in init

	for _, c := range []*cobra.Command{getProgressionCmd, submitHPCmd, submitFeaturesCmd, submitSpellsCmd, backCmd, confirmCmd, cancelProgressionCmd} {
		c.Flags().StringVar(&sessionID, "session-id", "", "Level-up session ID (required)")
		_ = c.MarkFlagRequired("session-id") // nolint:errcheck // safe to ignore in init
	}

	submitHPCmd.Flags().StringVar(&hpMethod, "method", string(dnd5e.HPMethodAverage), "HP method: average or roll")
	submitHPCmd.Flags().IntVar(&hpRoll, "roll", 0, "Hit die result when rolling at the table")

	submitFeaturesCmd.Flags().StringArrayVar(&features, "feature", nil, "feature_id=option[,option] (repeatable)")
	submitFeaturesCmd.Flags().StringArrayVar(&asi, "asi", nil, "ability=bonus, e.g. str=2 (repeatable)")

	submitSpellsCmd.Flags().StringArrayVar(&spells, "spell", nil, "spell_id:level (repeatable)")
	submitSpellsCmd.Flags().StringArrayVar(&cantrips, "cantrip", nil, "cantrip id (repeatable)")
}

func sessionCall(method string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		return call(cmd, method, &v1alpha1.SessionRequest{SessionID: sessionID}, &v1alpha1.SessionResponse{})
	}
}

func runSubmitFeatures(cmd *cobra.Command, _ []string) error {
	selections, err := parseFeatures(features)
	if err != nil {
		return err
	}
	improvements, err := parseASI(asi)
	if err != nil {
		return err
	}

	return call(cmd, v1alpha1.MethodSubmitFeatureChoices, &v1alpha1.SubmitFeatureChoicesRequest{
		SessionID: sessionID,
		Features:  selections,
		ASI:       improvements,
	}, &v1alpha1.SessionResponse{})
}

func runSubmitSpells(cmd *cobra.Command, _ []string) error {
	leveled, err := parseSpells(spells, 1)
	if err != nil {
		return err
	}
	zero, err := parseSpells(cantrips, 0)
	if err != nil {
		return err
	}

	return call(cmd, v1alpha1.MethodSubmitSpellChoices, &v1alpha1.SubmitSpellChoicesRequest{
		SessionID: sessionID,
		Spells:    leveled,
		Cantrips:  zero,
	}, &v1alpha1.SessionResponse{})
}
