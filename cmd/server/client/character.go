package client

import (
	"github.com/spf13/cobra"

	v1alpha1 "github.com/KirkDiggler/rpg-progression/internal/handlers/progression/v1alpha1"
)

var (
	characterID string
	playerID    string
	name        string
	classID     string
	level       int
	scores      string
	maxHP       int
	subclassID  string
)

var createCharacterCmd = &cobra.Command{
	Use:   "create-character",
	Short: "Add a character to a player's roster",
	Long:  `Create a stored character at any level. Max HP defaults to average hit die gains when omitted.`,
	RunE:  runCreateCharacter,
}

var getCharacterCmd = &cobra.Command{
	Use:   "get-character",
	Short: "Get a character by ID",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return call(cmd, v1alpha1.MethodGetCharacter,
			&v1alpha1.CharacterRequest{CharacterID: characterID}, &v1alpha1.CharacterResponse{})
	},
}

var listCharactersCmd = &cobra.Command{
	Use:   "list-characters",
	Short: "List a player's characters",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return call(cmd, v1alpha1.MethodListCharacters,
			&v1alpha1.ListCharactersRequest{PlayerID: playerID}, &v1alpha1.CharactersResponse{})
	},
}

func init() {
	createCharacterCmd.Flags().StringVar(&playerID, "player-id", "", "Player ID (required)")
	createCharacterCmd.Flags().StringVar(&name, "name", "", "Character name (required)")
	createCharacterCmd.Flags().StringVar(&classID, "class", "", "Class, e.g. fighter (required)")
	createCharacterCmd.Flags().IntVar(&level, "level", 1, "Starting level")
	createCharacterCmd.Flags().StringVar(&scores, "scores", "15,14,13,12,10,8", "Ability scores in str,dex,con,int,wis,cha order")
	createCharacterCmd.Flags().IntVar(&maxHP, "max-hp", 0, "Max HP; 0 computes it from the class")
	createCharacterCmd.Flags().StringVar(&subclassID, "subclass", "", "Subclass ID")
	_ = createCharacterCmd.MarkFlagRequired("player-id") // nolint:errcheck // safe to ignore in init
	_ = createCharacterCmd.MarkFlagRequired("name")      // nolint:errcheck // safe to ignore in init
	_ = createCharacterCmd.MarkFlagRequired("class")     // nolint:errcheck // safe to ignore in init

	getCharacterCmd.Flags().StringVar(&characterID, "character-id", "", "Character ID (required)")
	_ = getCharacterCmd.MarkFlagRequired("character-id") // nolint:errcheck // safe to ignore in init

	listCharactersCmd.Flags().StringVar(&playerID, "player-id", "", "Player ID (required)")
	_ = listCharactersCmd.MarkFlagRequired("player-id") // nolint:errcheck // safe to ignore in init
}

func runCreateCharacter(cmd *cobra.Command, _ []string) error {
	abilityScores, err := ParseScores(scores)
	if err != nil {
		return err
	}

	return call(cmd, v1alpha1.MethodCreateCharacter, &v1alpha1.CreateCharacterRequest{
		PlayerID:      playerID,
		Name:          name,
		ClassID:       classID,
		Level:         level,
		AbilityScores: abilityScores,
		MaxHP:         maxHP,
		SubclassID:    subclassID,
	}, &v1alpha1.CharacterResponse{})
}
