package client

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-progression/internal/entities/dnd5e"
)

// parseFeatures reads feature=option[,option...] pairs
func parseFeatures(values []string) ([]dnd5e.FeatureSelection, error) {
	out := make([]dnd5e.FeatureSelection, 0, len(values))
	for _, v := range values {
		id, picks, ok := strings.Cut(v, "=")
		if !ok || id == "" || picks == "" {
			return nil, fmt.Errorf("feature %q: want feature_id=option[,option]", v)
		}
		out = append(out, dnd5e.FeatureSelection{
			FeatureID:  strings.TrimSpace(id),
			Selections: splitList(picks),
		})
	}
	return out, nil
}

// parseASI reads ability=bonus pairs such as str=2 or dex=1
func parseASI(values []string) ([]dnd5e.ASIChoice, error) {
	out := make([]dnd5e.ASIChoice, 0, len(values))
	for _, v := range values {
		ability, bonus, ok := strings.Cut(v, "=")
		if !ok {
			return nil, fmt.Errorf("asi %q: want ability=bonus", v)
		}
		n, err := strconv.Atoi(bonus)
		if err != nil {
			return nil, fmt.Errorf("asi %q: bonus is not a number", v)
		}
		out = append(out, dnd5e.ASIChoice{Ability: strings.TrimSpace(ability), Bonus: n})
	}
	return out, nil
}

// parseSpells reads spell_id:level entries. Cantrips may omit the level.
func parseSpells(values []string, defaultLevel int) ([]dnd5e.KnownSpell, error) {
	out := make([]dnd5e.KnownSpell, 0, len(values))
	for _, v := range values {
		id, level, hasLevel := strings.Cut(v, ":")
		spell := dnd5e.KnownSpell{ID: strings.TrimSpace(id), Level: defaultLevel}
		if spell.ID == "" {
			return nil, fmt.Errorf("spell %q: missing id", v)
		}
		if hasLevel {
			n, err := strconv.Atoi(level)
			if err != nil {
				return nil, fmt.Errorf("spell %q: level is not a number", v)
			}
			spell.Level = n
		}
		out = append(out, spell)
	}
	return out, nil
}

// ParseScores reads six comma separated scores in STR,DEX,CON,INT,WIS,CHA order
func ParseScores(v string) (dnd5e.AbilityScores, error) {
	parts := splitList(v)
	if len(parts) != 6 {
		return dnd5e.AbilityScores{}, fmt.Errorf("scores %q: want six values in str,dex,con,int,wis,cha order", v)
	}
	n := make([]int, 6)
	for i, p := range parts {
		score, err := strconv.Atoi(p)
		if err != nil {
			return dnd5e.AbilityScores{}, fmt.Errorf("scores %q: %q is not a number", v, p)
		}
		n[i] = score
	}
	return dnd5e.AbilityScores{
		Strength:     n[0],
		Dexterity:    n[1],
		Constitution: n[2],
		Intelligence: n[3],
		Wisdom:       n[4],
		Charisma:     n[5],
	}, nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
