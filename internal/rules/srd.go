package rules

import (
	"strconv"

	"github.com/KirkDiggler/rpg-progression/internal/entities/dnd5e"
)

// Option sets shared by several classes
var (
	fighterStyles = []string{"archery", "defense", "dueling", "great_weapon_fighting", "protection", "two_weapon_fighting"}
	paladinStyles = []string{"defense", "dueling", "great_weapon_fighting", "protection"}
	rangerStyles  = []string{"archery", "defense", "dueling", "two_weapon_fighting"}

	// EldritchInvocations are the SRD invocations a warlock may pick
	EldritchInvocations = []string{
		"agonizing_blast", "armor_of_shadows", "beast_speech", "beguiling_influence",
		"devils_sight", "eldritch_sight", "eldritch_spear", "eyes_of_the_rune_keeper",
		"fiendish_vigor", "gaze_of_two_minds", "mask_of_many_faces", "misty_visions",
		"repelling_blast", "thief_of_five_fates",
	}
	pactBoons = []string{"pact_of_the_chain", "pact_of_the_blade", "pact_of_the_tome"}
)

func feature(id, name string, level int) dnd5e.ClassFeature {
	return dnd5e.ClassFeature{ID: id, Name: name, Level: level, ChoiceType: dnd5e.ChoiceTypeNone}
}

func choice(id, name string, level int, t dnd5e.ChoiceType, options ...string) dnd5e.ClassFeature {
	return dnd5e.ClassFeature{
		ID:             id,
		Name:           name,
		Level:          level,
		RequiresChoice: true,
		ChoiceType:     t,
		Options:        options,
	}
}

func granted(id, name string, level int, g dnd5e.ResourceGrant) dnd5e.ClassFeature {
	f := feature(id, name, level)
	f.Grant = &g
	return f
}

func steps(pairs ...int) []dnd5e.LevelValue {
	out := make([]dnd5e.LevelValue, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, dnd5e.LevelValue{Level: pairs[i], Value: pairs[i+1]})
	}
	return out
}

func singleUse(poolID, name string, recharge dnd5e.RechargeKind) dnd5e.ResourceGrant {
	return dnd5e.ResourceGrant{PoolID: poolID, Name: name, Max: dnd5e.MaxFormula{Base: 1}, Recharge: recharge}
}

// SRDProfiles returns fresh copies of the twelve SRD class profiles
func SRDProfiles() []*ClassProfile {
	return []*ClassProfile{
		barbarian(), bard(), cleric(), druid(), fighter(), monk(),
		paladin(), ranger(), rogue(), sorcerer(), warlock(), wizard(),
	}
}

func barbarian() *ClassProfile {
	return &ClassProfile{
		ID:     dnd5e.ClassBarbarian,
		Name:   "Barbarian",
		HitDie: 12,
		Features: []dnd5e.ClassFeature{
			granted("rage", "Rage", 1, dnd5e.ResourceGrant{
				PoolID:        "rage",
				Name:          "Rage",
				Max:           dnd5e.MaxFormula{Steps: steps(1, 2, 3, 3, 6, 4, 12, 5, 17, 6)},
				Recharge:      dnd5e.RechargeLongRest,
				RechargeSteps: []dnd5e.RechargeStep{{Level: 20, Recharge: dnd5e.RechargePassive}},
			}),
			feature("unarmored_defense", "Unarmored Defense", 1),
			feature("reckless_attack", "Reckless Attack", 2),
			feature("danger_sense", "Danger Sense", 2),
			choice("primal_path", "Primal Path", 3, dnd5e.ChoiceTypeSubclass, "berserker"),
			feature("extra_attack", "Extra Attack", 5),
			feature("fast_movement", "Fast Movement", 5),
			feature("path_feature_6", "Path Feature", 6),
			feature("feral_instinct", "Feral Instinct", 7),
			feature("brutal_critical_9", "Brutal Critical (1 die)", 9),
			feature("path_feature_10", "Path Feature", 10),
			feature("relentless_rage", "Relentless Rage", 11),
			feature("brutal_critical_13", "Brutal Critical (2 dice)", 13),
			feature("path_feature_14", "Path Feature", 14),
			feature("persistent_rage", "Persistent Rage", 15),
			feature("brutal_critical_17", "Brutal Critical (3 dice)", 17),
			feature("indomitable_might", "Indomitable Might", 18),
			feature("primal_champion", "Primal Champion", 20),
		},
		SlotProgression: SlotProgressionNone,
	}
}

func bard() *ClassProfile {
	return &ClassProfile{
		ID:     dnd5e.ClassBard,
		Name:   "Bard",
		HitDie: 8,
		Features: []dnd5e.ClassFeature{
			feature("spellcasting", "Spellcasting", 1),
			granted("bardic_inspiration", "Bardic Inspiration", 1, dnd5e.ResourceGrant{
				PoolID:        "bardic_inspiration",
				Name:          "Bardic Inspiration",
				Max:           dnd5e.MaxFormula{Ability: dnd5e.AbilityCharisma, Minimum: 1},
				Recharge:      dnd5e.RechargeLongRest,
				RechargeSteps: []dnd5e.RechargeStep{{Level: 5, Recharge: dnd5e.RechargeShortRest}},
			}),
			feature("jack_of_all_trades", "Jack of All Trades", 2),
			feature("song_of_rest", "Song of Rest", 2),
			choice("bard_college", "Bard College", 3, dnd5e.ChoiceTypeSubclass, "lore"),
			feature("expertise_3", "Expertise", 3),
			feature("font_of_inspiration", "Font of Inspiration", 5),
			feature("countercharm", "Countercharm", 6),
			feature("college_feature_6", "Bard College Feature", 6),
			feature("expertise_10", "Expertise", 10),
			feature("magical_secrets_10", "Magical Secrets", 10),
			feature("college_feature_14", "Bard College Feature", 14),
			feature("magical_secrets_14", "Magical Secrets", 14),
			feature("magical_secrets_18", "Magical Secrets", 18),
			feature("superior_inspiration", "Superior Inspiration", 20),
		},
		SlotProgression:  SlotProgressionFull,
		SpellsKnownTable: []int{4, 5, 6, 7, 8, 9, 10, 11, 12, 14, 15, 15, 16, 18, 19, 19, 20, 22, 22, 22},
		CantripSteps:     steps(1, 2, 4, 3, 10, 4),
	}
}

func cleric() *ClassProfile {
	return &ClassProfile{
		ID:     dnd5e.ClassCleric,
		Name:   "Cleric",
		HitDie: 8,
		Features: []dnd5e.ClassFeature{
			feature("spellcasting", "Spellcasting", 1),
			choice("divine_domain", "Divine Domain", 1, dnd5e.ChoiceTypeSubclass, "life"),
			granted("channel_divinity", "Channel Divinity", 2, dnd5e.ResourceGrant{
				PoolID:   "channel_divinity",
				Name:     "Channel Divinity",
				Max:      dnd5e.MaxFormula{Steps: steps(2, 1, 6, 2, 18, 3)},
				Recharge: dnd5e.RechargeShortRest,
			}),
			feature("domain_feature_2", "Channel Divinity: Domain", 2),
			feature("destroy_undead_5", "Destroy Undead (CR 1/2)", 5),
			feature("domain_feature_6", "Divine Domain Feature", 6),
			feature("destroy_undead_8", "Destroy Undead (CR 1)", 8),
			feature("domain_feature_8", "Divine Domain Feature", 8),
			feature("divine_intervention", "Divine Intervention", 10),
			feature("destroy_undead_11", "Destroy Undead (CR 2)", 11),
			feature("destroy_undead_14", "Destroy Undead (CR 3)", 14),
			feature("destroy_undead_17", "Destroy Undead (CR 4)", 17),
			feature("domain_feature_17", "Divine Domain Feature", 17),
			feature("divine_intervention_improvement", "Divine Intervention Improvement", 20),
		},
		SlotProgression: SlotProgressionFull,
		CantripSteps:    steps(1, 3, 4, 4, 10, 5),
		Prepared:        &PreparedFormula{Ability: dnd5e.AbilityWisdom, FromLevel: 1},
	}
}

func druid() *ClassProfile {
	return &ClassProfile{
		ID:     dnd5e.ClassDruid,
		Name:   "Druid",
		HitDie: 8,
		Features: []dnd5e.ClassFeature{
			feature("druidic", "Druidic", 1),
			feature("spellcasting", "Spellcasting", 1),
			granted("wild_shape", "Wild Shape", 2, dnd5e.ResourceGrant{
				PoolID:        "wild_shape",
				Name:          "Wild Shape",
				Max:           dnd5e.MaxFormula{Base: 2},
				Recharge:      dnd5e.RechargeShortRest,
				RechargeSteps: []dnd5e.RechargeStep{{Level: 20, Recharge: dnd5e.RechargePassive}},
			}),
			choice("druid_circle", "Druid Circle", 2, dnd5e.ChoiceTypeSubclass, "land"),
			feature("wild_shape_improvement_4", "Wild Shape Improvement", 4),
			feature("circle_feature_6", "Druid Circle Feature", 6),
			feature("wild_shape_improvement_8", "Wild Shape Improvement", 8),
			feature("circle_feature_10", "Druid Circle Feature", 10),
			feature("circle_feature_14", "Druid Circle Feature", 14),
			feature("timeless_body", "Timeless Body", 18),
			feature("beast_spells", "Beast Spells", 18),
			feature("archdruid", "Archdruid", 20),
		},
		SlotProgression: SlotProgressionFull,
		CantripSteps:    steps(1, 2, 4, 3, 10, 4),
		Prepared:        &PreparedFormula{Ability: dnd5e.AbilityWisdom, FromLevel: 1},
	}
}

func fighter() *ClassProfile {
	return &ClassProfile{
		ID:     dnd5e.ClassFighter,
		Name:   "Fighter",
		HitDie: 10,
		Features: []dnd5e.ClassFeature{
			choice("fighting_style", "Fighting Style", 1, dnd5e.ChoiceTypeFightingStyle, fighterStyles...),
			granted("second_wind", "Second Wind", 1, singleUse("second_wind", "Second Wind", dnd5e.RechargeShortRest)),
			granted("action_surge", "Action Surge", 2, dnd5e.ResourceGrant{
				PoolID:   "action_surge",
				Name:     "Action Surge",
				Max:      dnd5e.MaxFormula{Steps: steps(2, 1, 17, 2)},
				Recharge: dnd5e.RechargeShortRest,
			}),
			choice("martial_archetype", "Martial Archetype", 3, dnd5e.ChoiceTypeSubclass, "champion"),
			feature("extra_attack", "Extra Attack", 5),
			feature("archetype_feature_7", "Martial Archetype Feature", 7),
			granted("indomitable", "Indomitable", 9, dnd5e.ResourceGrant{
				PoolID:   "indomitable",
				Name:     "Indomitable",
				Max:      dnd5e.MaxFormula{Steps: steps(9, 1, 13, 2, 17, 3)},
				Recharge: dnd5e.RechargeLongRest,
			}),
			feature("archetype_feature_10", "Martial Archetype Feature", 10),
			feature("extra_attack_2", "Extra Attack (2)", 11),
			feature("archetype_feature_15", "Martial Archetype Feature", 15),
			feature("archetype_feature_18", "Martial Archetype Feature", 18),
			feature("extra_attack_3", "Extra Attack (3)", 20),
		},
		SlotProgression: SlotProgressionNone,
		ASILevels:       []int{4, 6, 8, 12, 14, 16, 19},
	}
}

func monk() *ClassProfile {
	return &ClassProfile{
		ID:     dnd5e.ClassMonk,
		Name:   "Monk",
		HitDie: 8,
		Features: []dnd5e.ClassFeature{
			feature("unarmored_defense", "Unarmored Defense", 1),
			feature("martial_arts", "Martial Arts", 1),
			granted("ki", "Ki", 2, dnd5e.ResourceGrant{
				PoolID:   "ki",
				Name:     "Ki",
				Max:      dnd5e.MaxFormula{PerLevel: 1},
				Recharge: dnd5e.RechargeShortRest,
			}),
			feature("unarmored_movement", "Unarmored Movement", 2),
			choice("monastic_tradition", "Monastic Tradition", 3, dnd5e.ChoiceTypeSubclass, "open_hand"),
			feature("deflect_missiles", "Deflect Missiles", 3),
			feature("slow_fall", "Slow Fall", 4),
			feature("extra_attack", "Extra Attack", 5),
			feature("stunning_strike", "Stunning Strike", 5),
			feature("ki_empowered_strikes", "Ki-Empowered Strikes", 6),
			feature("tradition_feature_6", "Monastic Tradition Feature", 6),
			feature("evasion", "Evasion", 7),
			feature("stillness_of_mind", "Stillness of Mind", 7),
			feature("purity_of_body", "Purity of Body", 10),
			feature("tradition_feature_11", "Monastic Tradition Feature", 11),
			feature("tongue_of_the_sun_and_moon", "Tongue of the Sun and Moon", 13),
			feature("diamond_soul", "Diamond Soul", 14),
			feature("timeless_body", "Timeless Body", 15),
			feature("tradition_feature_17", "Monastic Tradition Feature", 17),
			feature("empty_body", "Empty Body", 18),
			feature("perfect_self", "Perfect Self", 20),
		},
		SlotProgression: SlotProgressionNone,
	}
}

func paladin() *ClassProfile {
	return &ClassProfile{
		ID:     dnd5e.ClassPaladin,
		Name:   "Paladin",
		HitDie: 10,
		Features: []dnd5e.ClassFeature{
			granted("divine_sense", "Divine Sense", 1, dnd5e.ResourceGrant{
				PoolID:   "divine_sense",
				Name:     "Divine Sense",
				Max:      dnd5e.MaxFormula{Base: 1, Ability: dnd5e.AbilityCharisma, Minimum: 1},
				Recharge: dnd5e.RechargeLongRest,
			}),
			granted("lay_on_hands", "Lay on Hands", 1, dnd5e.ResourceGrant{
				PoolID:   "lay_on_hands",
				Name:     "Lay on Hands",
				Max:      dnd5e.MaxFormula{PerLevel: 5},
				Recharge: dnd5e.RechargeLongRest,
			}),
			choice("fighting_style", "Fighting Style", 2, dnd5e.ChoiceTypeFightingStyle, paladinStyles...),
			feature("spellcasting", "Spellcasting", 2),
			feature("divine_smite", "Divine Smite", 2),
			feature("divine_health", "Divine Health", 3),
			choice("sacred_oath", "Sacred Oath", 3, dnd5e.ChoiceTypeSubclass, "devotion"),
			granted("channel_divinity", "Channel Divinity", 3, singleUse("channel_divinity", "Channel Divinity", dnd5e.RechargeShortRest)),
			feature("extra_attack", "Extra Attack", 5),
			feature("aura_of_protection", "Aura of Protection", 6),
			feature("oath_feature_7", "Sacred Oath Feature", 7),
			feature("aura_of_courage", "Aura of Courage", 10),
			feature("improved_divine_smite", "Improved Divine Smite", 11),
			granted("cleansing_touch", "Cleansing Touch", 14, dnd5e.ResourceGrant{
				PoolID:   "cleansing_touch",
				Name:     "Cleansing Touch",
				Max:      dnd5e.MaxFormula{Ability: dnd5e.AbilityCharisma, Minimum: 1},
				Recharge: dnd5e.RechargeLongRest,
			}),
			feature("oath_feature_15", "Sacred Oath Feature", 15),
			feature("aura_improvements", "Aura Improvements", 18),
			feature("oath_feature_20", "Sacred Oath Feature", 20),
		},
		SlotProgression: SlotProgressionHalf,
		Prepared:        &PreparedFormula{Ability: dnd5e.AbilityCharisma, HalfLevel: true, FromLevel: 2},
	}
}

func ranger() *ClassProfile {
	return &ClassProfile{
		ID:     dnd5e.ClassRanger,
		Name:   "Ranger",
		HitDie: 10,
		Features: []dnd5e.ClassFeature{
			feature("favored_enemy", "Favored Enemy", 1),
			feature("natural_explorer", "Natural Explorer", 1),
			choice("fighting_style", "Fighting Style", 2, dnd5e.ChoiceTypeFightingStyle, rangerStyles...),
			feature("spellcasting", "Spellcasting", 2),
			choice("ranger_archetype", "Ranger Archetype", 3, dnd5e.ChoiceTypeSubclass, "hunter"),
			feature("primeval_awareness", "Primeval Awareness", 3),
			feature("extra_attack", "Extra Attack", 5),
			feature("favored_enemy_6", "Favored Enemy Improvement", 6),
			feature("natural_explorer_6", "Natural Explorer Improvement", 6),
			feature("archetype_feature_7", "Ranger Archetype Feature", 7),
			feature("lands_stride", "Land's Stride", 8),
			feature("natural_explorer_10", "Natural Explorer Improvement", 10),
			feature("hide_in_plain_sight", "Hide in Plain Sight", 10),
			feature("archetype_feature_11", "Ranger Archetype Feature", 11),
			feature("favored_enemy_14", "Favored Enemy Improvement", 14),
			feature("vanish", "Vanish", 14),
			feature("archetype_feature_15", "Ranger Archetype Feature", 15),
			feature("feral_senses", "Feral Senses", 18),
			feature("foe_slayer", "Foe Slayer", 20),
		},
		SlotProgression:  SlotProgressionHalf,
		SpellsKnownTable: []int{0, 2, 3, 3, 4, 4, 5, 5, 6, 6, 7, 7, 8, 8, 9, 9, 10, 10, 11, 11},
	}
}

func rogue() *ClassProfile {
	return &ClassProfile{
		ID:     dnd5e.ClassRogue,
		Name:   "Rogue",
		HitDie: 8,
		Features: []dnd5e.ClassFeature{
			feature("expertise_1", "Expertise", 1),
			granted("sneak_attack", "Sneak Attack", 1, dnd5e.ResourceGrant{
				PoolID:   "sneak_attack",
				Name:     "Sneak Attack",
				Recharge: dnd5e.RechargePassive,
			}),
			feature("thieves_cant", "Thieves' Cant", 1),
			feature("cunning_action", "Cunning Action", 2),
			choice("roguish_archetype", "Roguish Archetype", 3, dnd5e.ChoiceTypeSubclass, "thief"),
			feature("uncanny_dodge", "Uncanny Dodge", 5),
			feature("expertise_6", "Expertise", 6),
			feature("evasion", "Evasion", 7),
			feature("archetype_feature_9", "Roguish Archetype Feature", 9),
			feature("reliable_talent", "Reliable Talent", 11),
			feature("archetype_feature_13", "Roguish Archetype Feature", 13),
			feature("blindsense", "Blindsense", 14),
			feature("slippery_mind", "Slippery Mind", 15),
			feature("archetype_feature_17", "Roguish Archetype Feature", 17),
			feature("elusive", "Elusive", 18),
			granted("stroke_of_luck", "Stroke of Luck", 20, singleUse("stroke_of_luck", "Stroke of Luck", dnd5e.RechargeShortRest)),
		},
		SlotProgression: SlotProgressionNone,
		ASILevels:       []int{4, 8, 10, 12, 16, 19},
	}
}

func sorcerer() *ClassProfile {
	return &ClassProfile{
		ID:     dnd5e.ClassSorcerer,
		Name:   "Sorcerer",
		HitDie: 6,
		Features: []dnd5e.ClassFeature{
			feature("spellcasting", "Spellcasting", 1),
			choice("sorcerous_origin", "Sorcerous Origin", 1, dnd5e.ChoiceTypeSubclass, "draconic_bloodline"),
			granted("font_of_magic", "Font of Magic", 2, dnd5e.ResourceGrant{
				PoolID:   "sorcery_points",
				Name:     "Sorcery Points",
				Max:      dnd5e.MaxFormula{PerLevel: 1},
				Recharge: dnd5e.RechargeLongRest,
			}),
			feature("metamagic_3", "Metamagic", 3),
			feature("origin_feature_6", "Sorcerous Origin Feature", 6),
			feature("metamagic_10", "Metamagic", 10),
			feature("origin_feature_14", "Sorcerous Origin Feature", 14),
			feature("metamagic_17", "Metamagic", 17),
			feature("origin_feature_18", "Sorcerous Origin Feature", 18),
			feature("sorcerous_restoration", "Sorcerous Restoration", 20),
		},
		SlotProgression:  SlotProgressionFull,
		SpellsKnownTable: []int{2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 12, 13, 13, 14, 14, 15, 15, 15, 15},
		CantripSteps:     steps(1, 4, 4, 5, 10, 6),
	}
}

func warlock() *ClassProfile {
	arcanum := func(spellLevel, level int) dnd5e.ClassFeature {
		id := "mystic_arcanum_" + strconv.Itoa(spellLevel)
		return granted(id, "Mystic Arcanum", level, singleUse(id, "Mystic Arcanum", dnd5e.RechargeLongRest))
	}
	invocations := func(level int) dnd5e.ClassFeature {
		id := "eldritch_invocations_" + strconv.Itoa(level)
		return choice(id, "Eldritch Invocations", level, dnd5e.ChoiceTypeInvocation, EldritchInvocations...)
	}

	return &ClassProfile{
		ID:     dnd5e.ClassWarlock,
		Name:   "Warlock",
		HitDie: 8,
		Features: []dnd5e.ClassFeature{
			choice("otherworldly_patron", "Otherworldly Patron", 1, dnd5e.ChoiceTypeSubclass, "fiend"),
			granted("pact_magic", "Pact Magic", 1, dnd5e.ResourceGrant{
				PoolID:   "pact_slots",
				Name:     "Pact Slots",
				Max:      dnd5e.MaxFormula{Steps: pactSlotCount},
				Recharge: dnd5e.RechargeShortRest,
			}),
			invocations(2),
			choice("pact_boon", "Pact Boon", 3, dnd5e.ChoiceTypePactBoon, pactBoons...),
			invocations(5),
			feature("patron_feature_6", "Otherworldly Patron Feature", 6),
			invocations(7),
			invocations(9),
			feature("patron_feature_10", "Otherworldly Patron Feature", 10),
			arcanum(6, 11),
			invocations(12),
			arcanum(7, 13),
			feature("patron_feature_14", "Otherworldly Patron Feature", 14),
			arcanum(8, 15),
			invocations(15),
			arcanum(9, 17),
			invocations(18),
			feature("eldritch_master", "Eldritch Master", 20),
		},
		SlotProgression:      SlotProgressionPact,
		SpellsKnownTable:     []int{2, 3, 4, 5, 6, 7, 8, 9, 10, 10, 11, 11, 12, 12, 13, 13, 14, 14, 15, 15},
		CantripSteps:         steps(1, 2, 4, 3, 10, 4),
		FirstInvocationLevel: 2,
	}
}

func wizard() *ClassProfile {
	return &ClassProfile{
		ID:     dnd5e.ClassWizard,
		Name:   "Wizard",
		HitDie: 6,
		Features: []dnd5e.ClassFeature{
			feature("spellcasting", "Spellcasting", 1),
			granted("arcane_recovery", "Arcane Recovery", 1, singleUse("arcane_recovery", "Arcane Recovery", dnd5e.RechargeLongRest)),
			choice("arcane_tradition", "Arcane Tradition", 2, dnd5e.ChoiceTypeSubclass, "evocation"),
			feature("tradition_feature_6", "Arcane Tradition Feature", 6),
			feature("tradition_feature_10", "Arcane Tradition Feature", 10),
			feature("tradition_feature_14", "Arcane Tradition Feature", 14),
			feature("spell_mastery", "Spell Mastery", 18),
			feature("signature_spells", "Signature Spells", 20),
		},
		SlotProgression:   SlotProgressionFull,
		CantripSteps:      steps(1, 3, 4, 4, 10, 5),
		Prepared:          &PreparedFormula{Ability: dnd5e.AbilityIntelligence, FromLevel: 1},
		SpellbookPerLevel: 2,
	}
}
