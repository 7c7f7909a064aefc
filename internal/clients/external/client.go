// Package external is the location for the dnd5e-api spell catalog client
package external

//go:generate mockgen -destination=mock/mock_client.go -package=externalmock github.com/KirkDiggler/rpg-progression/internal/clients/external Client

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/fadedpez/dnd5e-api/clients/dnd5e"
	"github.com/fadedpez/dnd5e-api/entities"
	"go.uber.org/zap"

	"github.com/KirkDiggler/rpg-progression/internal/errors"
	"github.com/KirkDiggler/rpg-progression/internal/rules"
)

// spellcasting classes the API can filter spell lists by
var dnd5eClassNames = map[string]string{
	"bard":     "bard",
	"cleric":   "cleric",
	"druid":    "druid",
	"paladin":  "paladin",
	"ranger":   "ranger",
	"sorcerer": "sorcerer",
	"warlock":  "warlock",
	"wizard":   "wizard",
}

// Client defines the interface for spell catalog lookups
type Client interface {
	// GetSpellData fetches a single spell
	// Returns errors.NotFound when the catalog does not know the spell
	// Returns errors.Unavailable when the catalog cannot be reached
	GetSpellData(ctx context.Context, spellID string) (*SpellData, error)

	// ListClassSpells returns the references for a class spell list at one spell level.
	// Level 0 lists cantrips. Classes without a spell list return an empty slice.
	ListClassSpells(ctx context.Context, input *ListSpellsInput) ([]*SpellRef, error)
}

type client struct {
	dnd5eClient dnd5e.Interface
	logger      *zap.Logger
}

// toAPIFormat converts a spell id to the API key
// e.g., "magic_missile" -> "magic-missile"
func toAPIFormat(id string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(id), "_", "-"))
}

// fromAPIFormat converts an API key to our spell id
// e.g., "magic-missile" -> "magic_missile"
func fromAPIFormat(apiID string) string {
	return strings.ToLower(strings.ReplaceAll(apiID, "-", "_"))
}

// Config contains configuration options for the external client.
type Config struct {
	// BaseURL for the D&D 5e API (optional, defaults to https://www.dnd5eapi.co/api/2014/)
	BaseURL string
	// HTTPTimeout for API requests (optional, defaults to 30 seconds)
	HTTPTimeout time.Duration
	// CacheTTL for the cached client (optional, defaults to 24 hours)
	CacheTTL time.Duration
	Logger   *zap.Logger

	// API replaces the HTTP client, used by tests
	API dnd5e.Interface
}

// Validate validates the Config and sets defaults if not provided.
func (cfg *Config) Validate() error {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.dnd5eapi.co/api/2014/"
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 24 * time.Hour
	}

	vb := errors.NewValidationBuilder()
	if cfg.HTTPTimeout < 0 {
		vb.Fieldf("HTTPTimeout", "must not be negative, got %s", cfg.HTTPTimeout)
	}
	if cfg.CacheTTL < 0 {
		vb.Fieldf("CacheTTL", "must not be negative, got %s", cfg.CacheTTL)
	}
	return vb.Build()
}

// New creates a new external client with the given configuration.
func New(cfg *Config) (Client, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.API != nil {
		return &client{dnd5eClient: cfg.API, logger: logger}, nil
	}

	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	baseClient, err := dnd5e.NewDND5eAPI(&dnd5e.DND5eAPIConfig{
		Client:  httpClient,
		BaseURL: cfg.BaseURL,
	})
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to create D&D 5e API client")
	}

	// Wrap with caching, spell lists never change between releases
	cachedClient := dnd5e.NewCachedClient(baseClient, cfg.CacheTTL)

	return &client{
		dnd5eClient: cachedClient,
		logger:      logger,
	}, nil
}

func (c *client) GetSpellData(_ context.Context, spellID string) (*SpellData, error) {
	if strings.TrimSpace(spellID) == "" {
		return nil, errors.InvalidArgument("spell ID is required")
	}
	apiID := toAPIFormat(spellID)

	spell, err := c.dnd5eClient.GetSpell(apiID)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable,
			fmt.Sprintf("failed to get spell %s (api: %s)", spellID, apiID))
	}
	if spell == nil {
		return nil, errors.NotFoundf("spell %s not found", spellID)
	}

	data := convertSpellToSpellData(spell)
	// Ensure the ID matches our internal format
	data.ID = fromAPIFormat(apiID)
	return data, nil
}

// convertSpellToSpellData converts a dnd5e-api spell entity to our SpellData
func convertSpellToSpellData(spell *entities.Spell) *SpellData {
	data := &SpellData{
		ID:            fromAPIFormat(spell.Key),
		Name:          spell.Name,
		Level:         spell.SpellLevel,
		Ritual:        spell.Ritual,
		Concentration: spell.Concentration,
	}
	if spell.SpellSchool != nil {
		data.School = spell.SpellSchool.Name
	}
	for _, class := range spell.SpellClasses {
		if class != nil {
			data.Classes = append(data.Classes, rules.NormalizeClassID(class.Name))
		}
	}
	sort.Strings(data.Classes)
	return data
}

func (c *client) ListClassSpells(_ context.Context, input *ListSpellsInput) ([]*SpellRef, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Level < 0 || input.Level > 9 {
		return nil, errors.InvalidArgumentf("spell level must be between 0 and 9, got %d", input.Level)
	}

	className, ok := dnd5eClassNames[rules.NormalizeClassID(input.ClassID)]
	if !ok {
		return []*SpellRef{}, nil
	}

	level := input.Level
	refs, err := c.dnd5eClient.ListSpells(&dnd5e.ListSpellsInput{
		Level: &level,
		Class: className,
	})
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to list spells from D&D 5e API")
	}

	out := make([]*SpellRef, 0, len(refs))
	for _, ref := range refs {
		if ref == nil {
			continue
		}
		out = append(out, &SpellRef{
			ID:    fromAPIFormat(ref.Key),
			Name:  ref.Name,
			Level: input.Level,
		})
	}

	c.logger.Debug("listed class spells",
		zap.String("class_id", className),
		zap.Int("level", input.Level),
		zap.Int("count", len(out)))

	return out, nil
}
