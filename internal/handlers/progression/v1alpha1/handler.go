// Package v1alpha1 handles the progression grpc service interface
package v1alpha1

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-progression/internal/errors"
	"github.com/KirkDiggler/rpg-progression/internal/orchestrators/character"
	"github.com/KirkDiggler/rpg-progression/internal/orchestrators/progression"
	"github.com/KirkDiggler/rpg-progression/internal/orchestrators/resources"
)

// HandlerConfig holds dependencies for the progression handler
type HandlerConfig struct {
	ProgressionService progression.Service
	ResourceService    resources.Service
	CharacterService   character.Service
	Logger             *zap.Logger
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.ProgressionService == nil {
		vb.RequiredField("ProgressionService")
	}
	if c.ResourceService == nil {
		vb.RequiredField("ResourceService")
	}
	if c.CharacterService == nil {
		vb.RequiredField("CharacterService")
	}

	return vb.Build()
}

// Handler implements the progression gRPC service
type Handler struct {
	progressionService progression.Service
	resourceService    resources.Service
	characterService   character.Service
	logger             *zap.Logger
}

var _ ProgressionServiceServer = (*Handler)(nil)

// NewHandler creates a new progression handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Handler{
		progressionService: cfg.ProgressionService,
		resourceService:    cfg.ResourceService,
		characterService:   cfg.CharacterService,
		logger:             logger,
	}, nil
}

// handle decodes the request, runs call and encodes its response. Every
// error leaves as a gRPC status.
func handle[Req, Resp any](ctx context.Context, in *structpb.Struct, call func(context.Context, *Req) (Resp, error)) (*structpb.Struct, error) {
	req := new(Req)
	if err := decode(in, req); err != nil {
		return nil, errors.ToGRPCError(err)
	}

	resp, err := call(ctx, req)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	out, err := encode(resp)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}
	return out, nil
}

// StartProgression opens a level-up session for a stored character
func (h *Handler) StartProgression(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return handle(ctx, in, func(ctx context.Context, req *StartProgressionRequest) (*SessionResponse, error) {
		if req.CharacterID == "" {
			return nil, errors.InvalidArgument("character_id is required")
		}
		out, err := h.progressionService.StartProgression(ctx, &progression.StartProgressionInput{
			CharacterID: req.CharacterID,
		})
		if err != nil {
			return nil, err
		}
		return &SessionResponse{Session: out.Session}, nil
	})
}

// GetProgression returns a session's state
func (h *Handler) GetProgression(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return handle(ctx, in, func(ctx context.Context, req *SessionRequest) (*SessionResponse, error) {
		out, err := h.progressionService.GetProgression(ctx, &progression.GetProgressionInput{SessionID: req.SessionID})
		if err != nil {
			return nil, err
		}
		return &SessionResponse{Session: out.Session}, nil
	})
}

// SubmitHPChoice records how HP is gained
func (h *Handler) SubmitHPChoice(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return handle(ctx, in, func(ctx context.Context, req *SubmitHPChoiceRequest) (*SessionResponse, error) {
		out, err := h.progressionService.SubmitHPChoice(ctx, &progression.SubmitHPChoiceInput{
			SessionID: req.SessionID,
			Method:    req.Method,
			Roll:      req.Roll,
		})
		if err != nil {
			return nil, err
		}
		return &SessionResponse{Session: out.Session, Roll: out.Roll}, nil
	})
}

// SubmitFeatureChoices records feature selections and the ASI
func (h *Handler) SubmitFeatureChoices(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return handle(ctx, in, func(ctx context.Context, req *SubmitFeatureChoicesRequest) (*SessionResponse, error) {
		out, err := h.progressionService.SubmitFeatureChoices(ctx, &progression.SubmitFeatureChoicesInput{
			SessionID: req.SessionID,
			Features:  req.Features,
			ASI:       req.ASI,
		})
		if err != nil {
			return nil, err
		}
		return &SessionResponse{Session: out.Session}, nil
	})
}

// SubmitSpellChoices records spells and cantrips
func (h *Handler) SubmitSpellChoices(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return handle(ctx, in, func(ctx context.Context, req *SubmitSpellChoicesRequest) (*SessionResponse, error) {
		out, err := h.progressionService.SubmitSpellChoices(ctx, &progression.SubmitSpellChoicesInput{
			SessionID: req.SessionID,
			Spells:    req.Spells,
			Cantrips:  req.Cantrips,
		})
		if err != nil {
			return nil, err
		}
		return &SessionResponse{Session: out.Session}, nil
	})
}

// Back returns to the previous step
func (h *Handler) Back(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return handle(ctx, in, func(ctx context.Context, req *SessionRequest) (*SessionResponse, error) {
		out, err := h.progressionService.Back(ctx, &progression.BackInput{SessionID: req.SessionID})
		if err != nil {
			return nil, err
		}
		return &SessionResponse{Session: out.Session}, nil
	})
}

// Confirm commits the level-up
func (h *Handler) Confirm(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return handle(ctx, in, func(ctx context.Context, req *SessionRequest) (*ConfirmResponse, error) {
		out, err := h.progressionService.Confirm(ctx, &progression.ConfirmInput{SessionID: req.SessionID})
		if err != nil {
			return nil, err
		}
		return &ConfirmResponse{
			Session:   out.Session,
			Delta:     out.Delta,
			Character: out.Character,
		}, nil
	})
}

// CancelProgression discards a session
func (h *Handler) CancelProgression(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return handle(ctx, in, func(ctx context.Context, req *SessionRequest) (*MessageResponse, error) {
		if _, err := h.progressionService.CancelProgression(ctx, &progression.CancelProgressionInput{
			SessionID: req.SessionID,
		}); err != nil {
			return nil, err
		}
		return &MessageResponse{Message: "session " + req.SessionID + " cancelled"}, nil
	})
}

// PreviewProgression plans a level-up without storing anything
func (h *Handler) PreviewProgression(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return handle(ctx, in, func(ctx context.Context, req *PreviewProgressionRequest) (*PreviewProgressionResponse, error) {
		out, err := h.progressionService.Preview(ctx, &progression.PreviewInput{
			Character: req.Character,
			Choices:   req.Choices,
		})
		if err != nil {
			return nil, err
		}
		return &PreviewProgressionResponse{Plan: out.Plan, Delta: out.Delta}, nil
	})
}

// ListResources returns a character's pools and HP
func (h *Handler) ListResources(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return handle(ctx, in, func(ctx context.Context, req *CharacterRequest) (*ResourcesResponse, error) {
		out, err := h.resourceService.ListResources(ctx, &resources.ListResourcesInput{CharacterID: req.CharacterID})
		if err != nil {
			return nil, err
		}
		return &ResourcesResponse{
			Pools:            out.Pools,
			CurrentHP:        out.CurrentHP,
			MaxHP:            out.MaxHP,
			HitDiceRemaining: out.HitDiceRemaining,
		}, nil
	})
}

// SpendResource uses one charge of a pool
func (h *Handler) SpendResource(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return handle(ctx, in, func(ctx context.Context, req *PoolRequest) (*PoolResponse, error) {
		out, err := h.resourceService.Spend(ctx, &resources.SpendInput{
			CharacterID: req.CharacterID,
			PoolID:      req.PoolID,
		})
		if err != nil {
			return nil, err
		}
		return &PoolResponse{Pool: out.Pool}, nil
	})
}

// RecoverResource restores charges to a pool
func (h *Handler) RecoverResource(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return handle(ctx, in, func(ctx context.Context, req *PoolRequest) (*PoolResponse, error) {
		out, err := h.resourceService.Recover(ctx, &resources.RecoverInput{
			CharacterID: req.CharacterID,
			PoolID:      req.PoolID,
			Amount:      req.Amount,
		})
		if err != nil {
			return nil, err
		}
		return &PoolResponse{Pool: out.Pool}, nil
	})
}

// Rest takes a short or long rest
func (h *Handler) Rest(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return handle(ctx, in, func(ctx context.Context, req *RestRequest) (*RestResponse, error) {
		out, err := h.resourceService.Rest(ctx, &resources.RestInput{
			CharacterID: req.CharacterID,
			Kind:        req.Kind,
		})
		if err != nil {
			return nil, err
		}
		return &RestResponse{Result: out.Result}, nil
	})
}

// SpendHitDice heals with hit dice
func (h *Handler) SpendHitDice(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return handle(ctx, in, func(ctx context.Context, req *SpendHitDiceRequest) (*SpendHitDiceResponse, error) {
		out, err := h.resourceService.SpendHitDice(ctx, &resources.SpendHitDiceInput{
			CharacterID: req.CharacterID,
			Count:       req.Count,
			Rolls:       req.Rolls,
		})
		if err != nil {
			return nil, err
		}
		return &SpendHitDiceResponse{Result: out.Result}, nil
	})
}

// CreateCharacter adds a character to the roster
func (h *Handler) CreateCharacter(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return handle(ctx, in, func(ctx context.Context, req *CreateCharacterRequest) (*CharacterResponse, error) {
		out, err := h.characterService.CreateCharacter(ctx, &character.CreateCharacterInput{
			ID:            req.ID,
			PlayerID:      req.PlayerID,
			Name:          req.Name,
			ClassID:       req.ClassID,
			Level:         req.Level,
			AbilityScores: req.AbilityScores,
			MaxHP:         req.MaxHP,
			KnownSpells:   req.KnownSpells,
			SubclassID:    req.SubclassID,
		})
		if err != nil {
			return nil, err
		}
		for _, w := range out.Warnings {
			h.logger.Warn("character created with warning",
				zap.String("character_id", out.Character.ID),
				zap.String("warning", w))
		}
		return &CharacterResponse{Character: out.Character, Warnings: out.Warnings}, nil
	})
}

// GetCharacter returns a stored character
func (h *Handler) GetCharacter(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return handle(ctx, in, func(ctx context.Context, req *CharacterRequest) (*CharacterResponse, error) {
		out, err := h.characterService.GetCharacter(ctx, &character.GetCharacterInput{CharacterID: req.CharacterID})
		if err != nil {
			return nil, err
		}
		return &CharacterResponse{Character: out.Character}, nil
	})
}

// ListCharacters returns a player's roster
func (h *Handler) ListCharacters(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return handle(ctx, in, func(ctx context.Context, req *ListCharactersRequest) (*CharactersResponse, error) {
		out, err := h.characterService.ListCharacters(ctx, &character.ListCharactersInput{PlayerID: req.PlayerID})
		if err != nil {
			return nil, err
		}
		return &CharactersResponse{Characters: out.Characters}, nil
	})
}

// DeleteCharacter removes a character from the roster
func (h *Handler) DeleteCharacter(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return handle(ctx, in, func(ctx context.Context, req *CharacterRequest) (*MessageResponse, error) {
		out, err := h.characterService.DeleteCharacter(ctx, &character.DeleteCharacterInput{CharacterID: req.CharacterID})
		if err != nil {
			return nil, err
		}
		return &MessageResponse{Message: out.Message}, nil
	})
}
