package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/brainbuild-ai/brainbuild-engine/pkg/apperrors"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/itemtype"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/llm"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/models"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/prompts"
	"github.com/brainbuild-ai/brainbuild-engine/pkg/repositories"
)

const (
	suggestionTemperature = 0.7
	generationLockTTL     = 60 * time.Second
)

// SuggestionService produces AI suggestions for a PRD section.
//
// Generation is cache-first: existing suggested rows for (prd, type) are
// returned without an LLM call unless regenerate is set. Regeneration
// replaces only the unaccepted suggestions; accepted items survive every
// regeneration untouched.
type SuggestionService interface {
	Generate(ctx context.Context, tenantID, prdID uuid.UUID, t itemtype.Type, regenerate bool) ([]*models.Item, error)
}

type suggestionService struct {
	itemRepo    repositories.ItemRepository
	prdRepo     repositories.PRDRepository
	llmClient   llm.LLMClient
	promptLib   *prompts.Library
	redisClient *redis.Client // optional; nil disables the generation lock
	logger      *zap.Logger
}

// SuggestionServiceDeps contains dependencies for SuggestionService.
type SuggestionServiceDeps struct {
	ItemRepo    repositories.ItemRepository
	PRDRepo     repositories.PRDRepository
	LLMClient   llm.LLMClient
	PromptLib   *prompts.Library
	RedisClient *redis.Client
	Logger      *zap.Logger
}

// NewSuggestionService creates a new SuggestionService.
func NewSuggestionService(deps *SuggestionServiceDeps) SuggestionService {
	return &suggestionService{
		itemRepo:    deps.ItemRepo,
		prdRepo:     deps.PRDRepo,
		llmClient:   deps.LLMClient,
		promptLib:   deps.PromptLib,
		redisClient: deps.RedisClient,
		logger:      deps.Logger.Named("suggestion-service"),
	}
}

// suggestionPayload is the shape each array element of the LLM response
// must unmarshal into.
type suggestionPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *suggestionService) Generate(ctx context.Context, tenantID, prdID uuid.UUID, t itemtype.Type, regenerate bool) ([]*models.Item, error) {
	desc, ok := itemtype.Lookup(t)
	if !ok {
		return nil, apperrors.NewValidationError("item_type", fmt.Sprintf("unknown item type: %s", t))
	}

	if !regenerate {
		existing, err := s.itemRepo.ListSuggested(ctx, tenantID, prdID, t)
		if err != nil {
			return nil, fmt.Errorf("list existing suggestions: %w", err)
		}
		if len(existing) > 0 {
			s.logger.Debug("returning cached suggestions",
				zap.String("prd_id", prdID.String()),
				zap.String("item_type", string(t)),
				zap.Int("count", len(existing)))
			return existing, nil
		}
	}

	unlock, err := s.acquireLock(ctx, tenantID, prdID, t)
	if err != nil {
		return nil, err
	}
	defer unlock()

	prd, err := s.prdRepo.GetByID(ctx, tenantID, prdID)
	if err != nil {
		return nil, fmt.Errorf("load prd %s: %w", prdID, err)
	}

	prdCtx, err := s.buildContext(ctx, tenantID, prd, t)
	if err != nil {
		return nil, err
	}

	prompt, system := prompts.BuildSuggestionPrompt(s.promptLib, t, prdCtx)

	start := time.Now()
	response, err := s.llmClient.GenerateResponse(ctx, prompt, system, suggestionTemperature)
	if err != nil {
		return nil, fmt.Errorf("generate %s suggestions: %w", desc.Plural, err)
	}

	payloads, err := llm.ParseJSONResponse[[]suggestionPayload](response)
	if err != nil {
		s.logger.Warn("unparseable suggestion response",
			zap.String("item_type", string(t)),
			zap.Error(err))
		return nil, fmt.Errorf("%s: %w", desc.Type, apperrors.ErrNoSuggestions)
	}

	items := make([]*models.Item, 0, len(payloads))
	for _, p := range payloads {
		if p.Name == "" {
			continue
		}
		description := p.Description
		items = append(items, &models.Item{
			ID:                   uuid.New(),
			TenantID:             tenantID,
			PRDID:                prdID,
			Type:                 t,
			Name:                 p.Name,
			SuggestedDescription: &description,
			IsSuggested:          true,
			Priority:             models.PriorityMedium,
		})
	}

	// An empty batch is a generation failure, never a valid empty section.
	if len(items) == 0 {
		return nil, fmt.Errorf("%s: %w", desc.Type, apperrors.ErrNoSuggestions)
	}

	if err := s.itemRepo.ReplaceSuggestions(ctx, tenantID, prdID, t, items); err != nil {
		return nil, fmt.Errorf("store %s suggestions: %w", desc.Plural, err)
	}

	s.logger.Info("generated suggestions",
		zap.String("prd_id", prdID.String()),
		zap.String("item_type", string(t)),
		zap.Int("count", len(items)),
		zap.Bool("regenerate", regenerate),
		zap.Duration("elapsed", time.Since(start)))

	return items, nil
}

// buildContext assembles the document state the prompt is built from: the
// requested section's current items (for dedup) plus accepted goals and
// problems, which anchor every other section.
func (s *suggestionService) buildContext(ctx context.Context, tenantID uuid.UUID, prd *models.PRD, t itemtype.Type) (prompts.PRDContext, error) {
	prdCtx := prompts.PRDContext{
		Name:           prd.Name,
		Overview:       prd.Overview,
		CompanyContext: prd.CompanyContext,
		Existing:       map[itemtype.Type][]prompts.ExistingItem{},
	}

	include := map[itemtype.Type]bool{t: true, itemtype.Goal: true, itemtype.Problem: true}
	for includeType := range include {
		items, err := s.itemRepo.ListByPRD(ctx, tenantID, prd.ID, includeType)
		if err != nil {
			return prdCtx, fmt.Errorf("list %s items: %w", includeType, err)
		}
		for _, item := range items {
			if includeType != t && !item.IsAccepted {
				continue
			}
			description := item.Description
			if description == "" && item.SuggestedDescription != nil {
				description = *item.SuggestedDescription
			}
			prdCtx.Existing[includeType] = append(prdCtx.Existing[includeType], prompts.ExistingItem{
				Name:        item.Name,
				Description: description,
				Accepted:    item.IsAccepted,
			})
		}
	}

	return prdCtx, nil
}

// acquireLock takes a short-lived redis lock so concurrent generation for the
// same (prd, type) fails fast instead of racing the LLM twice. Without redis
// configured, generation proceeds unlocked.
func (s *suggestionService) acquireLock(ctx context.Context, tenantID, prdID uuid.UUID, t itemtype.Type) (func(), error) {
	if s.redisClient == nil {
		return func() {}, nil
	}

	key := fmt.Sprintf("suggestgen:%s:%s:%s", tenantID, prdID, t)
	ok, err := s.redisClient.SetNX(ctx, key, "1", generationLockTTL).Result()
	if err != nil {
		// Redis being down should not block generation.
		s.logger.Warn("generation lock unavailable", zap.Error(err))
		return func() {}, nil
	}
	if !ok {
		return nil, apperrors.ErrGenerationRunning
	}

	return func() {
		if err := s.redisClient.Del(context.Background(), key).Err(); err != nil {
			s.logger.Warn("failed to release generation lock", zap.String("key", key), zap.Error(err))
		}
	}, nil
}
