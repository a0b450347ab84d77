package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"veda-quiz/internal/cache"
	"veda-quiz/internal/config"
	"veda-quiz/internal/domain"
	"veda-quiz/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const rawPreviewLimit = 200

// LibraryService provides access to the configured quiz documents and their
// parsed question decks.
type LibraryService interface {
	ListDocuments(ctx context.Context) ([]domain.DocumentInfo, error)
	GetDeck(ctx context.Context, documentName string) (domain.Deck, error)
	GetSet(ctx context.Context, documentName string, setIndex int) (domain.Deck, error)
}

type libraryServiceImpl struct {
	fetcher   domain.DocumentFetcher
	extractor domain.TextExtractor
	parser    DeckParser
	cache     domain.Cache
	documents []string
	setSize   int
	deckTTL   time.Duration
	sfGroup   singleflight.Group
}

// DeckParser turns extracted document text into a sorted question deck.
type DeckParser interface {
	Parse(rawText, sourceID string) domain.Deck
}

// NewLibraryService creates a new instance of libraryServiceImpl.
func NewLibraryService(
	fetcher domain.DocumentFetcher,
	extractor domain.TextExtractor,
	parser DeckParser,
	cacheClient domain.Cache,
	cfg *config.QuizConfig,
	documents []string,
) LibraryService {
	return &libraryServiceImpl{
		fetcher:   fetcher,
		extractor: extractor,
		parser:    parser,
		cache:     cacheClient,
		documents: documents,
		setSize:   cfg.SetSize,
		deckTTL:   cfg.DeckCacheTTL,
	}
}

func deckCacheKey(documentName string) string {
	return cache.GenerateCacheKey("library", "deck", documentName)
}

// ListDocuments returns descriptors for every configured document that
// yields at least one valid question. Documents that cannot be fetched or
// parsed are skipped with a warning rather than failing the listing.
func (s *libraryServiceImpl) ListDocuments(ctx context.Context) ([]domain.DocumentInfo, error) {
	infos := make([]domain.DocumentInfo, 0, len(s.documents))
	for _, name := range s.documents {
		deck, err := s.GetDeck(ctx, name)
		if err != nil {
			logger.Get().Warn("Skipping document in listing",
				zap.String("document", name), zap.Error(err))
			continue
		}
		infos = append(infos, domain.DocumentInfo{
			Name:        name,
			DisplayName: domain.DisplayName(name),
			Questions:   len(deck),
			Sets:        deck.NumSets(s.setSize),
		})
	}
	return infos, nil
}

// GetDeck returns the parsed deck for the named document, loading through
// the cache. Concurrent misses for the same document are collapsed so the
// document is fetched and parsed once.
func (s *libraryServiceImpl) GetDeck(ctx context.Context, documentName string) (domain.Deck, error) {
	if !s.isKnownDocument(documentName) {
		return nil, domain.NewDocumentNotFoundError(documentName, nil)
	}

	key := deckCacheKey(documentName)
	if s.cache != nil {
		dataString, err := s.cache.Get(ctx, key)
		if err == nil && dataString != "" {
			var deck domain.Deck
			if err := json.Unmarshal([]byte(dataString), &deck); err == nil {
				logger.Get().Debug("Deck cache hit", zap.String("key", key))
				return deck, nil
			}
			logger.Get().Warn("Failed to unmarshal cached deck, reloading",
				zap.String("key", key), zap.Error(err))
		} else if err != nil && !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("Deck cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	res, err, _ := s.sfGroup.Do(key, func() (interface{}, error) {
		return s.loadDeck(ctx, documentName, key)
	})
	if err != nil {
		return nil, err
	}
	deck, ok := res.(domain.Deck)
	if !ok {
		return nil, domain.NewInternalError("unexpected deck type from load", nil)
	}
	return deck, nil
}

// GetSet returns one ordinal-range slice of the document's deck.
func (s *libraryServiceImpl) GetSet(ctx context.Context, documentName string, setIndex int) (domain.Deck, error) {
	deck, err := s.GetDeck(ctx, documentName)
	if err != nil {
		return nil, err
	}
	if setIndex < 0 || setIndex >= deck.NumSets(s.setSize) {
		return nil, domain.NewInvalidInputError("set index out of range")
	}
	set := deck.Set(setIndex, s.setSize)
	if len(set) == 0 {
		return nil, domain.NewNothingToPlayError("no questions in the requested set of " + documentName)
	}
	return set, nil
}

func (s *libraryServiceImpl) loadDeck(ctx context.Context, documentName, key string) (domain.Deck, error) {
	data, err := s.fetcher.Fetch(ctx, documentName)
	if err != nil {
		logger.Get().Error("Failed to fetch document",
			zap.String("document", documentName), zap.Error(err))
		return nil, domain.NewDocumentNotFoundError(documentName, err)
	}

	rawText, err := s.extractor.Extract(data)
	if err != nil {
		logger.Get().Error("Failed to extract document text",
			zap.String("document", documentName), zap.Error(err))
		return nil, domain.NewInternalError("failed to extract document text", err)
	}

	deck := s.parser.Parse(rawText, documentName)
	if len(deck) == 0 {
		return nil, domain.NewNoQuestionsError(documentName, preview(rawText))
	}

	if s.cache != nil {
		dataBytes, err := json.Marshal(deck)
		if err != nil {
			logger.Get().Warn("Failed to marshal deck for caching",
				zap.String("document", documentName), zap.Error(err))
		} else if err := s.cache.Set(ctx, key, string(dataBytes), s.deckTTL); err != nil {
			logger.Get().Warn("Failed to cache deck",
				zap.String("key", key), zap.Error(err))
		}
	}

	logger.Get().Info("Parsed document deck",
		zap.String("document", documentName), zap.Int("questions", len(deck)))
	return deck, nil
}

func (s *libraryServiceImpl) isKnownDocument(name string) bool {
	for _, d := range s.documents {
		if d == name {
			return true
		}
	}
	return false
}

func preview(rawText string) string {
	if len(rawText) > rawPreviewLimit {
		return rawText[:rawPreviewLimit]
	}
	return rawText
}
