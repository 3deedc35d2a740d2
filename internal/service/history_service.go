package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/presensi-go-api/internal/dto"
	"github.com/noah-isme/presensi-go-api/internal/store"
)

// HistoryService produces the history feed and the dashboard summary.
type HistoryService interface {
	SummaryInvalidator
	List(ctx context.Context, userID string) (dto.RecordListResponse, error)
	Summary(ctx context.Context, userID string) (dto.SummaryResponse, error)
}

type historyService struct {
	records  store.AttendanceStore
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewHistoryService builds the feed aggregator. The cache client may be nil.
func NewHistoryService(records store.AttendanceStore, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) HistoryService {
	return &historyService{
		records:  records,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "history_service").Logger(),
	}
}

func (s *historyService) List(ctx context.Context, userID string) (dto.RecordListResponse, error) {
	records, err := s.records.List(ctx, userID)
	if err != nil {
		return dto.RecordListResponse{}, err
	}

	return dto.RecordListResponse{Records: records, Total: len(records)}, nil
}

// Summary returns the stat cards. Per-type counts go through the cache; the
// checked-in-today flag is always computed live because "today" moves with
// the wall clock.
func (s *historyService) Summary(ctx context.Context, userID string) (dto.SummaryResponse, error) {
	today, err := s.records.HasRecordToday(ctx, userID)
	if err != nil {
		return dto.SummaryResponse{}, err
	}

	total, err := s.records.CountByUser(ctx, userID)
	if err != nil {
		return dto.SummaryResponse{}, err
	}

	byType, err := s.countsByType(ctx, userID)
	if err != nil {
		return dto.SummaryResponse{}, err
	}

	return dto.SummaryResponse{
		Total:          total,
		CheckedInToday: today,
		ByType:         byType,
	}, nil
}

// Invalidate drops the cached counts after an append.
func (s *historyService) Invalidate(ctx context.Context, userID string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Del(ctx, s.cacheKey(userID)).Err()
}

func (s *historyService) countsByType(ctx context.Context, userID string) (map[string]int64, error) {
	key := s.cacheKey(userID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key).Result(); err == nil {
			var counts map[string]int64
			if unmarshalErr := json.Unmarshal([]byte(cached), &counts); unmarshalErr == nil {
				s.logger.Debug().Str("user_id", userID).Msg("summary cache hit")
				return counts, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read summary cache")
		}
	}

	counts, err := s.records.CountByType(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(counts); err == nil {
			if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store summary cache")
			}
		}
	}

	return counts, nil
}

func (s *historyService) cacheKey(userID string) string {
	return fmt.Sprintf("summary:types:%s", userID)
}
