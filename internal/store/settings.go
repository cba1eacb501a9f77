package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/verte-zerg/vocquiz/internal/model"
)

const (
	keyRememberedConfig = "quiz.remembered_config"
	keyStatsTab         = "stats.active_tab"
)

// LoadRememberedConfig returns the last accepted quiz configuration, or nil.
func (s *Store) LoadRememberedConfig(ctx context.Context) (*model.QuizConfig, error) {
	raw, ok, err := s.GetSetting(ctx, keyRememberedConfig)
	if err != nil || !ok {
		return nil, err
	}
	var cfg model.QuizConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode remembered config: %w", err)
	}
	return &cfg, nil
}

// SaveRememberedConfig persists the last accepted quiz configuration.
func (s *Store) SaveRememberedConfig(ctx context.Context, cfg model.QuizConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode remembered config: %w", err)
	}
	return s.PutSetting(ctx, keyRememberedConfig, string(raw))
}

// LoadStatsTab returns the last active stats tab, 0 when unset or unreadable.
func (s *Store) LoadStatsTab(ctx context.Context) (int, error) {
	raw, ok, err := s.GetSetting(ctx, keyStatsTab)
	if err != nil || !ok {
		return 0, err
	}
	tab, err := strconv.Atoi(raw)
	if err != nil {
		return 0, nil
	}
	return tab, nil
}

// SaveStatsTab persists the active stats tab.
func (s *Store) SaveStatsTab(ctx context.Context, tab int) error {
	return s.PutSetting(ctx, keyStatsTab, strconv.Itoa(tab))
}
