// Package store persists daily entries and the caregiver alert log.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cognora/checkin-pipeline/config"
	"github.com/cognora/checkin-pipeline/model"
)

const (
	EngineSQLite   = "sqlite"
	EnginePostgres = "postgres"
	EngineJSON     = "json"
)

var ErrUnsupportedEngine = errors.New("store: unsupported engine")

// Store keeps one entry per (user, date); saving again replaces it.
// Both read methods return most-recent-first and an empty slice when there
// is nothing to return.
type Store interface {
	SaveEntry(ctx context.Context, e model.DailyEntry) error
	RecentEntries(ctx context.Context, userID string, max int) ([]model.DailyEntry, error)
	AppendAlert(ctx context.Context, a model.AlertLog) error
	AlertHistory(ctx context.Context, userID string) ([]model.AlertLog, error)
	Close() error
}

// Open builds the engine named in cfg.
func Open(ctx context.Context, cfg config.Store, log logrus.FieldLogger) (Store, error) {
	engine := strings.ToLower(strings.TrimSpace(cfg.Engine))
	log = log.WithField("engine", engine)

	var (
		st  Store
		err error
	)
	switch engine {
	case "", EngineSQLite:
		st, err = NewSQLite(ctx, cfg.Path)
	case EnginePostgres:
		st, err = NewPostgres(ctx, cfg, log)
	case EngineJSON:
		st, err = NewJSON(cfg.Path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEngine, cfg.Engine)
	}
	if err != nil {
		return nil, err
	}
	log.Debug("store opened")
	return st, nil
}
