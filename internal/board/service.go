// Package board implements the write path of the wordboard: post creation and
// deletion, topic attachment, reaction toggling and user stats.
package board

import (
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/neonverse/wordboard/internal/db"
	"github.com/neonverse/wordboard/internal/storage"
	"github.com/neonverse/wordboard/pkg/logging"
)

// MaxContentLength is the maximum post content length in characters
const MaxContentLength = 1000

// Service carries out board mutations
type Service struct {
	repo    *db.Repository
	storage storage.ImageStorage
	policy  *bluemonday.Policy
	logger  *zap.Logger
}

// NewService creates a new board service. store may be nil when media
// handling is disabled.
func NewService(repo *db.Repository, store storage.ImageStorage) *Service {
	return &Service{
		repo:    repo,
		storage: store,
		policy:  bluemonday.StrictPolicy(),
		logger:  logging.GetLogger().With(zap.String("component", "board")),
	}
}
