package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/jackc/pgx/v5"

	"github.com/pgwilde8/urvote-rocks/internal/model"
	"github.com/pgwilde8/urvote-rocks/internal/repository"
)

// ErrBoardNotFound means no board exists under the requested slug.
var ErrBoardNotFound = errors.New("board not found")

type BoardService struct {
	repo    *repository.BoardRepo
	content *repository.ContentRepo
	cache   *CacheService
}

func NewBoardService(repo *repository.BoardRepo, content *repository.ContentRepo, cache *CacheService) *BoardService {
	return &BoardService{repo: repo, content: content, cache: cache}
}

// BySlug fetches the raw board row. Admission checks read through here and
// skip the cache, so allow-flag changes take effect immediately.
func (s *BoardService) BySlug(ctx context.Context, slug string) (*model.Board, error) {
	b, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBoardNotFound
		}
		return nil, err
	}
	return b, nil
}

// Lookup returns the public board response for a slug.
// Uses cache-aside: check Redis first, fall back to DB, then populate cache.
func (s *BoardService) Lookup(ctx context.Context, slug string) (*model.BoardResponse, error) {
	// Try cache first
	cached, err := s.cache.GetBoard(ctx, slug)
	if err != nil {
		log.Printf("cache: board get error: %v", err)
	} else if cached != nil {
		var resp model.BoardResponse
		if err := json.Unmarshal(cached, &resp); err == nil {
			return &resp, nil
		}
	}

	// Cache miss — fetch from DB
	b, err := s.BySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	resp := &model.BoardResponse{
		Slug:       b.Slug,
		Name:       b.Name,
		MediaTypes: b.AllowedMediaTypes(),
		CreatedAt:  b.CreatedAt,
	}

	// Populate cache
	if err := s.cache.SetBoard(ctx, slug, resp); err != nil {
		log.Printf("cache: board set error: %v", err)
	}

	return resp, nil
}

// ApprovedContent lists a board's approved content, optionally narrowed to
// one media type.
func (s *BoardService) ApprovedContent(ctx context.Context, board *model.Board, mediaType model.MediaType, limit, offset int) ([]model.Content, error) {
	return s.content.ListApprovedByBoard(ctx, board.ID, mediaType, limit, offset)
}
