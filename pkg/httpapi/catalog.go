package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/0xmhha/watchvault/pkg/catalog"
	"github.com/0xmhha/watchvault/pkg/insights"
	"github.com/0xmhha/watchvault/pkg/media"
	"github.com/0xmhha/watchvault/pkg/player"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.deps.Catalog == nil {
		s.writeError(w, r, ErrCatalogUnavailable)
		return
	}

	page, err := queryInt(r, "page", 1)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.deps.Catalog.Search(r.Context(), r.URL.Query().Get("q"), page)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	if s.deps.Catalog == nil {
		s.writeError(w, r, ErrCatalogUnavailable)
		return
	}

	result, err := s.deps.Catalog.Trending(r.Context(), r.URL.Query().Get("window"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDetails(w http.ResponseWriter, r *http.Request) {
	if s.deps.Catalog == nil {
		s.writeError(w, r, ErrCatalogUnavailable)
		return
	}

	item, err := itemFromPath(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	details, err := s.deps.Catalog.Details(r.Context(), item.ResolvedType(), item.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// Viewing details is what fills the recently viewed row.
	if _, ok := s.deps.Library.Active(); ok {
		if err := s.deps.Library.RecordView(details.Item); err != nil {
			s.logger.Warn("failed to record view", "key", details.Key(), "error", err)
		}
	}

	s.writeJSON(w, http.StatusOK, details)
}

// handleRecommendations seeds discover with the genres of recent history.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	if s.deps.Catalog == nil {
		s.writeError(w, r, ErrCatalogUnavailable)
		return
	}

	snap, err := s.deps.Library.Snapshot()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	seeds := insights.GenreSeeds(snap, insights.SeedHistoryWindow, insights.SeedGenreLimit)
	result, err := s.deps.Catalog.Recommend(r.Context(), seeds)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handlePlayerURL(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	id, err := strconv.ParseInt(q.Get("id"), 10, 64)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: id must be a number", ErrBadRequest))
		return
	}

	var url string
	switch media.Type(q.Get("type")) {
	case media.TypeTV:
		season, err := queryInt(r, "season", 1)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		episode, err := queryInt(r, "episode", 1)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		url, err = s.deps.Player.EpisodeURL(player.Episode{ShowID: id, Season: season, Episode: episode})
		if err != nil {
			s.writeError(w, r, err)
			return
		}
	case media.TypeMovie, "":
		url, err = s.deps.Player.MovieURL(id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
	default:
		s.writeError(w, r, fmt.Errorf("%w: unknown media type %q", ErrBadRequest, q.Get("type")))
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

var _ Catalog = (*catalog.Client)(nil)
