package httpapi

import (
	"fmt"
	"io"
	"net/http"

	"github.com/0xmhha/watchvault/pkg/backup"
	"github.com/0xmhha/watchvault/pkg/insights"
	"github.com/0xmhha/watchvault/pkg/media"
)

type itemsResponse struct {
	Items []media.Item `json:"items"`
}

type historyResponse struct {
	History []media.HistoryEntry `json:"history"`
}

type statsResponse struct {
	Stats            insights.Statistics    `json:"stats"`
	Activity         []insights.DayActivity `json:"activity"`
	ContinueWatching []media.HistoryEntry   `json:"continueWatching"`
}

func nonNilItems(items []media.Item) []media.Item {
	if items == nil {
		return []media.Item{}
	}
	return items
}

func (s *Server) handleWatchlist(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, itemsResponse{Items: nonNilItems(s.deps.Library.Watchlist())})
}

func (s *Server) handleToggleWatchlist(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decode(r, maxBodySize, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	added, err := s.deps.Library.ToggleWatchlist(req.Item)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"inWatchlist": added})
}

func (s *Server) handleInWatchlist(w http.ResponseWriter, r *http.Request) {
	item, err := itemFromPath(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"inWatchlist": s.deps.Library.IsInWatchlist(item)})
}

func (s *Server) handleHistory(w http.ResponseWriter, _ *http.Request) {
	history := s.deps.Library.History()
	if history == nil {
		history = []media.HistoryEntry{}
	}
	s.writeJSON(w, http.StatusOK, historyResponse{History: history})
}

func (s *Server) handleAddHistory(w http.ResponseWriter, r *http.Request) {
	s.withItem(w, r, s.deps.Library.AddToHistory, "Added to history")
}

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	item, err := itemFromPath(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"progress": s.deps.Library.GetProgress(item)})
}

func (s *Server) handleSetProgress(w http.ResponseWriter, r *http.Request) {
	var req progressRequest
	if err := decode(r, maxBodySize, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.deps.Library.SetProgress(req.Item, req.Progress); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeResult(w, "Progress saved")
}

func (s *Server) handleMarkWatched(w http.ResponseWriter, r *http.Request) {
	s.withItem(w, r, s.deps.Library.MarkWatched, "Marked as watched")
}

// handlePlayback resolves the player URL first so an untrusted or invalid
// title never reaches the history.
func (s *Server) handlePlayback(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decode(r, maxBodySize, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	url, err := s.deps.Player.URLFor(req.Item)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.deps.Library.RecordPlayback(req.Item); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (s *Server) handleGetRating(w http.ResponseWriter, r *http.Request) {
	item, err := itemFromPath(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := map[string]*media.Rating{"rating": nil}
	if rating, ok := s.deps.Library.GetRating(item); ok {
		resp["rating"] = &rating
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetRating(w http.ResponseWriter, r *http.Request) {
	var req ratingRequest
	if err := decode(r, maxBodySize, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.deps.Library.SetRating(req.Item, req.Score); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeResult(w, "Rating saved")
}

func (s *Server) handleClearRating(w http.ResponseWriter, r *http.Request) {
	item, err := itemFromPath(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.deps.Library.ClearRating(item); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeResult(w, "Rating removed")
}

func (s *Server) handleRecent(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, itemsResponse{Items: nonNilItems(s.deps.Library.RecentlyViewed())})
}

func (s *Server) handleRecordView(w http.ResponseWriter, r *http.Request) {
	s.withItem(w, r, s.deps.Library.RecordView, "")
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.deps.Library.Settings()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	current, err := s.deps.Library.Settings()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// Omitted fields keep their current values.
	next := current
	if err := decode(r, maxBodySize, &next); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.deps.Library.UpdateSettings(next); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.handleGetSettings(w, r)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	doc, err := s.deps.Library.Export()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", backup.FileName(doc.Email, doc.ExportDate)))
	s.writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, backup.MaxFileSize+1))
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}
	if len(data) > backup.MaxFileSize {
		s.writeError(w, r, backup.ErrFileTooLarge)
		return
	}

	doc, err := backup.Parse(data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.deps.Library.Restore(doc); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeResult(w, fmt.Sprintf("Restored %d watchlist items and %d history entries",
		len(doc.Watchlist), len(doc.History)))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	snap, err := s.deps.Library.Snapshot()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := statsResponse{
		Stats:            insights.Compute(snap),
		Activity:         insights.Activity(snap),
		ContinueWatching: insights.ContinueWatching(snap, insights.ContinueWatchingLimit),
	}
	if resp.Activity == nil {
		resp.Activity = []insights.DayActivity{}
	}
	if resp.ContinueWatching == nil {
		resp.ContinueWatching = []media.HistoryEntry{}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// withItem decodes {"item": ...} and applies op.
func (s *Server) withItem(w http.ResponseWriter, r *http.Request, op func(media.Item) error, msg string) {
	var req itemRequest
	if err := decode(r, maxBodySize, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := op(req.Item); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeResult(w, msg)
}
