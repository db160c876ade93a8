package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/palemoky/songbook-catalog/internal/database"
	apierrors "github.com/palemoky/songbook-catalog/internal/errors"
	"github.com/palemoky/songbook-catalog/internal/helpers"
	"github.com/palemoky/songbook-catalog/internal/search"
)

// SongHandler handles song-related requests
type SongHandler struct {
	repo   *database.Repository
	search *search.Engine
}

// NewSongHandler creates a new song handler
func NewSongHandler(repo *database.Repository, searchEngine *search.Engine) *SongHandler {
	return &SongHandler{
		repo:   repo,
		search: searchEngine,
	}
}

// SearchSongs searches songs by name, newest first, each with its book name
func (h *SongHandler) SearchSongs(c *gin.Context) {
	pagination := ParsePagination(c)

	result, err := h.search.Search(search.SearchParams{
		Query:      c.Query("query"),
		SearchType: search.SearchTypeSong,
		Page:       pagination.Page,
		PageSize:   pagination.PageSize,
	})
	if err != nil {
		respondError(c, apierrors.Internal("search failed", err))
		return
	}

	songs := make([]database.Song, len(result.Hits))
	for i, hit := range result.Hits {
		songs[i] = *hit.Song
	}
	h.respondSongs(c, songs, pagination, result.TotalCount)
}

// AdvancedSearch filters songs by book, song, credits, grade and memo
func (h *SongHandler) AdvancedSearch(c *gin.Context) {
	pagination := ParsePagination(c)

	songs, total, err := h.search.AdvancedSearch(search.AdvancedParams{
		Book:       c.Query("book"),
		Song:       c.Query("song"),
		Artist:     c.Query("artist"),
		Lyricist:   c.Query("lyricist"),
		SongWriter: c.Query("song_writer"),
		Arranger:   c.Query("arranger"),
		Grade:      c.Query("grade"),
		Memo:       c.Query("memo"),
		Page:       pagination.Page,
		PageSize:   pagination.PageSize,
	})
	if err != nil {
		respondError(c, apierrors.Internal("search failed", err))
		return
	}

	h.respondSongs(c, songs, pagination, total)
}

// GetSong returns one song with its book and credits
func (h *SongHandler) GetSong(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	song, err := h.repo.GetSongByID(id)
	if err != nil {
		respondError(c, apierrors.FromStore(err, "song"))
		return
	}

	credits, err := h.repo.SongCredits([]int64{song.ID})
	if err != nil {
		respondError(c, apierrors.Internal("failed to load credits", err))
		return
	}

	respondOK(c, formatSong(song, credits[song.ID]))
}

func (h *SongHandler) respondSongs(c *gin.Context, songs []database.Song, pagination helpers.Pagination, total int64) {
	credits, err := h.repo.SongCredits(songIDs(songs))
	if err != nil {
		respondError(c, apierrors.Internal("failed to load credits", err))
		return
	}

	c.JSON(http.StatusOK, NewPaginationResponse(formatSongs(songs, credits), pagination, total))
}
