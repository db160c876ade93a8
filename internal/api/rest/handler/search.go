package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/palemoky/songbook-catalog/internal/database"
	apierrors "github.com/palemoky/songbook-catalog/internal/errors"
	"github.com/palemoky/songbook-catalog/internal/search"
)

// SearchHandler serves the combined book and song search
type SearchHandler struct {
	repo   *database.Repository
	search *search.Engine
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(repo *database.Repository, searchEngine *search.Engine) *SearchHandler {
	return &SearchHandler{repo: repo, search: searchEngine}
}

// Search handles ?query=&type=all|book|song&page=
func (h *SearchHandler) Search(c *gin.Context) {
	pagination := ParsePagination(c)
	searchType := search.ParseSearchType(c.DefaultQuery("type", string(search.SearchTypeAll)))

	result, err := h.search.Search(search.SearchParams{
		Query:      c.Query("query"),
		SearchType: searchType,
		Page:       pagination.Page,
		PageSize:   pagination.PageSize,
	})
	if err != nil {
		respondError(c, apierrors.Internal("search failed", err))
		return
	}

	var ids []int64
	for _, hit := range result.Hits {
		if hit.Song != nil {
			ids = append(ids, hit.Song.ID)
		}
	}
	credits, err := h.repo.SongCredits(ids)
	if err != nil {
		respondError(c, apierrors.Internal("failed to load credits", err))
		return
	}

	data := make([]map[string]any, len(result.Hits))
	for i, hit := range result.Hits {
		switch hit.Type {
		case search.SearchTypeBook:
			data[i] = formatBook(hit.Book)
		default:
			data[i] = formatSong(hit.Song, credits[hit.Song.ID])
		}
		data[i]["result_type"] = string(hit.Type)
	}

	resp := NewPaginationResponse(data, pagination, result.TotalCount)
	resp["type"] = searchType
	resp["has_more"] = result.HasMore
	c.JSON(http.StatusOK, resp)
}
