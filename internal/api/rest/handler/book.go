package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/palemoky/songbook-catalog/internal/database"
	apierrors "github.com/palemoky/songbook-catalog/internal/errors"
)

const (
	defaultPickups = 4
	maxPickups     = 20
)

// BookHandler handles book-related requests
type BookHandler struct {
	repo *database.Repository
}

// NewBookHandler creates a new book handler
func NewBookHandler(repo *database.Repository) *BookHandler {
	return &BookHandler{repo: repo}
}

// ListBooks returns books newest first, filtered by ?query= on the name
func (h *BookHandler) ListBooks(c *gin.Context) {
	pagination := ParsePagination(c)

	books, total, err := h.repo.ListBooks(c.Query("query"), pagination.PageSize, pagination.Offset())
	if err != nil {
		respondError(c, apierrors.Internal("failed to retrieve books", err))
		return
	}

	data := make([]map[string]any, len(books))
	for i := range books {
		data[i] = formatBook(&books[i])
	}

	c.JSON(http.StatusOK, NewPaginationResponse(data, pagination, total))
}

// RandomBooks returns a few books in random order for the pickup section
func (h *BookHandler) RandomBooks(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPickups)))
	if err != nil || limit < 1 {
		respondError(c, apierrors.InvalidRequest("limit must be a positive integer"))
		return
	}
	limit = min(limit, maxPickups)

	books, err := h.repo.RandomBooks(limit)
	if err != nil {
		respondError(c, apierrors.Internal("failed to retrieve books", err))
		return
	}

	data := make([]map[string]any, len(books))
	for i := range books {
		data[i] = formatBook(&books[i])
	}
	respondOK(c, data)
}

// GetBook returns one book with all of its songs and their credits
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	book, err := h.repo.GetBookByID(id)
	if err != nil {
		respondError(c, apierrors.FromStore(err, "book"))
		return
	}

	songs, err := h.repo.ListBookSongs(book.ID)
	if err != nil {
		respondError(c, apierrors.Internal("failed to list book songs", err))
		return
	}

	credits, err := h.repo.SongCredits(songIDs(songs))
	if err != nil {
		respondError(c, apierrors.Internal("failed to load credits", err))
		return
	}

	for i := range songs {
		songs[i].Book = book
	}

	data := formatBook(book)
	data["songs"] = formatSongs(songs, credits)
	respondOK(c, data)
}
