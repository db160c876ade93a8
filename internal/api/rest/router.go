package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/palemoky/songbook-catalog/internal/api/middleware"
	"github.com/palemoky/songbook-catalog/internal/api/rest/handler"
	"github.com/palemoky/songbook-catalog/internal/config"
	"github.com/palemoky/songbook-catalog/internal/database"
	"github.com/palemoky/songbook-catalog/internal/search"
)

// SetupRouter sets up the Gin router with all routes
func SetupRouter(cfg *config.Config, db *database.DB, repo *database.Repository) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	router := gin.New()
	router.Use(middleware.RequestLogger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())

	if cfg.RateLimit.Enabled {
		rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		router.Use(rateLimiter.Middleware())
	}

	searchEngine := search.NewEngine(db)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handler.HealthHandler(db))
		v1.GET("/stats", handler.StatsHandler(repo))

		bookHandler := handler.NewBookHandler(repo)
		v1.GET("/books", bookHandler.ListBooks)
		v1.GET("/books/random", bookHandler.RandomBooks)
		v1.GET("/books/:id", bookHandler.GetBook)

		songHandler := handler.NewSongHandler(repo, searchEngine)
		v1.GET("/songs", songHandler.SearchSongs)
		v1.GET("/songs/advanced", songHandler.AdvancedSearch)
		v1.GET("/songs/:id", songHandler.GetSong)

		searchHandler := handler.NewSearchHandler(repo, searchEngine)
		v1.GET("/search", searchHandler.Search)
	}

	return router
}
