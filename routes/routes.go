package routes

import (
	"github.com/arrakeen/tennis-player-rest/handlers"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func SetupRoutes(router *chi.Mux, playerHandler *handlers.PlayerHandler) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/welcome", playerHandler.Welcome)

	router.Route("/players", func(r chi.Router) {
		r.Get("/", playerHandler.GetAllPlayers)
		r.Post("/", playerHandler.AddPlayer)

		r.Get("/{playerID}", playerHandler.GetPlayerByID)
		r.Put("/{playerID}", playerHandler.UpdatePlayer)
		r.Patch("/{playerID}", playerHandler.PatchPlayer)
		r.Delete("/{playerID}", playerHandler.DeletePlayer)

		// Узкий отдельный путь для обновления только числа титулов
		r.Patch("/{playerID}/titles", playerHandler.UpdateTitles)
	})
}
