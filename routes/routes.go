package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/wsv-pion/clubsite/handlers"
	"github.com/wsv-pion/clubsite/middleware"
	"github.com/wsv-pion/clubsite/models"
)

func SetupRoutes(
	router *chi.Mux,
	jwtSecret []byte,
	authHandler *handlers.AuthHandler,
	megaschaakHandler *handlers.MegaschaakHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Post("/auth/signup", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	router.Route("/megaschaak", func(r chi.Router) {
		// Public league views.
		r.Route("/{league}", func(r chi.Router) {
			r.Get("/players", megaschaakHandler.ListAvailablePlayers)
			r.Get("/standings", megaschaakHandler.GetStandings)
			r.Get("/crosstable", megaschaakHandler.GetCrossTable)
			r.Get("/popular", megaschaakHandler.GetPopularPlayers)
			r.Get("/value", megaschaakHandler.GetValuePlayers)
			r.Get("/teams", megaschaakHandler.ListTeams)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authenticate(jwtSecret))

				r.Get("/team", megaschaakHandler.GetOwnTeam)
				r.Post("/teams", megaschaakHandler.CreateTeam)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authenticate(jwtSecret))
				r.Use(middleware.RequireRole(models.RoleAdmin))

				r.Get("/config", megaschaakHandler.GetConfig)
				r.Post("/teams/admin", megaschaakHandler.CreateTeamForUser)
			})
		})

		r.Route("/teams/{teamID}", func(r chi.Router) {
			r.Get("/", megaschaakHandler.GetTeam)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authenticate(jwtSecret))

				r.Put("/", megaschaakHandler.UpdateTeam)
				r.Delete("/", megaschaakHandler.DeleteTeam)
				r.Post("/logo", megaschaakHandler.UploadTeamLogo)
			})
		})
	})

	router.Get("/ws/megaschaak/{league}", webSocketHandler.ServeWs)
}
