package httpserver

import (
	"net/http"
	"time"

	"deprem-network-go/internal/config"
	"deprem-network-go/internal/transport/httpserver/handler"
	authmw "deprem-network-go/internal/transport/httpserver/middleware"
	"deprem-network-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, profiles authmw.ProfileSaver, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(authmw.RequestLogger(log))
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORSOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		auth := authmw.NewSupabaseAuth(cfg.Supabase, profiles, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.AuthMe)

			r.Route("/networks", func(r chi.Router) {
				r.Get("/", handlers.ListMyNetworks)
				r.Post("/", handlers.CreateNetwork)
				r.Post("/defaults", handlers.ProvisionDefaultNetworks)
				r.Post("/join", handlers.JoinNetwork)

				r.Route("/{network_id}", func(r chi.Router) {
					r.Get("/", handlers.GetNetwork)
					r.Patch("/", handlers.UpdateNetwork)
					r.Delete("/", handlers.DeleteNetwork)
					r.Get("/overview", handlers.NetworkOverview)
					r.Post("/leave", handlers.LeaveNetwork)

					r.Get("/members", handlers.ListMembers)
					r.Delete("/members/{user_id}", handlers.RemoveMember)

					r.Get("/invitations", handlers.ListNetworkInvitations)
					r.Post("/invitations", handlers.CreateInvitation)

					r.Get("/requests", handlers.ListJoinRequests)
					r.Post("/requests", handlers.CreateJoinRequest)
				})
			})

			r.Get("/invitations", handlers.ListMyInvitations)
			r.Post("/invitations/{invitation_id}/respond", handlers.RespondToInvitation)
			r.Post("/invitations/{invitation_id}/cancel", handlers.CancelInvitation)

			r.Post("/requests/{request_id}/respond", handlers.RespondToJoinRequest)
		})
	})

	return r
}
