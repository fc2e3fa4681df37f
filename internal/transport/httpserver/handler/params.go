package handler

import (
	"net/http"
	"strings"

	networkdomain "deprem-network-go/internal/domain/network"
	"deprem-network-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

func pathParam(r *http.Request, name string) string {
	return strings.TrimSpace(chi.URLParam(r, name))
}

// requireUser writes 401 and returns false when the request carries no
// authenticated user.
func requireUser(w http.ResponseWriter, r *http.Request) (middleware.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return middleware.User{}, false
	}
	return user, true
}

func actorOf(user middleware.User) networkdomain.Actor {
	return networkdomain.Actor{UserID: user.ID, Phone: user.Phone}
}
