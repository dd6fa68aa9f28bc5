package server

import (
	"errors"
	"net/http"

	"github.com/vortexhq/vortex/internal/interfaces"
)

// handleProfile handles GET /api/profile — the authenticated user's
// profile document.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	uc, ok := requireUser(w, r)
	if !ok {
		return
	}

	profile, err := s.app.Storage.ProfileStore().GetProfile(r.Context(), uc.UserID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "profile not found")
			return
		}
		s.logger.Error().Err(err).Str("user_id", uc.UserID).Msg("Profile lookup failed")
		WriteError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   profile,
	})
}
