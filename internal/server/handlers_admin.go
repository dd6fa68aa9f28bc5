package server

import (
	"net/http"
)

// handleAdminListUsers handles GET /api/admin/users — all registered
// accounts. Requires the admin role on the caller's token.
func (s *Server) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	if _, ok := requireAdmin(w, r); !ok {
		return
	}

	accounts, err := s.app.Storage.AccountStore().ListAccounts(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list accounts")
		WriteError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	users := make([]map[string]interface{}, 0, len(accounts))
	for _, account := range accounts {
		users = append(users, map[string]interface{}{
			"user_id":    account.UserID,
			"email":      account.Email,
			"role":       account.Role,
			"created_at": account.CreatedAt,
		})
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data": map[string]interface{}{
			"users": users,
			"count": len(users),
		},
	})
}
