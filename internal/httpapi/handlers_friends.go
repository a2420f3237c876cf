package httpapi

import (
	"net/http"
	"strings"
	"time"

	"friendfeed/internal/domain"
)

type friendRequestResponse struct {
	ID        string               `json:"id"`
	From      searchResultResponse `json:"from"`
	CreatedAt time.Time            `json:"created_at"`
}

func (a *api) handleFriendRequestsList(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	reqs, err := a.friendsSvc.IncomingRequests(r.Context(), u.ID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	resp := make([]friendRequestResponse, 0, len(reqs))
	for _, fr := range reqs {
		resp = append(resp, friendRequestResponse{
			ID: fr.ID,
			From: searchResultResponse{
				ID:       fr.From.ID,
				Username: fr.From.Username,
				ImageURL: profileImageURL(fr.From.ImageFile),
			},
			CreatedAt: fr.CreatedAt,
		})
	}
	WriteJSON(w, http.StatusOK, resp)
}

type createFriendRequestRequest struct {
	UserID string `json:"user_id"`
}

func (a *api) handleFriendRequestCreate(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req createFriendRequestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		WriteDomainError(w, domain.NewValidationError(map[string]string{"user_id": "required"}))
		return
	}

	if err := a.friendsSvc.Request(r.Context(), u.ID, req.UserID); err != nil {
		WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) handleFriendRequestAccept(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		WriteDomainError(w, domain.NewValidationError(map[string]string{"id": "required"}))
		return
	}

	if err := a.friendsSvc.Accept(r.Context(), u.ID, id); err != nil {
		WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) handleFriendRequestIgnore(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		WriteDomainError(w, domain.NewValidationError(map[string]string{"id": "required"}))
		return
	}

	if err := a.friendsSvc.Ignore(r.Context(), u.ID, id); err != nil {
		WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleFriendRemove unfriends by user id, or cancels an outgoing request.
func (a *api) handleFriendRemove(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		WriteDomainError(w, domain.NewValidationError(map[string]string{"id": "required"}))
		return
	}

	if err := a.friendsSvc.Remove(r.Context(), u.ID, id); err != nil {
		WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
