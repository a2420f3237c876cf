package webui

import (
	"errors"
	"net/http"
	"net/url"

	"friendfeed/internal/domain"
)

func (a *app) handleFriendRequests(w http.ResponseWriter, r *http.Request) {
	u, _, _ := a.currentUser(r)

	reqs, err := a.friendsSvc.IncomingRequests(r.Context(), u.ID)
	if err != nil {
		a.logger.Error("webui: load requests failed", "err", err)
		a.templates.renderError(w, http.StatusInternalServerError, siteTitle, "Could not load your friend requests.")
		return
	}

	cards := make([]requestCard, 0, len(reqs))
	for _, fr := range reqs {
		cards = append(cards, requestCard{
			EdgeID:   fr.ID,
			UserID:   fr.From.ID,
			Username: fr.From.Username,
			ImageURL: profileImageURL(fr.From.ImageFile),
			Since:    fr.CreatedAt.Format("Jan 2, 2006"),
		})
	}

	data := requestsViewData{
		pageData: a.page(r, "Friend Requests", u),
		Requests: cards,
	}
	a.templates.renderRequests(w, http.StatusOK, data)
}

// handleAddFriendship sends a request from {from} to {to}. The from segment
// must match the signed-in user; the path carries it only because the link
// format predates the session check.
func (a *app) handleAddFriendship(w http.ResponseWriter, r *http.Request) {
	u, _, _ := a.currentUser(r)

	from, to := r.PathValue("from"), r.PathValue("to")
	if from != u.ID {
		a.templates.renderError(w, http.StatusForbidden, siteTitle, "You can only send requests as yourself.")
		return
	}

	if err := a.friendsSvc.Request(r.Context(), u.ID, to); err != nil {
		a.renderFriendshipError(w, err, "Could not send the friend request.")
		return
	}
	http.Redirect(w, r, "/profile/"+url.PathEscape(to), http.StatusFound)
}

func (a *app) handleDeleteFriendship(w http.ResponseWriter, r *http.Request) {
	u, _, _ := a.currentUser(r)

	from, to := r.PathValue("from"), r.PathValue("to")
	if from != u.ID {
		a.templates.renderError(w, http.StatusForbidden, siteTitle, "You can only unfriend as yourself.")
		return
	}

	if err := a.friendsSvc.Remove(r.Context(), u.ID, to); err != nil {
		a.renderFriendshipError(w, err, "Could not remove the friendship.")
		return
	}
	http.Redirect(w, r, "/profile/"+url.PathEscape(to), http.StatusFound)
}

func (a *app) handleAcceptFriendship(w http.ResponseWriter, r *http.Request) {
	u, _, _ := a.currentUser(r)

	if err := a.friendsSvc.Accept(r.Context(), u.ID, r.PathValue("id")); err != nil {
		a.renderFriendshipError(w, err, "Could not accept the friend request.")
		return
	}
	http.Redirect(w, r, "/friend_requests", http.StatusFound)
}

func (a *app) handleIgnoreFriendship(w http.ResponseWriter, r *http.Request) {
	u, _, _ := a.currentUser(r)

	if err := a.friendsSvc.Ignore(r.Context(), u.ID, r.PathValue("id")); err != nil {
		a.renderFriendshipError(w, err, "Could not ignore the friend request.")
		return
	}
	http.Redirect(w, r, "/friend_requests", http.StatusFound)
}

func (a *app) renderFriendshipError(w http.ResponseWriter, err error, fallback string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		a.templates.renderError(w, http.StatusBadRequest, siteTitle, verr.Error())
	case errors.Is(err, domain.ErrForbidden):
		a.templates.renderError(w, http.StatusForbidden, siteTitle, "You are not part of that friend request.")
	case errors.Is(err, domain.ErrNotFound):
		a.templates.renderError(w, http.StatusNotFound, siteTitle, "That friend request does not exist.")
	default:
		a.logger.Error("webui: friendship operation failed", "err", err)
		a.templates.renderError(w, http.StatusInternalServerError, siteTitle, fallback)
	}
}
