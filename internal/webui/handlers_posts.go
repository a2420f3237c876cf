package webui

import (
	"errors"
	"net/http"

	"friendfeed/internal/domain"
	"friendfeed/internal/imaging"
)

func toPostCards(posts []domain.PostWithAuthor, viewerID string) []postCard {
	cards := make([]postCard, 0, len(posts))
	for _, p := range posts {
		cards = append(cards, postCard{
			ID:             p.ID,
			Content:        p.Content,
			ImageURL:       postImageURL(p.Image),
			AuthorID:       p.Author.ID,
			AuthorName:     p.Author.Username,
			AuthorImageURL: profileImageURL(p.Author.ImageFile),
			CreatedAt:      p.CreatedAt.Format("Jan 2, 2006 15:04"),
			Mine:           p.UserID == viewerID,
		})
	}
	return cards
}

func (a *app) handlePostsGet(w http.ResponseWriter, r *http.Request) {
	u, _, _ := a.currentUser(r)

	posts, err := a.postsSvc.Feed(r.Context())
	if err != nil {
		a.logger.Error("webui: load feed failed", "err", err)
		a.templates.renderError(w, http.StatusInternalServerError, siteTitle, "Could not load the feed.")
		return
	}

	data := postsViewData{
		pageData: a.page(r, siteTitle, u),
		Posts:    toPostCards(posts, u.ID),
	}
	a.templates.renderPosts(w, http.StatusOK, data)
}

func (a *app) handlePostsCreate(w http.ResponseWriter, r *http.Request) {
	u, _, _ := a.currentUser(r)

	const maxUploadSize = 8 << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		a.renderPostsWithError(w, r, u, "The upload is too large.")
		return
	}

	image := ""
	if file, _, err := r.FormFile("picture"); err == nil {
		defer file.Close()
		image, err = a.postImages.SaveThumbnail(file, imaging.PostMaxDim)
		if err != nil {
			a.renderPostsWithError(w, r, u, "The picture must be a valid image file.")
			return
		}
	}

	if _, err := a.postsSvc.Create(r.Context(), u.ID, r.FormValue("content"), image); err != nil {
		if image != "" {
			a.postImages.Remove(image)
		}
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			a.renderPostsWithError(w, r, u, "Post content "+verr.Fields["content"]+".")
			return
		}
		a.logger.Error("webui: create post failed", "err", err)
		a.renderPostsWithError(w, r, u, "Could not save the post.")
		return
	}

	http.Redirect(w, r, "/posts", http.StatusFound)
}

func (a *app) renderPostsWithError(w http.ResponseWriter, r *http.Request, u domain.User, msg string) {
	posts, err := a.postsSvc.Feed(r.Context())
	if err != nil {
		a.templates.renderError(w, http.StatusInternalServerError, siteTitle, "Could not load the feed.")
		return
	}
	data := postsViewData{
		pageData: a.page(r, siteTitle, u),
		Posts:    toPostCards(posts, u.ID),
	}
	data.Error = msg
	a.templates.renderPosts(w, http.StatusBadRequest, data)
}

func (a *app) handlePostDelete(w http.ResponseWriter, r *http.Request) {
	u, _, _ := a.currentUser(r)

	p, err := a.postsSvc.Delete(r.Context(), u.ID, r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			a.templates.renderError(w, http.StatusForbidden, siteTitle, "You can only delete your own posts.")
		case errors.Is(err, domain.ErrNotFound):
			a.templates.renderError(w, http.StatusNotFound, siteTitle, "That post does not exist.")
		default:
			a.logger.Error("webui: delete post failed", "err", err)
			a.templates.renderError(w, http.StatusInternalServerError, siteTitle, "Could not delete the post.")
		}
		return
	}
	if p.Image != "" {
		a.postImages.Remove(p.Image)
	}

	http.Redirect(w, r, "/posts", http.StatusFound)
}
