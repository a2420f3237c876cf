package httpapi

import (
	"net/http"
	"time"

	"friendfeed/internal/domain"
	"friendfeed/internal/imaging"
)

type postResponse struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	Author searchResultResponse `json:"author"`
}

func postImageURL(image string) string {
	if image == "" {
		return ""
	}
	return "/uploads/post_pics/" + image
}

func toPostResponse(p domain.PostWithAuthor) postResponse {
	return postResponse{
		ID:        p.ID,
		Content:   p.Content,
		ImageURL:  postImageURL(p.Image),
		CreatedAt: p.CreatedAt,
		Author: searchResultResponse{
			ID:       p.Author.ID,
			Username: p.Author.Username,
			ImageURL: profileImageURL(p.Author.ImageFile),
		},
	}
}

func writePosts(w http.ResponseWriter, posts []domain.PostWithAuthor) {
	resp := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		resp = append(resp, toPostResponse(p))
	}
	WriteJSON(w, http.StatusOK, resp)
}

func (a *api) handlePostsFeed(w http.ResponseWriter, r *http.Request) {
	if _, ok := CurrentUser(r.Context()); !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	posts, err := a.postsSvc.Feed(r.Context())
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	writePosts(w, posts)
}

func (a *api) handleUserPosts(w http.ResponseWriter, r *http.Request) {
	if _, ok := CurrentUser(r.Context()); !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	id := r.PathValue("id")
	if _, err := a.profileSvc.Get(r.Context(), id); err != nil {
		WriteDomainError(w, err)
		return
	}

	posts, err := a.postsSvc.ByUser(r.Context(), id)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	writePosts(w, posts)
}

// handlePostsCreate accepts multipart form data: a content field plus an
// optional picture file that is scaled down before it is stored.
func (a *api) handlePostsCreate(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	const maxUploadSize = 8 << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_upload", "request body is too large")
		return
	}

	image := ""
	if file, _, err := r.FormFile("picture"); err == nil {
		defer file.Close()
		image, err = a.postImages.SaveThumbnail(file, imaging.PostMaxDim)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "invalid_picture", "picture must be a valid image file")
			return
		}
	}

	p, err := a.postsSvc.Create(r.Context(), u.ID, r.FormValue("content"), image)
	if err != nil {
		if image != "" {
			a.postImages.Remove(image)
		}
		WriteDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, toPostResponse(domain.PostWithAuthor{
		Post:   p,
		Author: domain.UserSummary{ID: u.ID, Username: u.Username, ImageFile: u.ImageFile},
	}))
}

func (a *api) handlePostsDelete(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	p, err := a.postsSvc.Delete(r.Context(), u.ID, r.PathValue("id"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	if p.Image != "" {
		a.postImages.Remove(p.Image)
	}

	w.WriteHeader(http.StatusNoContent)
}
