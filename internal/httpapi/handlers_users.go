package httpapi

import (
	"net/http"
	"time"

	"friendfeed/internal/domain"
	"friendfeed/internal/imaging"
)

const defaultProfileImageURL = "/static/default_profile.svg"

type userResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email,omitempty"`
	Username    string    `json:"username"`
	ImageURL    string    `json:"image_url"`
	Gender      string    `json:"gender,omitempty"`
	DOB         *string   `json:"dob,omitempty"`
	Job         string    `json:"job,omitempty"`
	Home        string    `json:"home,omitempty"`
	LastStudies string    `json:"last_studies,omitempty"`
	Friends     int       `json:"friends"`
	CreatedAt   time.Time `json:"created_at"`
}

func profileImageURL(imageFile string) string {
	if imageFile == "" {
		return defaultProfileImageURL
	}
	return "/uploads/profile_pics/" + imageFile
}

func toUserResponse(u domain.User, includeEmail bool) userResponse {
	resp := userResponse{
		ID:          u.ID,
		Username:    u.Username,
		ImageURL:    profileImageURL(u.ImageFile),
		Gender:      u.Gender,
		Job:         u.Job,
		Home:        u.Home,
		LastStudies: u.LastStudies,
		Friends:     u.Friends,
		CreatedAt:   u.CreatedAt,
	}
	if includeEmail {
		resp.Email = u.Email
	}
	if u.DOB != nil {
		d := u.DOB.Format("2006-01-02")
		resp.DOB = &d
	}
	return resp
}

func writeUser(w http.ResponseWriter, status int, u domain.User, includeEmail bool) {
	WriteJSON(w, status, toUserResponse(u, includeEmail))
}

func (a *api) handleUsersMe(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	writeUser(w, http.StatusOK, u, true)
}

type updateProfileRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Gender      string `json:"gender"`
	DOB         string `json:"dob"`
	Job         string `json:"job"`
	Home        string `json:"home"`
	LastStudies string `json:"last_studies"`
}

func (a *api) handleUsersMeUpdate(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	upd := domain.ProfileUpdate{
		Username:    req.Username,
		Email:       req.Email,
		Gender:      req.Gender,
		Job:         req.Job,
		Home:        req.Home,
		LastStudies: req.LastStudies,
	}
	if req.DOB != "" {
		d, err := time.Parse("2006-01-02", req.DOB)
		if err != nil {
			WriteDomainError(w, domain.NewValidationError(map[string]string{"dob": "must be YYYY-MM-DD"}))
			return
		}
		upd.DOB = &d
	}

	updated, err := a.profileSvc.Update(r.Context(), u.ID, upd)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	writeUser(w, http.StatusOK, updated, true)
}

func (a *api) handleUsersMePicture(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	file, ok := readImageUpload(w, r, "picture")
	if !ok {
		return
	}
	defer file.Close()

	filename, err := a.profileImages.SaveThumbnail(file, imaging.ProfileMaxDim)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_picture", "picture must be a valid image file")
		return
	}

	old := u.ImageFile
	if err := a.profileSvc.SetImage(r.Context(), u.ID, filename); err != nil {
		a.profileImages.Remove(filename)
		WriteDomainError(w, err)
		return
	}
	if old != "" {
		a.profileImages.Remove(old)
	}

	u.ImageFile = filename
	writeUser(w, http.StatusOK, u, true)
}

// readImageUpload pulls the named multipart file out of the request, writing
// the error response itself when the upload is missing or oversized.
func readImageUpload(w http.ResponseWriter, r *http.Request, field string) (multipartFile, bool) {
	const maxUploadSize = 8 << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_upload", "file is too large")
		return nil, false
	}

	file, _, err := r.FormFile(field)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_upload", field+" file is required")
		return nil, false
	}
	return file, true
}

type multipartFile interface {
	Read(p []byte) (int, error)
	Close() error
}

type publicProfileResponse struct {
	User       userResponse `json:"user"`
	Friendship string       `json:"friendship"`
	EdgeID     string       `json:"edge_id,omitempty"`
}

func (a *api) handleUsersGet(w http.ResponseWriter, r *http.Request) {
	viewer, ok := CurrentUser(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	id := r.PathValue("id")
	u, err := a.profileSvc.Get(r.Context(), id)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	resp := publicProfileResponse{
		User:       toUserResponse(u, viewer.ID == u.ID),
		Friendship: "self",
	}
	if viewer.ID != u.ID {
		pv, err := a.friendsSvc.PairView(r.Context(), viewer.ID, u.ID)
		if err != nil {
			WriteDomainError(w, err)
			return
		}
		resp.Friendship = string(pv.State)
		resp.EdgeID = pv.EdgeID
	}

	WriteJSON(w, http.StatusOK, resp)
}

type searchResultResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	ImageURL string `json:"image_url"`
}

func (a *api) handleUsersSearch(w http.ResponseWriter, r *http.Request) {
	if _, ok := CurrentUser(r.Context()); !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	out, err := a.searchSvc.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	resp := make([]searchResultResponse, 0, len(out))
	for _, s := range out {
		resp = append(resp, searchResultResponse{
			ID:       s.ID,
			Username: s.Username,
			ImageURL: profileImageURL(s.ImageFile),
		})
	}
	WriteJSON(w, http.StatusOK, resp)
}
