package webui

import (
	"errors"
	"net/http"
	"time"

	"friendfeed/internal/domain"
	"friendfeed/internal/imaging"
)

func (a *app) handleProfile(w http.ResponseWriter, r *http.Request) {
	viewer, _, _ := a.currentUser(r)

	profile, err := a.profileSvc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.templates.renderError(w, http.StatusNotFound, siteTitle, "That user does not exist.")
			return
		}
		a.logger.Error("webui: load profile failed", "err", err)
		a.templates.renderError(w, http.StatusInternalServerError, siteTitle, "Could not load the profile.")
		return
	}

	posts, err := a.postsSvc.ByUser(r.Context(), profile.ID)
	if err != nil {
		a.logger.Error("webui: load profile posts failed", "err", err)
		a.templates.renderError(w, http.StatusInternalServerError, siteTitle, "Could not load the profile.")
		return
	}

	data := profileViewData{
		pageData:     a.page(r, profile.Username, viewer),
		Profile:      profile,
		ProfileImage: profileImageURL(profile.ImageFile),
		Posts:        toPostCards(posts, viewer.ID),
		IsSelf:       viewer.ID == profile.ID,
	}
	if profile.DOB != nil {
		data.DOB = profile.DOB.Format("Jan 2, 2006")
	}

	if !data.IsSelf {
		pv, err := a.friendsSvc.PairView(r.Context(), viewer.ID, profile.ID)
		if err != nil {
			a.logger.Error("webui: load friendship failed", "err", err)
			a.templates.renderError(w, http.StatusInternalServerError, siteTitle, "Could not load the profile.")
			return
		}
		switch pv.State {
		case domain.PairAccepted:
			data.IsFriend = true
		case domain.PairPendingOutgoing:
			data.RequestPending = true
			data.RequestFromMe = true
			data.PendingEdgeID = pv.EdgeID
		case domain.PairPendingIncoming:
			data.RequestPending = true
			data.PendingEdgeID = pv.EdgeID
		}
	}

	a.templates.renderProfile(w, http.StatusOK, data)
}

func (a *app) handleSettingsGet(w http.ResponseWriter, r *http.Request) {
	u, _, _ := a.currentUser(r)

	data := settingsViewData{
		pageData: a.page(r, "Settings", u),
		Form: domain.ProfileUpdate{
			Username:    u.Username,
			Email:       u.Email,
			Gender:      u.Gender,
			Job:         u.Job,
			Home:        u.Home,
			LastStudies: u.LastStudies,
		},
		Fields: map[string]string{},
	}
	if u.DOB != nil {
		data.DOB = u.DOB.Format("2006-01-02")
	}
	a.templates.renderSettings(w, http.StatusOK, data)
}

func (a *app) handleSettingsPost(w http.ResponseWriter, r *http.Request) {
	u, _, _ := a.currentUser(r)

	const maxUploadSize = 8 << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		a.renderSettingsError(w, r, u, domain.ProfileUpdate{}, "", map[string]string{"picture": "file is too large"})
		return
	}

	upd := domain.ProfileUpdate{
		Username:    r.FormValue("username"),
		Email:       r.FormValue("email"),
		Gender:      r.FormValue("gender"),
		Job:         r.FormValue("job"),
		Home:        r.FormValue("home"),
		LastStudies: r.FormValue("last_studies"),
	}
	dobRaw := r.FormValue("dob")
	if dobRaw != "" {
		d, err := time.Parse("2006-01-02", dobRaw)
		if err != nil {
			a.renderSettingsError(w, r, u, upd, dobRaw, map[string]string{"dob": "must be YYYY-MM-DD"})
			return
		}
		upd.DOB = &d
	}

	updated, err := a.profileSvc.Update(r.Context(), u.ID, upd)
	if err != nil {
		var verr *domain.ValidationError
		switch {
		case errors.As(err, &verr):
			a.renderSettingsError(w, r, u, upd, dobRaw, verr.Fields)
		case errors.Is(err, domain.ErrEmailTaken):
			a.renderSettingsError(w, r, u, upd, dobRaw, map[string]string{"email": "already in use"})
		default:
			a.logger.Error("webui: update profile failed", "err", err)
			a.templates.renderError(w, http.StatusInternalServerError, siteTitle, "Could not save your settings.")
		}
		return
	}

	if file, _, err := r.FormFile("picture"); err == nil {
		defer file.Close()
		filename, err := a.profileImages.SaveThumbnail(file, imaging.ProfileMaxDim)
		if err != nil {
			a.renderSettingsError(w, r, updated, upd, dobRaw, map[string]string{"picture": "must be a valid image file"})
			return
		}
		old := updated.ImageFile
		if err := a.profileSvc.SetImage(r.Context(), u.ID, filename); err != nil {
			a.profileImages.Remove(filename)
			a.logger.Error("webui: set profile image failed", "err", err)
			a.templates.renderError(w, http.StatusInternalServerError, siteTitle, "Could not save your picture.")
			return
		}
		if old != "" {
			a.profileImages.Remove(old)
		}
	}

	http.Redirect(w, r, "/profile/"+u.ID, http.StatusFound)
}

func (a *app) renderSettingsError(w http.ResponseWriter, r *http.Request, u domain.User, form domain.ProfileUpdate, dob string, fields map[string]string) {
	data := settingsViewData{
		pageData: a.page(r, "Settings", u),
		Form:     form,
		DOB:      dob,
		Fields:   fields,
	}
	data.Error = "Please fix the highlighted fields."
	a.templates.renderSettings(w, http.StatusBadRequest, data)
}
