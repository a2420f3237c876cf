package webui

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"friendfeed/internal/domain"
)

func (a *app) handleSearchPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		a.templates.renderError(w, http.StatusBadRequest, siteTitle, "Invalid form")
		return
	}

	q := strings.TrimSpace(r.FormValue("username"))
	http.Redirect(w, r, "/search/"+url.PathEscape(q), http.StatusFound)
}

func (a *app) handleSearchGet(w http.ResponseWriter, r *http.Request) {
	u, _, _ := a.currentUser(r)
	q := r.PathValue("username")

	results, err := a.searchSvc.Search(r.Context(), q)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			data := searchViewData{
				pageData: a.page(r, "Search", u),
				Query:    q,
			}
			data.Error = "Search term " + verr.Fields["username"] + "."
			a.templates.renderSearch(w, http.StatusBadRequest, data)
			return
		}
		a.logger.Error("webui: search failed", "err", err)
		a.templates.renderError(w, http.StatusInternalServerError, siteTitle, "Search failed.")
		return
	}

	out := make([]searchResult, 0, len(results))
	for _, s := range results {
		out = append(out, searchResult{
			ID:       s.ID,
			Username: s.Username,
			ImageURL: profileImageURL(s.ImageFile),
		})
	}

	data := searchViewData{
		pageData: a.page(r, "Search", u),
		Query:    q,
		Results:  out,
	}
	a.templates.renderSearch(w, http.StatusOK, data)
}
