package webui

import (
	"fmt"
	"html/template"
	"net/http"

	"friendfeed/internal/domain"
)

type templates struct {
	login    *template.Template
	register *template.Template
	posts    *template.Template
	profile  *template.Template
	settings *template.Template
	search   *template.Template
	requests *template.Template
	errorT   *template.Template
}

type viewData struct {
	Title  string
	Error  string
	Notice string
}

type loginViewData struct {
	Title  string
	Email  string
	Error  string
	Notice string
}

type registerViewData struct {
	Title    string
	Email    string
	Username string
	Error    string
}

// pageData carries the pieces the layout shows on every signed-in page:
// the viewer and the pending-request badge.
type pageData struct {
	Title        string
	User         domain.User
	UserImageURL string
	RequestCount int
	Error        string
	Notice       string
}

type postCard struct {
	ID             string
	Content        string
	ImageURL       string
	AuthorID       string
	AuthorName     string
	AuthorImageURL string
	CreatedAt      string
	Mine           bool
}

type postsViewData struct {
	pageData
	Posts []postCard
}

type profileViewData struct {
	pageData
	Profile        domain.User
	ProfileImage   string
	DOB            string
	Posts          []postCard
	IsSelf         bool
	IsFriend       bool
	RequestPending bool
	RequestFromMe  bool
	PendingEdgeID  string
}

type settingsViewData struct {
	pageData
	Form   domain.ProfileUpdate
	DOB    string
	Fields map[string]string
}

type searchViewData struct {
	pageData
	Query   string
	Results []searchResult
}

type searchResult struct {
	ID       string
	Username string
	ImageURL string
}

type requestsViewData struct {
	pageData
	Requests []requestCard
}

type requestCard struct {
	EdgeID   string
	UserID   string
	Username string
	ImageURL string
	Since    string
}

func parseTemplates() (*templates, error) {
	parse := func(files ...string) (*template.Template, error) {
		return template.New("base").ParseFS(assets, files...)
	}

	login, err := parse("templates/login.html")
	if err != nil {
		return nil, fmt.Errorf("parse login: %w", err)
	}
	register, err := parse("templates/register.html")
	if err != nil {
		return nil, fmt.Errorf("parse register: %w", err)
	}
	posts, err := parse("templates/layout.html", "templates/posts.html")
	if err != nil {
		return nil, fmt.Errorf("parse posts: %w", err)
	}
	profile, err := parse("templates/layout.html", "templates/profile.html")
	if err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	settings, err := parse("templates/layout.html", "templates/settings.html")
	if err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	search, err := parse("templates/layout.html", "templates/search.html")
	if err != nil {
		return nil, fmt.Errorf("parse search: %w", err)
	}
	requests, err := parse("templates/layout.html", "templates/friend_requests.html")
	if err != nil {
		return nil, fmt.Errorf("parse friend_requests: %w", err)
	}
	errorT, err := parse("templates/error.html")
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	return &templates{
		login:    login,
		register: register,
		posts:    posts,
		profile:  profile,
		settings: settings,
		search:   search,
		requests: requests,
		errorT:   errorT,
	}, nil
}

func render(w http.ResponseWriter, t *template.Template, name string, status int, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = t.ExecuteTemplate(w, name, data)
}

func (t *templates) renderLogin(w http.ResponseWriter, status int, data any) {
	render(w, t.login, "login.html", status, data)
}

func (t *templates) renderRegister(w http.ResponseWriter, status int, data any) {
	render(w, t.register, "register.html", status, data)
}

func (t *templates) renderPosts(w http.ResponseWriter, status int, data any) {
	render(w, t.posts, "posts.html", status, data)
}

func (t *templates) renderProfile(w http.ResponseWriter, status int, data any) {
	render(w, t.profile, "profile.html", status, data)
}

func (t *templates) renderSettings(w http.ResponseWriter, status int, data any) {
	render(w, t.settings, "settings.html", status, data)
}

func (t *templates) renderSearch(w http.ResponseWriter, status int, data any) {
	render(w, t.search, "search.html", status, data)
}

func (t *templates) renderRequests(w http.ResponseWriter, status int, data any) {
	render(w, t.requests, "friend_requests.html", status, data)
}

func (t *templates) renderError(w http.ResponseWriter, status int, title, msg string) {
	render(w, t.errorT, "error.html", status, viewData{Title: title, Error: msg})
}
