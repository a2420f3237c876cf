package webui

import (
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"friendfeed/internal/auth"
	"friendfeed/internal/domain"
	"friendfeed/internal/imaging"
	"friendfeed/internal/service"
)

type Opts struct {
	Logger *slog.Logger

	Auth          *service.AuthService
	Posts         *service.PostsService
	Friends       *service.FriendsService
	Profile       *service.ProfileService
	Search        *service.SearchService
	PostImages    *imaging.Processor
	ProfileImages *imaging.Processor
	CookieCodec   auth.CookieCodec
	CookieSecure  bool
	SessionTTL    time.Duration

	// UploadDir is served read-only under /uploads/.
	UploadDir string
}

func New(opts Opts) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	app := &app{
		logger:        logger,
		authSvc:       opts.Auth,
		postsSvc:      opts.Posts,
		friendsSvc:    opts.Friends,
		profileSvc:    opts.Profile,
		searchSvc:     opts.Search,
		postImages:    opts.PostImages,
		profileImages: opts.ProfileImages,
		cookieCodec:   opts.CookieCodec,
		cookieSecure:  opts.CookieSecure,
		sessionTTL:    opts.SessionTTL,
	}

	t, err := parseTemplates()
	if err != nil {
		logger.Error("webui: parse templates failed", "err", err)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "internal server error", http.StatusInternalServerError)
		})
	}
	app.templates = t

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", app.redirectPosts)
	mux.HandleFunc("GET /login", app.handleLoginGet)
	mux.HandleFunc("POST /login", app.handleLoginPost)
	mux.HandleFunc("GET /register", app.handleRegisterGet)
	mux.HandleFunc("POST /register", app.handleRegisterPost)
	mux.HandleFunc("GET /logout", app.handleLogout)

	mux.HandleFunc("GET /posts", app.requireAuth(app.handlePostsGet))
	mux.HandleFunc("POST /posts", app.requireAuth(app.handlePostsCreate))
	mux.HandleFunc("GET /posts/delete/{id}", app.requireAuth(app.handlePostDelete))

	mux.HandleFunc("GET /profile/{id}", app.requireAuth(app.handleProfile))
	mux.HandleFunc("GET /settings", app.requireAuth(app.handleSettingsGet))
	mux.HandleFunc("POST /settings", app.requireAuth(app.handleSettingsPost))

	mux.HandleFunc("POST /search", app.requireAuth(app.handleSearchPost))
	mux.HandleFunc("GET /search/{username}", app.requireAuth(app.handleSearchGet))

	mux.HandleFunc("GET /friend_requests", app.requireAuth(app.handleFriendRequests))
	mux.HandleFunc("GET /add_friendship/{from}/{to}", app.requireAuth(app.handleAddFriendship))
	mux.HandleFunc("GET /delete_friendship/{from}/{to}", app.requireAuth(app.handleDeleteFriendship))
	mux.HandleFunc("GET /accept_friendship/{id}", app.requireAuth(app.handleAcceptFriendship))
	mux.HandleFunc("GET /ignore_friendship/{id}", app.requireAuth(app.handleIgnoreFriendship))

	staticFS, err := fs.Sub(assets, "static")
	if err != nil {
		logger.Error("webui: static fs setup failed", "err", err)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "internal server error", http.StatusInternalServerError)
		})
	}
	static := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
	mux.Handle("GET /static/", static)
	mux.Handle("HEAD /static/", static)

	if opts.UploadDir != "" {
		uploads := http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadDir)))
		mux.Handle("GET /uploads/", uploads)
		mux.Handle("HEAD /uploads/", uploads)
	}

	return mux
}

type app struct {
	logger *slog.Logger

	authSvc    *service.AuthService
	postsSvc   *service.PostsService
	friendsSvc *service.FriendsService
	profileSvc *service.ProfileService
	searchSvc  *service.SearchService

	postImages    *imaging.Processor
	profileImages *imaging.Processor

	cookieCodec  auth.CookieCodec
	cookieSecure bool
	sessionTTL   time.Duration

	templates *templates
}

func (a *app) redirectPosts(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/posts", http.StatusFound)
}

func (a *app) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, _, ok := a.currentUser(r)
		if !ok {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	}
}

func (a *app) currentUser(r *http.Request) (domain.User, string, bool) {
	if a.authSvc == nil {
		return domain.User{}, "", false
	}
	c, err := r.Cookie(auth.SessionCookieName)
	if err != nil || c.Value == "" {
		return domain.User{}, "", false
	}
	sessID, ok := a.cookieCodec.DecodeSessionID(c.Value)
	if !ok {
		return domain.User{}, "", false
	}
	u, err := a.authSvc.GetUserForSession(r.Context(), sessID)
	if err != nil {
		return domain.User{}, "", false
	}
	return u, sessID, true
}

// page fills the layout chrome for a signed-in user.
func (a *app) page(r *http.Request, title string, u domain.User) pageData {
	count, err := a.friendsSvc.CountIncoming(r.Context(), u.ID)
	if err != nil {
		a.logger.Error("webui: count incoming failed", "err", err)
		count = 0
	}
	return pageData{
		Title:        title,
		User:         u,
		UserImageURL: profileImageURL(u.ImageFile),
		RequestCount: count,
	}
}

func profileImageURL(imageFile string) string {
	if imageFile == "" {
		return "/static/default_profile.svg"
	}
	return "/uploads/profile_pics/" + imageFile
}

func postImageURL(image string) string {
	if image == "" {
		return ""
	}
	return "/uploads/post_pics/" + image
}
