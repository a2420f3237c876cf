package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"friendfeed/internal/auth"
	"friendfeed/internal/imaging"
	"friendfeed/internal/service"
)

type RouterOpts struct {
	Logger *slog.Logger
	IsProd bool

	DBPing func(context.Context) error

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

	// Web serves everything outside /v1. Nil means plain 404s there.
	Web http.Handler
}

func NewRouter(opts RouterOpts) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	api := &api{
		logger:        logger,
		isProd:        opts.IsProd,
		dbPing:        opts.DBPing,
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
		loginLimiter:  newLoginLimiter(),
	}

	apiMux := http.NewServeMux()

	apiMux.HandleFunc("POST /v1/auth/register", api.handleAuthRegister)
	apiMux.HandleFunc("POST /v1/auth/login", api.handleAuthLogin)
	apiMux.HandleFunc("POST /v1/auth/logout", api.requireAuth(api.handleAuthLogout))

	apiMux.HandleFunc("GET /v1/users/me", api.requireAuth(api.handleUsersMe))
	apiMux.HandleFunc("PATCH /v1/users/me", api.requireAuth(api.handleUsersMeUpdate))
	apiMux.HandleFunc("POST /v1/users/me/picture", api.requireAuth(api.handleUsersMePicture))
	apiMux.HandleFunc("GET /v1/users/search", api.requireAuth(api.handleUsersSearch))
	apiMux.HandleFunc("GET /v1/users/{id}", api.requireAuth(api.handleUsersGet))
	apiMux.HandleFunc("GET /v1/users/{id}/posts", api.requireAuth(api.handleUserPosts))

	apiMux.HandleFunc("GET /v1/posts", api.requireAuth(api.handlePostsFeed))
	apiMux.HandleFunc("POST /v1/posts", api.requireAuth(api.handlePostsCreate))
	apiMux.HandleFunc("DELETE /v1/posts/{id}", api.requireAuth(api.handlePostsDelete))

	apiMux.HandleFunc("GET /v1/friends/requests", api.requireAuth(api.handleFriendRequestsList))
	apiMux.HandleFunc("POST /v1/friends/requests", api.requireAuth(api.handleFriendRequestCreate))
	apiMux.HandleFunc("POST /v1/friends/requests/{id}/accept", api.requireAuth(api.handleFriendRequestAccept))
	apiMux.HandleFunc("POST /v1/friends/requests/{id}/ignore", api.requireAuth(api.handleFriendRequestIgnore))
	apiMux.HandleFunc("DELETE /v1/friends/{id}", api.requireAuth(api.handleFriendRemove))

	apiHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, pattern := apiMux.Handler(r)
		if pattern == "" {
			handleV1NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})

	root := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/v1/") || r.URL.Path == "/v1":
			apiHandler.ServeHTTP(w, r)
		case r.URL.Path == "/healthz":
			api.handleHealthz(w, r)
		case opts.Web != nil:
			opts.Web.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})

	var h http.Handler = root
	h = RequestLogger(logger)(h)
	h = RequestID()(h)
	h = Recoverer(logger, opts.IsProd)(h)
	return h
}

func handleV1NotFound(w http.ResponseWriter, _ *http.Request) {
	WriteError(w, http.StatusNotFound, "not_found", "not found")
}

type api struct {
	logger *slog.Logger
	isProd bool

	dbPing func(context.Context) error

	authSvc       *service.AuthService
	postsSvc      *service.PostsService
	friendsSvc    *service.FriendsService
	profileSvc    *service.ProfileService
	searchSvc     *service.SearchService
	postImages    *imaging.Processor
	profileImages *imaging.Processor
	cookieCodec   auth.CookieCodec
	cookieSecure  bool
	sessionTTL    time.Duration

	loginLimiter *loginLimiter
}

func (a *api) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if a.dbPing != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()
		if err := a.dbPing(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("db down"))
			return
		}
	}

	_, _ = w.Write([]byte("ok"))
}
