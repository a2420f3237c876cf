package webui

import (
	"errors"
	"net/http"
	"strings"

	"friendfeed/internal/auth"
	"friendfeed/internal/domain"
)

const siteTitle = "FriendFeed"

func (a *app) handleLoginGet(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := a.currentUser(r); ok {
		http.Redirect(w, r, "/posts", http.StatusFound)
		return
	}
	notice := ""
	if r.URL.Query().Get("registered") == "1" {
		notice = "Account created. You can log in now."
	}
	a.templates.renderLogin(w, http.StatusOK, loginViewData{Title: siteTitle, Notice: notice})
}

func (a *app) handleLoginPost(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := a.currentUser(r); ok {
		http.Redirect(w, r, "/posts", http.StatusFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		a.templates.renderLogin(w, http.StatusBadRequest, loginViewData{Title: siteTitle, Error: "Invalid form"})
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	if email == "" || password == "" {
		a.templates.renderLogin(w, http.StatusBadRequest, loginViewData{Title: siteTitle, Email: email, Error: "Email and password are required"})
		return
	}

	_, sessID, err := a.authSvc.Login(r.Context(), email, password, clientIP(r), r.UserAgent())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			a.templates.renderLogin(w, http.StatusUnauthorized, loginViewData{Title: siteTitle, Email: email, Error: "Invalid email or password"})
			return
		}
		a.logger.Error("webui: login failed", "err", err)
		a.templates.renderLogin(w, http.StatusInternalServerError, loginViewData{Title: siteTitle, Email: email, Error: "Login failed"})
		return
	}

	auth.SetSessionCookie(w, a.cookieCodec.EncodeSessionID(sessID), a.sessionTTL, a.cookieSecure)
	http.Redirect(w, r, "/posts", http.StatusFound)
}

func (a *app) handleRegisterGet(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := a.currentUser(r); ok {
		http.Redirect(w, r, "/posts", http.StatusFound)
		return
	}
	a.templates.renderRegister(w, http.StatusOK, registerViewData{Title: "Create Account"})
}

func (a *app) handleRegisterPost(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := a.currentUser(r); ok {
		http.Redirect(w, r, "/posts", http.StatusFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		a.templates.renderRegister(w, http.StatusBadRequest, registerViewData{Title: "Create Account", Error: "Invalid form"})
		return
	}

	email := normalizeEmail(r.FormValue("email"))
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	confirm := r.FormValue("confirm_password")

	var errs []string
	if !validEmail(email) {
		errs = append(errs, "Email must be valid.")
	}
	if !validUsername(username) {
		errs = append(errs, "Username must be 3-24 characters with letters, numbers, or underscore.")
	}
	if len(password) < 8 {
		errs = append(errs, "Password must be at least 8 characters.")
	}
	if confirm != password {
		errs = append(errs, "Passwords do not match.")
	}
	if len(errs) > 0 {
		a.templates.renderRegister(w, http.StatusBadRequest, registerViewData{
			Title:    "Create Account",
			Email:    email,
			Username: username,
			Error:    strings.Join(errs, " "),
		})
		return
	}

	if _, err := a.authSvc.Register(r.Context(), email, username, password); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			a.templates.renderRegister(w, http.StatusBadRequest, registerViewData{
				Title:    "Create Account",
				Email:    email,
				Username: username,
				Error:    "That email is already in use.",
			})
			return
		}
		a.logger.Error("webui: register failed", "err", err)
		a.templates.renderRegister(w, http.StatusInternalServerError, registerViewData{
			Title:    "Create Account",
			Email:    email,
			Username: username,
			Error:    "Registration failed",
		})
		return
	}

	http.Redirect(w, r, "/login?registered=1", http.StatusFound)
}

func (a *app) handleLogout(w http.ResponseWriter, r *http.Request) {
	if _, sessID, ok := a.currentUser(r); ok {
		_ = a.authSvc.Logout(r.Context(), sessID)
	}
	auth.ClearSessionCookie(w, a.cookieSecure)
	http.Redirect(w, r, "/login", http.StatusFound)
}
