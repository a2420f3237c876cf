package webui

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	return New(Opts{})
}

func TestProtectedPagesRedirectToLogin(t *testing.T) {
	h := newTestHandler(t)

	for _, target := range []string{"/posts", "/settings", "/friend_requests", "/profile/u1", "/search/bob"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		if rr.Code != http.StatusFound {
			t.Fatalf("%s: unexpected status %d", target, rr.Code)
		}
		if loc := rr.Header().Get("Location"); loc != "/login" {
			t.Fatalf("%s: unexpected redirect %q", target, loc)
		}
	}
}

func TestRootRedirectsToPosts(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/posts" {
		t.Fatalf("unexpected response: %d %q", rr.Code, rr.Header().Get("Location"))
	}
}

func TestLoginPageRenders(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Log in") {
		t.Fatalf("login form missing from body")
	}
}

func TestRegisterRejectsBadFormInline(t *testing.T) {
	h := newTestHandler(t)

	form := url.Values{
		"email":            {"not-an-email"},
		"username":         {"x"},
		"password":         {"short"},
		"confirm_password": {"other"},
	}
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{"Email must be valid", "Username must be", "Password must be", "Passwords do not match"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in body", want)
		}
	}
}
