package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"emotionix.ai/emotionix/internal/store"
)

const (
	sessionCookie = "session"
	flashCookie   = "flash"
)

type ctxKey string

const userKey ctxKey = "user"

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Category string
	Message  string
}

func setFlash(w http.ResponseWriter, category, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(category + "|" + message),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash returns the pending flash, if any, and clears it.
func popFlash(w http.ResponseWriter, r *http.Request) *Flash {
	cookie, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})

	raw, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return nil
	}
	category, message, ok := strings.Cut(raw, "|")
	if !ok {
		return &Flash{Category: "info", Message: raw}
	}
	return &Flash{Category: category, Message: message}
}

func (h *APIHandler) startSession(w http.ResponseWriter, user *store.User) error {
	token, err := h.sessions.GenerateJWT(user.ID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.sessions.TTL()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func endSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	setFlash(w, "info", "Please log in to access this page.")
	http.Redirect(w, r, "/login", http.StatusFound)
}

func unauthorizedJSON(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusUnauthorized, "login required")
}

// RequireSession loads the user behind the session cookie into the request
// context, or hands the request to onMissing.
func (h *APIHandler) RequireSession(onMissing http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookie)
			if err != nil || cookie.Value == "" {
				onMissing(w, r)
				return
			}

			userID, err := h.sessions.ValidateJWT(cookie.Value)
			if err != nil {
				endSession(w)
				onMissing(w, r)
				return
			}

			user, err := h.userService.GetUser(r.Context(), userID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					endSession(w)
					onMissing(w, r)
					return
				}
				h.logger.Error("Failed to load session user", zap.Int64("user_id", userID), zap.Error(err))
				http.Error(w, "Failed to process user identity", http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// currentUser is only valid behind RequireSession.
func currentUser(r *http.Request) *store.User {
	user, _ := r.Context().Value(userKey).(*store.User)
	return user
}
