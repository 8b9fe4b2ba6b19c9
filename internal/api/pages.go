package api

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"emotionix.ai/emotionix/internal/core"
	"emotionix.ai/emotionix/internal/store"
)

//go:embed templates/*.html
var templatesFS embed.FS

func parsePages() (*template.Template, error) {
	pages, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return pages, nil
}

type pageData struct {
	Title    string
	User     *store.User
	Flash    *Flash
	Chats    []store.Chat
	Chat     *store.Chat
	Messages []store.Message
	Modes    []core.Mode
}

func (h *APIHandler) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	data.Flash = popFlash(w, r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.pages.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("Failed to render page", zap.String("page", name), zap.Error(err))
	}
}

func (h *APIHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "signup.html", pageData{Title: "Sign up"})
}

func (h *APIHandler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		setFlash(w, "danger", "Invalid form")
		http.Redirect(w, r, "/signup", http.StatusFound)
		return
	}

	user, err := h.userService.Signup(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		switch {
		case errors.Is(err, core.ErrMissingCredentials):
			setFlash(w, "danger", "Username and password required")
		case errors.Is(err, core.ErrUsernameTaken):
			setFlash(w, "danger", "Username already exists")
		default:
			h.logger.Error("Error creating user", zap.Error(err))
			setFlash(w, "danger", "Failed to create account")
		}
		http.Redirect(w, r, "/signup", http.StatusFound)
		return
	}

	if err := h.startSession(w, user); err != nil {
		h.logger.Error("Error starting session", zap.Int64("user_id", user.ID), zap.Error(err))
		setFlash(w, "danger", "Account created, please log in")
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	setFlash(w, "success", "Account created")
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *APIHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login.html", pageData{Title: "Log in"})
}

func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		setFlash(w, "danger", "Invalid form")
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	user, err := h.userService.Authenticate(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		if !errors.Is(err, core.ErrInvalidCredentials) {
			h.logger.Error("Error authenticating user", zap.Error(err))
		}
		setFlash(w, "danger", "Invalid credentials")
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	if err := h.startSession(w, user); err != nil {
		h.logger.Error("Error starting session", zap.Int64("user_id", user.ID), zap.Error(err))
		setFlash(w, "danger", "Failed to start session")
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	setFlash(w, "success", "Logged in")
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *APIHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	endSession(w)
	setFlash(w, "info", "Logged out")
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *APIHandler) IndexPage(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	chats, err := h.chatService.GetChats(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("Error listing chats", zap.Int64("user_id", user.ID), zap.Error(err))
		http.Error(w, "Failed to list chats", http.StatusInternalServerError)
		return
	}
	h.render(w, r, "dashboard.html", pageData{Title: "Your chats", User: user, Chats: chats, Modes: core.Modes})
}

func (h *APIHandler) NewChatHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if err := r.ParseForm(); err != nil {
		setFlash(w, "danger", "Invalid form")
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	mode, err := core.ParseMode(r.PostFormValue("ai_mode"))
	if err != nil {
		setFlash(w, "danger", "Unknown AI mode")
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	chat, err := h.chatService.CreateChat(r.Context(), user.ID, r.PostFormValue("title"), mode)
	if err != nil {
		h.logger.Error("Error creating chat", zap.Int64("user_id", user.ID), zap.Error(err))
		http.Error(w, "Failed to create chat", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/chats/"+chat.ID, http.StatusFound)
}

func (h *APIHandler) ViewChatPage(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	chatID := chi.URLParam(r, "chatID")

	chat, messages, err := h.chatService.GetChatDetails(r.Context(), chatID, user.ID)
	if err != nil {
		if errors.Is(err, core.ErrChatNotFound) {
			http.NotFound(w, r)
			return
		}
		h.logger.Error("Error getting chat details", zap.Int64("user_id", user.ID), zap.String("chat_id", chatID), zap.Error(err))
		http.Error(w, "Failed to get chat details", http.StatusInternalServerError)
		return
	}
	h.render(w, r, "chat.html", pageData{Title: chat.Title, User: user, Chat: chat, Messages: messages})
}
