package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"emotionix.ai/emotionix/internal/auth"
	"emotionix.ai/emotionix/internal/core"
	"emotionix.ai/emotionix/internal/extract"
)

const (
	multipartMemory = 8 << 20
	maxJSONBytes    = 1 << 20
)

type APIHandler struct {
	chatService    *core.ChatService
	userService    *core.UserService
	sessions       *auth.Sessions
	pages          *template.Template
	logger         *zap.Logger
	maxUploadBytes int64
}

func NewAPIHandler(cs *core.ChatService, us *core.UserService, sessions *auth.Sessions, logger *zap.Logger, maxUploadBytes int64) (*APIHandler, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	return &APIHandler{
		chatService:    cs,
		userService:    us,
		sessions:       sessions,
		pages:          pages,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// decodeJSON reads a size-limited JSON body into v and writes the error
// response itself when it fails.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// looseString accepts a JSON string, number or null. Clients send grade as
// either "9" or 9.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = looseString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*s = looseString(num.String())
	return nil
}

type ChatRequest struct {
	ChatID  string      `json:"chat_id"`
	Prompt  string      `json:"prompt"`
	Emotion string      `json:"emotion"`
	AIMode  string      `json:"ai_mode"`
	Board   looseString `json:"board"`
	Grade   looseString `json:"grade"`
}

func (h *APIHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	var req ChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ChatID == "" || strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "missing chat_id or prompt")
		return
	}

	answer, err := h.chatService.PostMessage(r.Context(), user.ID, core.PostMessageInput{
		ChatID:  req.ChatID,
		Prompt:  req.Prompt,
		Emotion: req.Emotion,
		Mode:    req.AIMode,
		Board:   string(req.Board),
		Grade:   string(req.Grade),
	})
	if err != nil {
		switch {
		case errors.Is(err, core.ErrChatNotFound):
			writeError(w, http.StatusNotFound, "chat not found")
		case errors.Is(err, core.ErrUnknownMode):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, core.ErrMissingInput):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Error posting message", zap.Int64("user_id", user.ID), zap.String("chat_id", req.ChatID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to post message")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

// GenerateExamHandler accepts multipart or urlencoded forms. An uploaded file
// takes precedence over the text field when it yields any text.
func (h *APIHandler) GenerateExamHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}

	count := core.DefaultQuestionCount
	if raw := strings.TrimSpace(r.FormValue("num_questions")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "num_questions must be a positive integer")
			return
		}
		count = n
	}

	text := r.FormValue("text")
	if file, header, err := r.FormFile("file"); err == nil {
		defer file.Close()
		extracted, err := extract.Extract(header.Filename, header.Header.Get("Content-Type"), file)
		switch {
		case err == nil:
			text = extracted
		case errors.Is(err, extract.ErrNoContent):
		default:
			h.logger.Warn("Failed to extract uploaded file", zap.String("filename", header.Filename), zap.Error(err))
		}
	}

	source, err := extract.Finalize(text)
	if err != nil {
		writeError(w, http.StatusBadRequest, extract.ErrNoContent.Error())
		return
	}

	exam := h.chatService.GenerateExam(r.Context(), core.ExamInput{
		Topic:  r.FormValue("topic"),
		Count:  count,
		Source: source,
	})
	writeJSON(w, http.StatusOK, map[string]string{"exam": exam})
}

type AlphaStudyRequest struct {
	Board   looseString `json:"board"`
	Grade   looseString `json:"grade"`
	Prompt  string      `json:"prompt"`
	Emotion string      `json:"emotion"`
}

func (h *APIHandler) AlphaStudyHandler(w http.ResponseWriter, r *http.Request) {
	var req AlphaStudyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "missing prompt")
		return
	}

	answer, err := h.chatService.AlphaStudy(r.Context(), core.StudyInput{
		Board:   string(req.Board),
		Grade:   string(req.Grade),
		Prompt:  req.Prompt,
		Emotion: req.Emotion,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}
