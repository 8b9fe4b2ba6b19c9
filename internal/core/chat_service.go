package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"emotionix.ai/emotionix/internal/store"
)

var (
	ErrChatNotFound = errors.New("chat not found")
	ErrMissingInput = errors.New("missing chat_id or prompt")
)

// Generation settings per call site.
const (
	chatTemperature = 0.7
	chatMaxTokens   = 512
	examTemperature = 0.6
	examMaxTokens   = 1200
)

type ChatService struct {
	dbStore   store.Store
	responder *Responder
	model     string
	logger    *zap.Logger
}

func NewChatService(db store.Store, responder *Responder, model string, logger *zap.Logger) *ChatService {
	return &ChatService{
		dbStore:   db,
		responder: responder,
		model:     model,
		logger:    logger,
	}
}

// CreateChat stores a new chat and seeds it with its system message.
func (s *ChatService) CreateChat(ctx context.Context, userID int64, title string, mode Mode) (*store.Chat, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = fmt.Sprintf("New chat (%s)", mode)
	}

	chat, err := s.dbStore.CreateChat(ctx, userID, title, mode.String())
	if err != nil {
		return nil, fmt.Errorf("failed to create chat in DB: %w", err)
	}

	sysMsg := store.Message{
		ChatID:  chat.ID,
		Role:    store.RoleSystem,
		Content: "AI mode:" + mode.String(),
	}
	if err := s.dbStore.CreateMessage(ctx, &sysMsg); err != nil {
		return nil, fmt.Errorf("failed to seed system message: %w", err)
	}

	s.logger.Info("Chat created", zap.String("chat_id", chat.ID), zap.Int64("user_id", userID), zap.String("mode", mode.String()))
	return chat, nil
}

func (s *ChatService) GetChats(ctx context.Context, userID int64) ([]store.Chat, error) {
	return s.dbStore.GetChatsByUserID(ctx, userID)
}

func (s *ChatService) GetChatDetails(ctx context.Context, chatID string, userID int64) (*store.Chat, []store.Message, error) {
	chat, err := s.getOwnedChat(ctx, chatID, userID)
	if err != nil {
		return nil, nil, err
	}

	messages, err := s.dbStore.GetMessagesByChatID(ctx, chatID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get messages for chat: %w", err)
	}
	return chat, messages, nil
}

type PostMessageInput struct {
	ChatID  string
	Prompt  string
	Emotion string
	// Mode overrides the chat's own mode when set.
	Mode  string
	Board string
	Grade string
}

// PostMessage stores the user's prompt, generates the assistant reply and
// stores that too. The reply is returned even when it came from the fallback.
func (s *ChatService) PostMessage(ctx context.Context, userID int64, in PostMessageInput) (string, error) {
	prompt := strings.TrimSpace(in.Prompt)
	if in.ChatID == "" || prompt == "" {
		return "", ErrMissingInput
	}

	chat, err := s.getOwnedChat(ctx, in.ChatID, userID)
	if err != nil {
		return "", err
	}

	mode, err := s.resolveMode(chat, in.Mode)
	if err != nil {
		return "", err
	}

	history, err := s.dbStore.GetMessagesByChatID(ctx, chat.ID)
	if err != nil {
		return "", fmt.Errorf("failed to load chat history: %w", err)
	}

	userMsg := store.Message{
		ChatID:  chat.ID,
		Role:    store.RoleUser,
		Content: prompt,
	}
	if err := s.dbStore.CreateMessage(ctx, &userMsg); err != nil {
		return "", fmt.Errorf("failed to store user message: %w", err)
	}

	reply := s.responder.Respond(ctx, Request{
		Messages: Assemble(SystemPrompt(mode, in.Emotion, in.Board, in.Grade), history, prompt),
		Params:   Params{Model: s.model, Temperature: chatTemperature, MaxTokens: chatMaxTokens},
		Prompt:   prompt,
		Mode:     mode,
		Emotion:  in.Emotion,
		Board:    in.Board,
		Grade:    in.Grade,
	})

	assistantMsg := store.Message{
		ChatID:  chat.ID,
		Role:    store.RoleAssistant,
		Content: reply.Text,
	}
	if err := s.dbStore.CreateMessage(ctx, &assistantMsg); err != nil {
		return "", fmt.Errorf("failed to store assistant message: %w", err)
	}
	return reply.Text, nil
}

type ExamInput struct {
	Topic  string
	Count  int
	Source string
}

// GenerateExam builds an exam paper from source material.
func (s *ChatService) GenerateExam(ctx context.Context, in ExamInput) string {
	topic := strings.TrimSpace(in.Topic)
	if topic == "" {
		topic = DefaultExamTopic
	}
	count := in.Count
	if count <= 0 {
		count = DefaultQuestionCount
	}

	reply := s.responder.Respond(ctx, Request{
		Messages: []ChatMessage{
			{Role: store.RoleSystem, Content: ExamSystemInstruction},
			{Role: store.RoleUser, Content: ExamPrompt(topic, count, in.Source)},
		},
		Params: Params{Model: s.model, Temperature: examTemperature, MaxTokens: examMaxTokens},
		Prompt: topic,
		Mode:   ModeExam,
	})
	if reply.Fallback {
		return FallbackExam(topic, in.Source)
	}
	return reply.Text
}

type StudyInput struct {
	Board   string
	Grade   string
	Prompt  string
	Emotion string
}

// AlphaStudy answers a single tutor-mode question without touching the store.
func (s *ChatService) AlphaStudy(ctx context.Context, in StudyInput) (string, error) {
	prompt := strings.TrimSpace(in.Prompt)
	if prompt == "" {
		return "", ErrMissingInput
	}

	reply := s.responder.Respond(ctx, Request{
		Messages: Assemble(SystemPrompt(ModeStudy, in.Emotion, in.Board, in.Grade), nil, prompt),
		Params:   Params{Model: s.model, Temperature: chatTemperature, MaxTokens: chatMaxTokens},
		Prompt:   prompt,
		Mode:     ModeStudy,
		Emotion:  in.Emotion,
		Board:    in.Board,
		Grade:    in.Grade,
	})
	return reply.Text, nil
}

func (s *ChatService) getOwnedChat(ctx context.Context, chatID string, userID int64) (*store.Chat, error) {
	chat, err := s.dbStore.GetChatByID(ctx, chatID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, fmt.Errorf("failed to verify chat: %w", err)
	}
	return chat, nil
}

func (s *ChatService) resolveMode(chat *store.Chat, override string) (Mode, error) {
	if strings.TrimSpace(override) != "" {
		return ParseMode(override)
	}
	mode, err := ParseMode(chat.Mode)
	if err != nil {
		s.logger.Warn("Stored chat has an unknown mode, using default",
			zap.String("chat_id", chat.ID), zap.String("mode", chat.Mode))
		return ModeEmotionix, nil
	}
	return mode, nil
}
