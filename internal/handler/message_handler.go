package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Highmoonlander/Smart-Project-Administration-System/internal/middleware"
	"github.com/Highmoonlander/Smart-Project-Administration-System/internal/model"
)

// ChatServiceInterface はメッセージハンドラーが必要とするサービスインターフェース。
type ChatServiceInterface interface {
	SendMessage(ctx context.Context, chatID, senderID, content string) (*model.Message, error)
	ListMessages(ctx context.Context, chatID string) ([]*model.Message, error)
	ListMembers(ctx context.Context, chatID string) ([]*model.User, error)
}

// MessageHandler はチャットメッセージのHTTPハンドラー。
type MessageHandler struct {
	service ChatServiceInterface
}

// NewMessageHandler はMessageHandlerを生成する。
func NewMessageHandler(service ChatServiceInterface) *MessageHandler {
	return &MessageHandler{service: service}
}

// sendMessageRequest はメッセージ送信リクエストのボディ。
type sendMessageRequest struct {
	ChatID  string `json:"chat_id"`
	Content string `json:"content"`
}

// messageResponse はメッセージ情報のAPIレスポンス。
type messageResponse struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chat_id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func toMessageResponse(message *model.Message) messageResponse {
	return messageResponse{
		ID:        message.ID,
		ChatID:    message.ChatID,
		SenderID:  message.SenderID,
		Content:   message.Content,
		CreatedAt: message.CreatedAt,
	}
}

// SendMessage はメッセージ送信を処理する。送信者はチャットのメンバーである必要がある。
// POST /api/messages
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w)
		return
	}

	if req.ChatID == "" || req.Content == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "chat_idとcontentは必須です。",
			Category: "validation",
			Action:   "入力内容を確認してください。",
		})
		return
	}

	message, err := h.service.SendMessage(r.Context(), req.ChatID, userID, req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toMessageResponse(message))
}

// ListChatMessages はチャットのメッセージ一覧を時系列順で返す。
// GET /api/messages/chat/{chatId}
func (h *MessageHandler) ListChatMessages(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatId")

	messages, err := h.service.ListMessages(r.Context(), chatID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	res := make([]messageResponse, 0, len(messages))
	for _, m := range messages {
		res = append(res, toMessageResponse(m))
	}

	writeJSON(w, http.StatusOK, res)
}
