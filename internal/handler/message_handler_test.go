package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Highmoonlander/Smart-Project-Administration-System/internal/model"
)

// mockChatService はChatServiceInterfaceのモック実装。
type mockChatService struct {
	sendMessageFn  func(ctx context.Context, chatID, senderID, content string) (*model.Message, error)
	listMessagesFn func(ctx context.Context, chatID string) ([]*model.Message, error)
	listMembersFn  func(ctx context.Context, chatID string) ([]*model.User, error)
}

func (m *mockChatService) SendMessage(ctx context.Context, chatID, senderID, content string) (*model.Message, error) {
	return m.sendMessageFn(ctx, chatID, senderID, content)
}
func (m *mockChatService) ListMessages(ctx context.Context, chatID string) ([]*model.Message, error) {
	return m.listMessagesFn(ctx, chatID)
}
func (m *mockChatService) ListMembers(ctx context.Context, chatID string) ([]*model.User, error) {
	if m.listMembersFn != nil {
		return m.listMembersFn(ctx, chatID)
	}
	return nil, nil
}

func TestMessageHandler_SendMessage_Success(t *testing.T) {
	svc := &mockChatService{
		sendMessageFn: func(ctx context.Context, chatID, senderID, content string) (*model.Message, error) {
			if senderID != "user-1" {
				t.Errorf("senderID = %q, want user-1", senderID)
			}
			return &model.Message{ID: "m1", ChatID: chatID, SenderID: senderID, Content: content}, nil
		},
	}
	h := NewMessageHandler(svc)

	body, _ := json.Marshal(map[string]string{"chat_id": "chat-1", "content": "進捗どうですか"})
	req := httptest.NewRequest(http.MethodPost, "/api/messages", bytes.NewReader(body))
	req = withUserID(req, "user-1")
	w := httptest.NewRecorder()

	h.SendMessage(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", w.Code, http.StatusCreated)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result["content"] != "進捗どうですか" {
		t.Errorf("content = %v", result["content"])
	}
}

func TestMessageHandler_SendMessage_NotMember(t *testing.T) {
	svc := &mockChatService{
		sendMessageFn: func(ctx context.Context, chatID, senderID, content string) (*model.Message, error) {
			return nil, model.NewNotChatMemberError()
		},
	}
	h := NewMessageHandler(svc)

	body, _ := json.Marshal(map[string]string{"chat_id": "chat-1", "content": "hi"})
	req := httptest.NewRequest(http.MethodPost, "/api/messages", bytes.NewReader(body))
	req = withUserID(req, "outsider")
	w := httptest.NewRecorder()

	h.SendMessage(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
	}
}

func TestMessageHandler_ListChatMessages(t *testing.T) {
	svc := &mockChatService{
		listMessagesFn: func(ctx context.Context, chatID string) ([]*model.Message, error) {
			return []*model.Message{
				{ID: "m1", ChatID: chatID, Content: "一件目"},
				{ID: "m2", ChatID: chatID, Content: "二件目"},
			}, nil
		},
	}
	h := NewMessageHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/messages/chat/chat-1", nil)
	req = withUserID(req, "user-1")
	req = withChiURLParam(req, "chatId", "chat-1")
	w := httptest.NewRecorder()

	h.ListChatMessages(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var result []map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(result) != 2 {
		t.Errorf("got %d messages, want 2", len(result))
	}
}
