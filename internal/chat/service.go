// Package chat はプロジェクト専属チャットのメッセージ管理を提供する。
package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Highmoonlander/Smart-Project-Administration-System/internal/model"
	"github.com/Highmoonlander/Smart-Project-Administration-System/internal/repository"
)

// Service はチャットのサービス層。
type Service struct {
	chatRepo    repository.ChatRepository
	messageRepo repository.MessageRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(chatRepo repository.ChatRepository, messageRepo repository.MessageRepository) *Service {
	return &Service{
		chatRepo:    chatRepo,
		messageRepo: messageRepo,
	}
}

// GetByID は指定IDのチャットを取得する。
func (s *Service) GetByID(ctx context.Context, chatID string) (*model.Chat, error) {
	chat, err := s.chatRepo.FindByID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("チャットの取得に失敗しました: %w", err)
	}
	if chat == nil {
		return nil, model.NewChatNotFoundError(chatID)
	}
	return chat, nil
}

// SendMessage はチャットにメッセージを追記する。
// 送信者はチャット名簿に属している必要がある。チャット名簿はチーム名簿と
// 常に一致するため、これはプロジェクトのメンバー確認と等価。
func (s *Service) SendMessage(ctx context.Context, chatID, senderID, content string) (*model.Message, error) {
	chat, err := s.chatRepo.FindByID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("チャットの取得に失敗しました: %w", err)
	}
	if chat == nil {
		return nil, model.NewChatNotFoundError(chatID)
	}

	ok, err := s.chatRepo.IsMember(ctx, chatID, senderID)
	if err != nil {
		return nil, fmt.Errorf("チャット名簿の確認に失敗しました: %w", err)
	}
	if !ok {
		return nil, model.NewNotChatMemberError()
	}

	message := &model.Message{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: time.Now(),
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("メッセージの作成に失敗しました: %w", err)
	}

	return message, nil
}

// ListMessages はチャットのメッセージを時系列順で返す。
func (s *Service) ListMessages(ctx context.Context, chatID string) ([]*model.Message, error) {
	chat, err := s.chatRepo.FindByID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("チャットの取得に失敗しました: %w", err)
	}
	if chat == nil {
		return nil, model.NewChatNotFoundError(chatID)
	}

	messages, err := s.messageRepo.ListByChatID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("メッセージ一覧の取得に失敗しました: %w", err)
	}
	return messages, nil
}

// ListMembers はチャットの名簿を返す。
func (s *Service) ListMembers(ctx context.Context, chatID string) ([]*model.User, error) {
	chat, err := s.chatRepo.FindByID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("チャットの取得に失敗しました: %w", err)
	}
	if chat == nil {
		return nil, model.NewChatNotFoundError(chatID)
	}

	members, err := s.chatRepo.ListMembers(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("チャット名簿の取得に失敗しました: %w", err)
	}
	return members, nil
}
