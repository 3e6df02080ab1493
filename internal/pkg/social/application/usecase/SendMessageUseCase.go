package usecase

import (
	"context"
	"fmt"

	social "go-huddle/internal/pkg/social/domain"
	repository "go-huddle/internal/pkg/social/persistence/repository/port"
)

// SendMessageInput carries a direct message from the socket layer. Content
// is plaintext; encryption happens here, after validation.
type SendMessageInput struct {
	SenderID   int64
	ReceiverID int64
	Content    string
	MediaURL   *string
	MediaType  *string
}

// SendMessageUseCase authorizes against the chat list, encrypts and persists
// the message. The returned message carries the generated id with the
// plaintext content, ready for broadcast.
type SendMessageUseCase struct {
	Repo   repository.SocialRepository
	Cipher Cipher
}

func NewSendMessageUseCase(repo repository.SocialRepository, cipher Cipher) *SendMessageUseCase {
	return &SendMessageUseCase{Repo: repo, Cipher: cipher}
}

func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*social.Message, error) {
	ok, err := uc.Repo.ChatEntryExists(ctx, in.SenderID, in.ReceiverID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !ok {
		return nil, social.ErrNotInChatList
	}

	msg, err := social.NewMessage(social.Message{
		SenderID:   in.SenderID,
		ReceiverID: in.ReceiverID,
		Content:    in.Content,
		MediaURL:   in.MediaURL,
		MediaType:  in.MediaType,
	})
	if err != nil {
		return nil, err
	}

	plaintext := msg.Content
	stored := *msg
	if plaintext != "" {
		stored.Content, err = uc.Cipher.Encrypt(plaintext)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}

	id, err := uc.Repo.SaveMessage(ctx, stored)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	msg.ID = id
	return msg, nil
}
