package usecase

import (
	"context"
	"fmt"
	"strings"

	social "go-huddle/internal/pkg/social/domain"
	repository "go-huddle/internal/pkg/social/persistence/repository/port"
)

type EditMessageInput struct {
	UserID     int64
	MessageID  int64
	NewContent string
}

// EditMessageUseCase replaces a message body in place. Only the sender may
// edit; the edit flag is set so clients can render the marker.
type EditMessageUseCase struct {
	Repo   repository.SocialRepository
	Cipher Cipher
}

func NewEditMessageUseCase(repo repository.SocialRepository, cipher Cipher) *EditMessageUseCase {
	return &EditMessageUseCase{Repo: repo, Cipher: cipher}
}

// Execute returns the edited message with plaintext NewContent and the edit
// flag set; callers derive the pair room from its sender/receiver ids.
func (uc *EditMessageUseCase) Execute(ctx context.Context, in EditMessageInput) (*social.Message, error) {
	content := strings.TrimSpace(in.NewContent)
	if content == "" {
		return nil, social.ErrEmptyMessage
	}

	msg, err := uc.Repo.GetMessage(ctx, in.MessageID)
	if err != nil {
		if err == social.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if msg.SenderID != in.UserID {
		return nil, social.ErrNotMessageOwner
	}

	ciphertext, err := uc.Cipher.Encrypt(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := uc.Repo.UpdateMessageContent(ctx, msg.ID, ciphertext); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	msg.Content = content
	msg.IsEdited = true
	return msg, nil
}
