package usecase

import (
	"context"
	"fmt"

	social "go-huddle/internal/pkg/social/domain"
	repository "go-huddle/internal/pkg/social/persistence/repository/port"
)

type SendFriendRequestInput struct {
	SenderID   int64
	ReceiverID int64
}

// SendFriendRequestResult carries what the receiver-side notification
// payload needs.
type SendFriendRequestResult struct {
	Request    social.FriendRequest
	SenderName string
}

// SendFriendRequestUseCase creates a pending request. At most one pending
// request may exist between an unordered pair, and users already connected
// cannot re-request; both rules are enforced here, not by the schema.
type SendFriendRequestUseCase struct {
	Repo  repository.SocialRepository
	Names *NameResolver
}

func NewSendFriendRequestUseCase(repo repository.SocialRepository, names *NameResolver) *SendFriendRequestUseCase {
	return &SendFriendRequestUseCase{Repo: repo, Names: names}
}

func (uc *SendFriendRequestUseCase) Execute(ctx context.Context, in SendFriendRequestInput) (*SendFriendRequestResult, error) {
	if in.SenderID == in.ReceiverID {
		return nil, social.ErrSelfRequest
	}

	pending, err := uc.Repo.PendingRequestBetween(ctx, in.SenderID, in.ReceiverID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if pending {
		return nil, social.ErrDuplicateRequest
	}

	connected, err := uc.Repo.ChatEntryExists(ctx, in.SenderID, in.ReceiverID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if connected {
		return nil, social.ErrAlreadyConnected
	}

	senderName, err := uc.Names.Resolve(ctx, in.SenderID)
	if err != nil {
		return nil, err
	}

	saved, err := uc.Repo.SaveFriendRequest(ctx, social.FriendRequest{
		SenderID:   in.SenderID,
		ReceiverID: in.ReceiverID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return &SendFriendRequestResult{Request: *saved, SenderName: senderName}, nil
}
