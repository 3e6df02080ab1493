package usecase

import (
	"context"
	"fmt"

	social "go-huddle/internal/pkg/social/domain"
	repository "go-huddle/internal/pkg/social/persistence/repository/port"
)

type RespondFriendRequestInput struct {
	UserID    int64 // responder; must be the request receiver
	RequestID int64
	Action    string // accept | reject
}

// RespondFriendRequestResult carries everything the socket layer broadcasts:
// the resolved request, both parties' names and the committed notification
// rows.
type RespondFriendRequestResult struct {
	Request      social.FriendRequest
	Accepted     bool
	SenderName   string // request sender
	ReceiverName string // responder
	SenderNote   social.Notification
	ReceiverNote social.Notification
}

// RespondFriendRequestUseCase resolves a pending request. Accepting creates
// the two chat-list rows (idempotently); either action records a
// notification for each party and deletes the request — all in one store
// transaction.
type RespondFriendRequestUseCase struct {
	Repo  repository.SocialRepository
	Names *NameResolver
}

func NewRespondFriendRequestUseCase(repo repository.SocialRepository, names *NameResolver) *RespondFriendRequestUseCase {
	return &RespondFriendRequestUseCase{Repo: repo, Names: names}
}

func (uc *RespondFriendRequestUseCase) Execute(ctx context.Context, in RespondFriendRequestInput) (*RespondFriendRequestResult, error) {
	if !social.ValidAction(in.Action) {
		return nil, social.ErrUnknownAction
	}

	request, err := uc.Repo.GetFriendRequest(ctx, in.RequestID)
	if err != nil {
		if err == social.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if request.ReceiverID != in.UserID {
		return nil, social.ErrNotRequestReceiver
	}

	senderName, err := uc.Names.Resolve(ctx, request.SenderID)
	if err != nil {
		return nil, err
	}
	receiverName, err := uc.Names.Resolve(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	accepted := in.Action == social.ActionAccept
	verb := "rejected"
	if accepted {
		verb = "accepted"
	}
	requestID := request.ID

	res, err := uc.Repo.ResolveFriendRequest(ctx, repository.ResolveRequestInput{
		Request: *request,
		Accept:  accepted,
		SenderNote: social.Notification{
			UserID:    request.SenderID,
			Type:      social.NotificationRequestResponse,
			Content:   fmt.Sprintf("%s %s your friend request.", receiverName, verb),
			ActorID:   in.UserID,
			RequestID: &requestID,
		},
		ReceiverNote: social.Notification{
			UserID:    in.UserID,
			Type:      social.NotificationRequestResolved,
			Content:   fmt.Sprintf("You %s %s's friend request.", verb, senderName),
			ActorID:   request.SenderID,
			RequestID: &requestID,
		},
	})
	if err != nil {
		if err == social.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return &RespondFriendRequestResult{
		Request:      *request,
		Accepted:     accepted,
		SenderName:   senderName,
		ReceiverName: receiverName,
		SenderNote:   res.SenderNote,
		ReceiverNote: res.ReceiverNote,
	}, nil
}
