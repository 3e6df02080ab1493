package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	cacheport "go-huddle/internal/infrastructure/cache/port"
	"go-huddle/internal/infrastructure/realtime"
	"go-huddle/internal/infrastructure/token"
	"go-huddle/internal/pkg/social/application/usecase"
	social "go-huddle/internal/pkg/social/domain"
	repoAdapter "go-huddle/internal/pkg/social/persistence/repository/adapter"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// SocialSocketController owns the websocket endpoint: it authenticates the
// handshake, tracks presence, and dispatches every inbound event through the
// matching use case.
//
// Failure policy: malformed payloads, failed authorization and store errors
// all drop the event with no reply. Clients treat a non-response as failure;
// only the log sees why.
type SocialSocketController struct {
	router   *realtime.Router
	emitter  *realtime.Emitter
	presence *realtime.Presence
	tokens   *token.Validator
	log      *zap.Logger

	joinChatUC       *usecase.JoinChatUseCase
	sendMessageUC    *usecase.SendMessageUseCase
	editMessageUC    *usecase.EditMessageUseCase
	deleteMessageUC  *usecase.DeleteMessageUseCase
	sendRequestUC    *usecase.SendFriendRequestUseCase
	respondRequestUC *usecase.RespondFriendRequestUseCase
	pinChatUC        *usecase.PinChatUseCase
	toggleFavoriteUC *usecase.ToggleFavoriteUseCase
	markOfflineUC    *usecase.MarkOfflineUseCase
}

func NewSocialSocketController(
	pool *pgxpool.Pool,
	cache cacheport.Cache,
	router *realtime.Router,
	presence *realtime.Presence,
	tokens *token.Validator,
	cipher usecase.Cipher,
	log *zap.Logger,
) *SocialSocketController {
	repo := repoAdapter.NewPgSocialRepository(pool)
	names := usecase.NewNameResolver(repo, cache)
	return &SocialSocketController{
		router:           router,
		emitter:          realtime.NewEmitter(router, log),
		presence:         presence,
		tokens:           tokens,
		log:              log,
		joinChatUC:       usecase.NewJoinChatUseCase(repo),
		sendMessageUC:    usecase.NewSendMessageUseCase(repo, cipher),
		editMessageUC:    usecase.NewEditMessageUseCase(repo, cipher),
		deleteMessageUC:  usecase.NewDeleteMessageUseCase(repo),
		sendRequestUC:    usecase.NewSendFriendRequestUseCase(repo, names),
		respondRequestUC: usecase.NewRespondFriendRequestUseCase(repo, names),
		pinChatUC:        usecase.NewPinChatUseCase(repo),
		toggleFavoriteUC: usecase.NewToggleFavoriteUseCase(repo),
		markOfflineUC:    usecase.NewMarkOfflineUseCase(repo),
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Token auth gates the connection; origin is not the trust boundary.
		return true
	},
}

// inboundEvent is the union of every event's fields; the Event field picks
// the handler and each handler checks its own required subset. Pointer
// fields distinguish absent from zero.
type inboundEvent struct {
	Event string `json:"event"`
	Token string `json:"token"`

	OtherID     *int64  `json:"other_id,omitempty"`
	ToID        *int64  `json:"to_id,omitempty"`
	IsTyping    *bool   `json:"is_typing,omitempty"`
	To          *int64  `json:"to,omitempty"`
	Content     string  `json:"content,omitempty"`
	MediaURL    *string `json:"media_url,omitempty"`
	MediaType   *string `json:"media_type,omitempty"`
	ReceiverID  *int64  `json:"receiver_id,omitempty"`
	RequestID   *int64  `json:"request_id,omitempty"`
	Action      string  `json:"action,omitempty"`
	MessageID   *int64  `json:"message_id,omitempty"`
	NewContent  string  `json:"new_content,omitempty"`
	OtherUserID *int64  `json:"other_user_id,omitempty"`
	Pin         *bool   `json:"pin,omitempty"`
	Favorite    *bool   `json:"favorite,omitempty"`
}

const defaultReadTimeout = 60 * time.Second

// Handle upgrades the connection and processes events until the client
// disconnects.
//
// The handshake token comes from the Authorization bearer header, falling
// back to the "token" query parameter. Rejection happens before the upgrade
// completes, so an unauthenticated client never holds a socket.
func (ctl *SocialSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		handshakeToken := bearerToken(c.GetHeader("Authorization"))
		if handshakeToken == "" {
			handshakeToken = c.Query("token")
		}
		userID, err := ctl.tokens.Validate(handshakeToken)
		if err != nil {
			ctl.log.Debug("socket auth refused", zap.Error(err))
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; just log and return.
			ctl.log.Debug("ws upgrade failed", zap.Error(err))
			return
		}

		conn := realtime.NewConnection(userID, c.Query("token"), ws)
		ctl.router.Attach(conn)
		defer func() {
			ctl.router.Detach(conn)
			ctl.handleDisconnect(conn)
			conn.Close(websocket.CloseNormalClosure, "session closed")
		}()

		ctl.presence.Connected(userID)
		ctl.router.Join(realtime.InboxRoom(userID), conn)
		ctl.emitter.All(presenceUpdatePayload{
			Event:  "presence_update",
			UserID: userID,
			Online: true,
		})
		ctl.log.Info("socket connected", zap.Int64("user_id", userID), zap.String("session", conn.ID))

		ws.SetReadLimit(1 << 20)
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) &&
					!errors.Is(err, websocket.ErrCloseSent) {
					ctl.log.Debug("socket read error", zap.Int64("user_id", userID), zap.Error(err))
				}
				return
			}

			var ev inboundEvent
			if err := json.Unmarshal(data, &ev); err != nil {
				ctl.log.Debug("malformed event payload", zap.Int64("user_id", userID))
				continue
			}
			ctl.dispatch(conn, ev)
		}
	}
}

// dispatch re-validates the event's own token and routes to the handler.
// Authorization is stateless per event: there is no per-connection identity
// cache, so connections that outlive token issuance lose access on the next
// event without any revocation machinery.
func (ctl *SocialSocketController) dispatch(conn *realtime.Connection, ev inboundEvent) {
	userID, err := ctl.tokens.Validate(ev.Token)
	if err != nil {
		ctl.log.Debug("event token rejected", zap.String("event", ev.Event), zap.Error(err))
		return
	}

	// In-flight handlers run to completion even if the connection drops;
	// the store round-trip is never tied to the socket's lifetime.
	ctx := context.Background()

	switch ev.Event {
	case "join_chat":
		err = ctl.handleJoinChat(ctx, conn, userID, ev)
	case "typing":
		err = ctl.handleTyping(userID, ev)
	case "send_message":
		err = ctl.handleSendMessage(ctx, userID, ev)
	case "send_friend_request":
		err = ctl.handleSendFriendRequest(ctx, userID, ev)
	case "respond_friend_request":
		err = ctl.handleRespondFriendRequest(ctx, userID, ev)
	case "edit_message":
		err = ctl.handleEditMessage(ctx, userID, ev)
	case "delete_message":
		err = ctl.handleDeleteMessage(ctx, userID, ev)
	case "pin_chat":
		err = ctl.handlePinChat(ctx, userID, ev)
	case "toggle_favorite":
		err = ctl.handleToggleFavorite(ctx, userID, ev)
	default:
		ctl.log.Debug("unknown event", zap.String("event", ev.Event), zap.Int64("user_id", userID))
		return
	}

	if err != nil {
		ctl.logDropped(ev.Event, userID, err)
	}
}

var errMissingField = errors.New("missing required field")

func (ctl *SocialSocketController) handleJoinChat(ctx context.Context, conn *realtime.Connection, userID int64, ev inboundEvent) error {
	if ev.OtherID == nil {
		return errMissingField
	}
	if err := ctl.joinChatUC.Execute(ctx, userID, *ev.OtherID); err != nil {
		return err
	}
	ctl.router.Join(realtime.PairRoom(userID, *ev.OtherID), conn)
	return nil
}

func (ctl *SocialSocketController) handleTyping(userID int64, ev inboundEvent) error {
	if ev.ToID == nil || ev.IsTyping == nil {
		return errMissingField
	}
	ctl.emitter.Room(realtime.PairRoom(userID, *ev.ToID), typingPayload{
		Event:    "typing",
		FromID:   userID,
		ToID:     *ev.ToID,
		IsTyping: *ev.IsTyping,
	})
	return nil
}

func (ctl *SocialSocketController) handleSendMessage(ctx context.Context, userID int64, ev inboundEvent) error {
	if ev.To == nil {
		return errMissingField
	}
	msg, err := ctl.sendMessageUC.Execute(ctx, usecase.SendMessageInput{
		SenderID:   userID,
		ReceiverID: *ev.To,
		Content:    ev.Content,
		MediaURL:   ev.MediaURL,
		MediaType:  ev.MediaType,
	})
	if err != nil {
		return err
	}

	ctl.emitter.Room(realtime.PairRoom(userID, msg.ReceiverID), newMessagePayload{
		Event:      "new_message",
		ID:         msg.ID,
		SenderID:   msg.SenderID,
		ReceiverID: msg.ReceiverID,
		Content:    msg.Content,
		Timestamp:  msg.Timestamp.UTC().Format(time.RFC3339),
		MediaURL:   msg.MediaURL,
		MediaType:  msg.MediaType,
	})
	return nil
}

func (ctl *SocialSocketController) handleSendFriendRequest(ctx context.Context, userID int64, ev inboundEvent) error {
	if ev.ReceiverID == nil {
		return errMissingField
	}
	res, err := ctl.sendRequestUC.Execute(ctx, usecase.SendFriendRequestInput{
		SenderID:   userID,
		ReceiverID: *ev.ReceiverID,
	})
	if err != nil {
		return err
	}

	ctl.emitter.Room(realtime.InboxRoom(res.Request.ReceiverID), friendRequestPayload{
		Event:      "notification",
		ID:         res.Request.ID,
		SenderID:   userID,
		SenderName: res.SenderName,
		Timestamp:  res.Request.Timestamp.UTC().Format(time.RFC3339),
		Type:       "friend_request",
	})
	ctl.emitter.Room(realtime.InboxRoom(userID), requestSentPayload{
		Event:      "request_sent",
		ReceiverID: res.Request.ReceiverID,
	})
	return nil
}

func (ctl *SocialSocketController) handleRespondFriendRequest(ctx context.Context, userID int64, ev inboundEvent) error {
	if ev.RequestID == nil || ev.Action == "" {
		return errMissingField
	}
	res, err := ctl.respondRequestUC.Execute(ctx, usecase.RespondFriendRequestInput{
		UserID:    userID,
		RequestID: *ev.RequestID,
		Action:    ev.Action,
	})
	if err != nil {
		return err
	}

	senderInbox := realtime.InboxRoom(res.Request.SenderID)
	myInbox := realtime.InboxRoom(userID)

	if res.Accepted {
		connection := chatListUpdatePayload{
			Event:     "chat_list_update",
			UserID:    userID,
			UserName:  res.ReceiverName,
			OtherID:   res.Request.SenderID,
			OtherName: res.SenderName,
			Type:      "connection_success",
		}
		ctl.emitter.Room(senderInbox, connection)
		ctl.emitter.Room(myInbox, connection)
	}

	ctl.emitter.Room(senderInbox, requestResolutionPayload{
		Event:      "notification",
		ID:         res.SenderNote.ID,
		Action:     ev.Action,
		SenderID:   userID,
		SenderName: res.ReceiverName,
		Type:       string(social.NotificationRequestResponse),
		Timestamp:  res.SenderNote.Timestamp.UTC().Format(time.RFC3339),
	})
	ctl.emitter.Room(myInbox, requestResolutionPayload{
		Event:      "notification",
		ID:         res.ReceiverNote.ID,
		Action:     ev.Action,
		SenderID:   res.Request.SenderID,
		SenderName: res.SenderName,
		Type:       string(social.NotificationRequestResolved),
		Timestamp:  res.ReceiverNote.Timestamp.UTC().Format(time.RFC3339),
	})
	return nil
}

func (ctl *SocialSocketController) handleEditMessage(ctx context.Context, userID int64, ev inboundEvent) error {
	if ev.MessageID == nil {
		return errMissingField
	}
	msg, err := ctl.editMessageUC.Execute(ctx, usecase.EditMessageInput{
		UserID:     userID,
		MessageID:  *ev.MessageID,
		NewContent: ev.NewContent,
	})
	if err != nil {
		return err
	}

	ctl.emitter.Room(realtime.PairRoom(msg.SenderID, msg.ReceiverID), messageEditedPayload{
		Event:      "message_edited",
		MessageID:  msg.ID,
		NewContent: msg.Content,
		IsEdited:   true,
	})
	return nil
}

func (ctl *SocialSocketController) handleDeleteMessage(ctx context.Context, userID int64, ev inboundEvent) error {
	if ev.MessageID == nil || ev.Action == "" {
		return errMissingField
	}
	res, err := ctl.deleteMessageUC.Execute(ctx, usecase.DeleteMessageInput{
		UserID:    userID,
		MessageID: *ev.MessageID,
		Action:    ev.Action,
	})
	if err != nil {
		return err
	}

	payload := messageDeletedPayload{
		Event:     "message_deleted",
		MessageID: res.Message.ID,
		Action:    ev.Action,
	}
	if res.Everyone {
		ctl.emitter.Room(realtime.PairRoom(res.Message.SenderID, res.Message.ReceiverID), payload)
	} else {
		ctl.emitter.Room(realtime.InboxRoom(userID), payload)
	}
	return nil
}

func (ctl *SocialSocketController) handlePinChat(ctx context.Context, userID int64, ev inboundEvent) error {
	if ev.OtherUserID == nil {
		return errMissingField
	}
	pin := true
	if ev.Pin != nil {
		pin = *ev.Pin
	}
	pins, err := ctl.pinChatUC.Execute(ctx, usecase.PinChatInput{
		UserID:      userID,
		OtherUserID: *ev.OtherUserID,
		Pin:         pin,
	})
	if err != nil {
		return err
	}

	ctl.emitter.Room(realtime.InboxRoom(userID), chatPinsUpdatedPayload{
		Event: "chat_pins_updated",
		Pins:  pins,
	})
	return nil
}

func (ctl *SocialSocketController) handleToggleFavorite(ctx context.Context, userID int64, ev inboundEvent) error {
	if ev.OtherUserID == nil || ev.Favorite == nil {
		return errMissingField
	}
	err := ctl.toggleFavoriteUC.Execute(ctx, usecase.ToggleFavoriteInput{
		UserID:      userID,
		OtherUserID: *ev.OtherUserID,
		Favorite:    *ev.Favorite,
	})
	if err != nil {
		return err
	}

	ctl.emitter.Room(realtime.InboxRoom(userID), favoritesUpdatedPayload{
		Event:  "favorites_updated",
		UserID: userID,
		Favorites: []favoriteEntry{
			{OtherUserID: *ev.OtherUserID, IsFavorite: *ev.Favorite},
		},
	})
	return nil
}

// handleDisconnect re-reads the token captured from the upgrade request's
// query string. When it is absent or no longer valid, presence and
// last_seen stay untouched and the user appears online until a later event
// corrects it; see Connection.QueryToken.
func (ctl *SocialSocketController) handleDisconnect(conn *realtime.Connection) {
	userID, err := ctl.tokens.Validate(conn.QueryToken)
	if err != nil {
		ctl.log.Debug("disconnect without usable query token",
			zap.String("session", conn.ID), zap.Error(err))
		return
	}

	if !ctl.presence.Disconnected(userID) {
		// Another connection keeps the user online.
		return
	}

	lastSeen, err := ctl.markOfflineUC.Execute(context.Background(), userID)
	if err != nil {
		ctl.log.Error("persist last_seen", zap.Int64("user_id", userID), zap.Error(err))
		return
	}

	ts := lastSeen.Format(time.RFC3339)
	ctl.emitter.All(presenceUpdatePayload{
		Event:    "presence_update",
		UserID:   userID,
		Online:   false,
		LastSeen: &ts,
	})
	ctl.log.Info("socket disconnected", zap.Int64("user_id", userID))
}

func (ctl *SocialSocketController) logDropped(event string, userID int64, err error) {
	if errors.Is(err, usecase.ErrPersistence) {
		ctl.log.Error("event dropped on store failure",
			zap.String("event", event), zap.Int64("user_id", userID), zap.Error(err))
		return
	}
	ctl.log.Debug("event dropped",
		zap.String("event", event), zap.Int64("user_id", userID), zap.Error(err))
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if strings.HasPrefix(header, prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
