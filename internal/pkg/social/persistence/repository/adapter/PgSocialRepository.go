package adapter

import (
	"context"
	"errors"
	"time"

	social "go-huddle/internal/pkg/social/domain"
	repository "go-huddle/internal/pkg/social/persistence/repository/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgSocialRepository implements the social store on PostgreSQL via pgx.
type PgSocialRepository struct {
	pool *pgxpool.Pool
}

func NewPgSocialRepository(pool *pgxpool.Pool) *PgSocialRepository {
	return &PgSocialRepository{pool: pool}
}

var _ repository.SocialRepository = (*PgSocialRepository)(nil)

var errNilPool = errors.New("PgSocialRepository: nil pool")

// ===================== users =====================

func (r *PgSocialRepository) GetUser(ctx context.Context, id int64) (*social.User, error) {
	if r == nil || r.pool == nil {
		return nil, errNilPool
	}
	var u social.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, birthday, last_seen FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Name, &u.Birthday, &u.LastSeen)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, social.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PgSocialRepository) UpdateLastSeen(ctx context.Context, userID int64, at time.Time) error {
	if r == nil || r.pool == nil {
		return errNilPool
	}
	ct, err := r.pool.Exec(ctx,
		`UPDATE users SET last_seen = $2 WHERE id = $1`,
		userID, at,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return social.ErrNotFound
	}
	return nil
}

func (r *PgSocialRepository) ListUserIDsExcept(ctx context.Context, id int64) ([]int64, error) {
	if r == nil || r.pool == nil {
		return nil, errNilPool
	}
	rows, err := r.pool.Query(ctx, `SELECT id FROM users WHERE id <> $1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIDs(rows)
}

func (r *PgSocialRepository) FindBirthdayUsers(ctx context.Context, month time.Month, day int) ([]social.User, error) {
	if r == nil || r.pool == nil {
		return nil, errNilPool
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, birthday, last_seen
		FROM users
		WHERE birthday IS NOT NULL
		  AND EXTRACT(MONTH FROM birthday) = $1
		  AND EXTRACT(DAY FROM birthday) = $2
	`, int(month), day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []social.User
	for rows.Next() {
		var u social.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Birthday, &u.LastSeen); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ===================== chat list =====================

func (r *PgSocialRepository) ChatEntryExists(ctx context.Context, userID, otherID int64) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errNilPool
	}
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_chat_list WHERE user_id = $1 AND other_user_id = $2)`,
		userID, otherID,
	).Scan(&exists)
	return exists, err
}

func (r *PgSocialRepository) SetFavorite(ctx context.Context, userID, otherID int64, favorite bool) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errNilPool
	}
	ct, err := r.pool.Exec(ctx,
		`UPDATE user_chat_list SET is_favorite = $3 WHERE user_id = $1 AND other_user_id = $2`,
		userID, otherID, favorite,
	)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

// PinChat loads the user's ranked entries under a per-user advisory lock,
// applies the rank algorithm in memory and writes back every changed rank,
// all inside one transaction. The lock serializes concurrent pin calls for
// the same user so no client ever observes a half-shifted rank set.
func (r *PgSocialRepository) PinChat(ctx context.Context, userID, otherID int64, pin bool) ([]repository.PinnedChat, error) {
	if r == nil || r.pool == nil {
		return nil, errNilPool
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, userID); err != nil {
		return nil, err
	}

	var entry social.ChatListEntry
	err = tx.QueryRow(ctx, `
		SELECT id, user_id, other_user_id, is_favorite, pin_priority
		FROM user_chat_list
		WHERE user_id = $1 AND other_user_id = $2
		FOR UPDATE
	`, userID, otherID).Scan(&entry.ID, &entry.UserID, &entry.OtherUserID, &entry.IsFavorite, &entry.PinPriority)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, social.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT id, user_id, other_user_id, is_favorite, pin_priority
		FROM user_chat_list
		WHERE user_id = $1 AND pin_priority > 0 AND id <> $2
		ORDER BY pin_priority ASC
		FOR UPDATE
	`, userID, entry.ID)
	if err != nil {
		return nil, err
	}
	pinned := []*social.ChatListEntry{&entry}
	for rows.Next() {
		var e social.ChatListEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.OtherUserID, &e.IsFavorite, &e.PinPriority); err != nil {
			rows.Close()
			return nil, err
		}
		pinned = append(pinned, &e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	before := make(map[int64]int, len(pinned))
	for _, e := range pinned {
		before[e.ID] = e.PinPriority
	}

	if pin {
		social.Pin(&entry, pinned)
	} else {
		social.Unpin(&entry, pinned)
	}

	for _, e := range pinned {
		if e.PinPriority == before[e.ID] {
			continue
		}
		if _, err := tx.Exec(ctx,
			`UPDATE user_chat_list SET pin_priority = $2 WHERE id = $1`,
			e.ID, e.PinPriority,
		); err != nil {
			return nil, err
		}
	}

	resultRows, err := tx.Query(ctx, `
		SELECT other_user_id, pin_priority
		FROM user_chat_list
		WHERE user_id = $1 AND pin_priority > 0
		ORDER BY pin_priority ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	pins := make([]repository.PinnedChat, 0, social.MaxPinned)
	for resultRows.Next() {
		var p repository.PinnedChat
		if err := resultRows.Scan(&p.OtherUserID, &p.PinPriority); err != nil {
			resultRows.Close()
			return nil, err
		}
		pins = append(pins, p)
	}
	resultRows.Close()
	if err := resultRows.Err(); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return pins, nil
}

// ===================== messages =====================

func (r *PgSocialRepository) SaveMessage(ctx context.Context, m social.Message) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, errNilPool
	}
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO messages (sender_id, receiver_id, content, timestamp, media_url, media_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, m.SenderID, m.ReceiverID, m.Content, m.Timestamp, m.MediaURL, m.MediaType).Scan(&id)
	return id, err
}

func (r *PgSocialRepository) GetMessage(ctx context.Context, id int64) (*social.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errNilPool
	}
	var m social.Message
	err := r.pool.QueryRow(ctx, `
		SELECT id, sender_id, receiver_id, content, timestamp, media_url, media_type,
		       is_edited, is_deleted_for_everyone, is_deleted_for_sender, is_deleted_for_recipient
		FROM messages WHERE id = $1
	`, id).Scan(
		&m.ID, &m.SenderID, &m.ReceiverID, &m.Content, &m.Timestamp, &m.MediaURL, &m.MediaType,
		&m.IsEdited, &m.IsDeletedForEveryone, &m.IsDeletedForSender, &m.IsDeletedForRecipient,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, social.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgSocialRepository) UpdateMessageContent(ctx context.Context, id int64, ciphertext string) error {
	if r == nil || r.pool == nil {
		return errNilPool
	}
	ct, err := r.pool.Exec(ctx,
		`UPDATE messages SET content = $2, is_edited = TRUE WHERE id = $1`,
		id, ciphertext,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return social.ErrNotFound
	}
	return nil
}

func (r *PgSocialRepository) MarkMessageDeleted(ctx context.Context, id int64, flag repository.DeleteFlag) error {
	if r == nil || r.pool == nil {
		return errNilPool
	}
	var column string
	switch flag {
	case repository.DeleteForEveryone:
		column = "is_deleted_for_everyone"
	case repository.DeleteForSender:
		column = "is_deleted_for_sender"
	case repository.DeleteForRecipient:
		column = "is_deleted_for_recipient"
	default:
		return social.ErrUnknownAction
	}
	ct, err := r.pool.Exec(ctx,
		`UPDATE messages SET `+column+` = TRUE WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return social.ErrNotFound
	}
	return nil
}

// ===================== friend requests =====================

func (r *PgSocialRepository) PendingRequestBetween(ctx context.Context, a, b int64) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errNilPool
	}
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM friend_requests
			WHERE (sender_id = $1 AND receiver_id = $2)
			   OR (sender_id = $2 AND receiver_id = $1)
		)
	`, a, b).Scan(&exists)
	return exists, err
}

func (r *PgSocialRepository) SaveFriendRequest(ctx context.Context, fr social.FriendRequest) (*social.FriendRequest, error) {
	if r == nil || r.pool == nil {
		return nil, errNilPool
	}
	if fr.Timestamp.IsZero() {
		fr.Timestamp = time.Now().UTC()
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO friend_requests (sender_id, receiver_id, timestamp)
		VALUES ($1, $2, $3)
		RETURNING id
	`, fr.SenderID, fr.ReceiverID, fr.Timestamp).Scan(&fr.ID)
	if err != nil {
		return nil, err
	}
	return &fr, nil
}

func (r *PgSocialRepository) GetFriendRequest(ctx context.Context, id int64) (*social.FriendRequest, error) {
	if r == nil || r.pool == nil {
		return nil, errNilPool
	}
	var fr social.FriendRequest
	err := r.pool.QueryRow(ctx,
		`SELECT id, sender_id, receiver_id, timestamp FROM friend_requests WHERE id = $1`,
		id,
	).Scan(&fr.ID, &fr.SenderID, &fr.ReceiverID, &fr.Timestamp)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, social.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &fr, nil
}

func (r *PgSocialRepository) ResolveFriendRequest(ctx context.Context, in repository.ResolveRequestInput) (*repository.ResolveRequestResult, error) {
	if r == nil || r.pool == nil {
		return nil, errNilPool
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if in.Accept {
		pairs := [][2]int64{
			{in.Request.ReceiverID, in.Request.SenderID},
			{in.Request.SenderID, in.Request.ReceiverID},
		}
		for _, pair := range pairs {
			if _, err := tx.Exec(ctx, `
				INSERT INTO user_chat_list (user_id, other_user_id)
				VALUES ($1, $2)
				ON CONFLICT (user_id, other_user_id) DO NOTHING
			`, pair[0], pair[1]); err != nil {
				return nil, err
			}
		}
	}

	res := repository.ResolveRequestResult{SenderNote: in.SenderNote, ReceiverNote: in.ReceiverNote}
	if err := insertNotificationTx(ctx, tx, &res.SenderNote); err != nil {
		return nil, err
	}
	if err := insertNotificationTx(ctx, tx, &res.ReceiverNote); err != nil {
		return nil, err
	}

	ct, err := tx.Exec(ctx, `DELETE FROM friend_requests WHERE id = $1`, in.Request.ID)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		// Another resolution won the race; nothing to broadcast.
		return nil, social.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &res, nil
}

// ===================== notifications =====================

func (r *PgSocialRepository) SaveNotifications(ctx context.Context, ns []social.Notification) ([]social.Notification, error) {
	if r == nil || r.pool == nil {
		return nil, errNilPool
	}
	if len(ns) == 0 {
		return nil, nil
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	out := make([]social.Notification, len(ns))
	copy(out, ns)
	for i := range out {
		if err := insertNotificationTx(ctx, tx, &out[i]); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PgSocialRepository) ListWatcherIDs(ctx context.Context, userID int64) ([]int64, error) {
	if r == nil || r.pool == nil {
		return nil, errNilPool
	}
	rows, err := r.pool.Query(ctx,
		`SELECT user_id FROM user_chat_list WHERE other_user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIDs(rows)
}

// ===================== helpers =====================

func insertNotificationTx(ctx context.Context, tx pgx.Tx, n *social.Notification) error {
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now().UTC()
	}
	return tx.QueryRow(ctx, `
		INSERT INTO notifications (user_id, type, content, actor_id, request_id, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, n.UserID, string(n.Type), n.Content, n.ActorID, n.RequestID, n.Timestamp).Scan(&n.ID)
}

func scanIDs(rows pgx.Rows) ([]int64, error) {
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
