package usecase

import (
	"context"
	"strings"
	"time"

	cacheport "go-huddle/internal/infrastructure/cache/port"
	social "go-huddle/internal/pkg/social/domain"
	repository "go-huddle/internal/pkg/social/persistence/repository/port"
)

// fakeRepo is an in-memory SocialRepository. Each test builds a fresh one,
// seeds rows and asserts on the resulting state.
type fakeRepo struct {
	users    map[int64]*social.User
	entries  map[[2]int64]*social.ChatListEntry
	messages map[int64]*social.Message
	requests map[int64]*social.FriendRequest
	notes    []social.Notification

	nextID  int64
	saveErr error // injected into every write when set
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:    make(map[int64]*social.User),
		entries:  make(map[[2]int64]*social.ChatListEntry),
		messages: make(map[int64]*social.Message),
		requests: make(map[int64]*social.FriendRequest),
	}
}

var _ repository.SocialRepository = (*fakeRepo)(nil)

func (f *fakeRepo) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeRepo) addUser(id int64, name string) *social.User {
	u := &social.User{ID: id, Name: name}
	f.users[id] = u
	return u
}

func (f *fakeRepo) connect(a, b int64) {
	for _, pair := range [][2]int64{{a, b}, {b, a}} {
		if _, ok := f.entries[pair]; !ok {
			f.entries[pair] = &social.ChatListEntry{
				ID: f.id(), UserID: pair[0], OtherUserID: pair[1],
			}
		}
	}
}

func (f *fakeRepo) GetUser(_ context.Context, id int64) (*social.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, social.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeRepo) UpdateLastSeen(_ context.Context, userID int64, at time.Time) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	u, ok := f.users[userID]
	if !ok {
		return social.ErrNotFound
	}
	u.LastSeen = &at
	return nil
}

func (f *fakeRepo) ChatEntryExists(_ context.Context, userID, otherID int64) (bool, error) {
	_, ok := f.entries[[2]int64{userID, otherID}]
	return ok, nil
}

func (f *fakeRepo) SetFavorite(_ context.Context, userID, otherID int64, favorite bool) (bool, error) {
	e, ok := f.entries[[2]int64{userID, otherID}]
	if !ok {
		return false, nil
	}
	e.IsFavorite = favorite
	return true, nil
}

func (f *fakeRepo) PinChat(_ context.Context, userID, otherID int64, pin bool) ([]repository.PinnedChat, error) {
	entry, ok := f.entries[[2]int64{userID, otherID}]
	if !ok {
		return nil, social.ErrNotFound
	}
	var pinned []*social.ChatListEntry
	for _, e := range f.entries {
		if e.UserID == userID && e.PinPriority > 0 {
			pinned = append(pinned, e)
		}
	}
	if pin {
		social.Pin(entry, pinned)
	} else {
		social.Unpin(entry, pinned)
	}
	var out []repository.PinnedChat
	for rank := 1; rank <= social.MaxPinned; rank++ {
		for _, e := range f.entries {
			if e.UserID == userID && e.PinPriority == rank {
				out = append(out, repository.PinnedChat{OtherUserID: e.OtherUserID, PinPriority: rank})
			}
		}
	}
	return out, nil
}

func (f *fakeRepo) SaveMessage(_ context.Context, m social.Message) (int64, error) {
	if f.saveErr != nil {
		return 0, f.saveErr
	}
	m.ID = f.id()
	f.messages[m.ID] = &m
	return m.ID, nil
}

func (f *fakeRepo) GetMessage(_ context.Context, id int64) (*social.Message, error) {
	m, ok := f.messages[id]
	if !ok {
		return nil, social.ErrNotFound
	}
	copied := *m
	return &copied, nil
}

func (f *fakeRepo) UpdateMessageContent(_ context.Context, id int64, ciphertext string) error {
	m, ok := f.messages[id]
	if !ok {
		return social.ErrNotFound
	}
	m.Content = ciphertext
	m.IsEdited = true
	return nil
}

func (f *fakeRepo) MarkMessageDeleted(_ context.Context, id int64, flag repository.DeleteFlag) error {
	m, ok := f.messages[id]
	if !ok {
		return social.ErrNotFound
	}
	switch flag {
	case repository.DeleteForEveryone:
		m.IsDeletedForEveryone = true
	case repository.DeleteForSender:
		m.IsDeletedForSender = true
	case repository.DeleteForRecipient:
		m.IsDeletedForRecipient = true
	}
	return nil
}

func (f *fakeRepo) PendingRequestBetween(_ context.Context, a, b int64) (bool, error) {
	for _, r := range f.requests {
		if (r.SenderID == a && r.ReceiverID == b) || (r.SenderID == b && r.ReceiverID == a) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) SaveFriendRequest(_ context.Context, fr social.FriendRequest) (*social.FriendRequest, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	fr.ID = f.id()
	if fr.Timestamp.IsZero() {
		fr.Timestamp = time.Now().UTC()
	}
	f.requests[fr.ID] = &fr
	copied := fr
	return &copied, nil
}

func (f *fakeRepo) GetFriendRequest(_ context.Context, id int64) (*social.FriendRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, social.ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRepo) ResolveFriendRequest(_ context.Context, in repository.ResolveRequestInput) (*repository.ResolveRequestResult, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	if _, ok := f.requests[in.Request.ID]; !ok {
		return nil, social.ErrNotFound
	}
	if in.Accept {
		f.connect(in.Request.SenderID, in.Request.ReceiverID)
	}
	res := repository.ResolveRequestResult{SenderNote: in.SenderNote, ReceiverNote: in.ReceiverNote}
	res.SenderNote.ID = f.id()
	res.SenderNote.Timestamp = time.Now().UTC()
	res.ReceiverNote.ID = f.id()
	res.ReceiverNote.Timestamp = time.Now().UTC()
	f.notes = append(f.notes, res.SenderNote, res.ReceiverNote)
	delete(f.requests, in.Request.ID)
	return &res, nil
}

func (f *fakeRepo) ListUserIDsExcept(_ context.Context, id int64) ([]int64, error) {
	var ids []int64
	for uid := range f.users {
		if uid != id {
			ids = append(ids, uid)
		}
	}
	return ids, nil
}

func (f *fakeRepo) SaveNotifications(_ context.Context, ns []social.Notification) ([]social.Notification, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	out := make([]social.Notification, len(ns))
	copy(out, ns)
	for i := range out {
		out[i].ID = f.id()
		if out[i].Timestamp.IsZero() {
			out[i].Timestamp = time.Now().UTC()
		}
	}
	f.notes = append(f.notes, out...)
	return out, nil
}

func (f *fakeRepo) FindBirthdayUsers(_ context.Context, month time.Month, day int) ([]social.User, error) {
	var out []social.User
	for _, u := range f.users {
		if u.HasBirthday(month, day) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListWatcherIDs(_ context.Context, userID int64) ([]int64, error) {
	var ids []int64
	for key, e := range f.entries {
		if key[1] == userID {
			ids = append(ids, e.UserID)
		}
	}
	return ids, nil
}

// fakeCache is a TTL-less in-memory port.Cache.
type fakeCache struct {
	data map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", cacheport.ErrMiss
	}
	return v, nil
}

func (f *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	f.data[key] = value
	return nil
}

func (f *fakeCache) Del(_ context.Context, keys ...string) (int64, error) {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return n, nil
}

func (f *fakeCache) Ping(context.Context) error { return nil }
func (f *fakeCache) Close() error               { return nil }

// fakeCipher is a transparent cipher so tests can see what was "encrypted".
type fakeCipher struct{}

func (fakeCipher) Encrypt(plaintext string) (string, error) { return "enc:" + plaintext, nil }

func (fakeCipher) Decrypt(ciphertext string) (string, error) {
	return strings.TrimPrefix(ciphertext, "enc:"), nil
}
