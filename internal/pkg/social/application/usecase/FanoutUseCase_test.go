package usecase

import (
	"context"
	"testing"
	"time"

	social "go-huddle/internal/pkg/social/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyNewUser(t *testing.T) {
	ctx := context.Background()

	t.Run("one committed row per other user", func(t *testing.T) {
		repo := newFakeRepo()
		repo.addUser(1, "newbie")
		repo.addUser(2, "bob")
		repo.addUser(3, "carol")
		uc := NewNotifyNewUserUseCase(repo)

		res, err := uc.Execute(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "newbie", res.User.Name)
		assert.ElementsMatch(t, []int64{2, 3}, res.Recipients)

		require.Len(t, repo.notes, 2)
		for _, n := range repo.notes {
			assert.Equal(t, social.NotificationNewUserVerified, n.Type)
			assert.Equal(t, int64(1), n.ActorID)
			assert.Equal(t, "newbie just joined the app!", n.Content)
			assert.NotZero(t, n.ID)
		}
	})

	t.Run("sole user: nothing to do", func(t *testing.T) {
		repo := newFakeRepo()
		repo.addUser(1, "newbie")
		uc := NewNotifyNewUserUseCase(repo)

		res, err := uc.Execute(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, res.Recipients)
		assert.Empty(t, repo.notes)
	})

	t.Run("batch failure leaves zero rows", func(t *testing.T) {
		repo := newFakeRepo()
		repo.addUser(1, "newbie")
		repo.addUser(2, "bob")
		repo.saveErr = assert.AnError
		uc := NewNotifyNewUserUseCase(repo)

		_, err := uc.Execute(ctx, 1)
		assert.ErrorIs(t, err, ErrPersistence)
		assert.Empty(t, repo.notes)
	})
}

func TestBirthdaySweep(t *testing.T) {
	ctx := context.Background()
	bday := time.Date(1995, time.March, 14, 0, 0, 0, 0, time.UTC)
	today := time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)

	t.Run("notifies everyone who has the birthday user listed", func(t *testing.T) {
		repo := newFakeRepo()
		u := repo.addUser(1, "alice")
		u.Birthday = &bday
		repo.addUser(2, "bob")
		repo.addUser(3, "carol")
		repo.addUser(4, "dave")
		repo.connect(2, 1)
		repo.connect(3, 1)
		uc := NewBirthdaySweepUseCase(repo)

		notices, err := uc.Execute(ctx, today)
		require.NoError(t, err)
		require.Len(t, notices, 2)

		var recipients []int64
		for _, n := range notices {
			recipients = append(recipients, n.Note.UserID)
			assert.Equal(t, social.NotificationBirthdayWish, n.Note.Type)
			assert.Equal(t, int64(1), n.Note.ActorID)
			assert.Equal(t, "alice", n.BirthdayName)
			assert.NotZero(t, n.Note.ID, "emitted ids reference committed rows")
		}
		assert.ElementsMatch(t, []int64{2, 3}, recipients)
	})

	t.Run("year does not matter", func(t *testing.T) {
		repo := newFakeRepo()
		u := repo.addUser(1, "alice")
		u.Birthday = &bday
		repo.connect(2, 1)
		uc := NewBirthdaySweepUseCase(repo)

		notices, err := uc.Execute(ctx, time.Date(2031, time.March, 14, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Len(t, notices, 1)
	})

	t.Run("no birthdays, no rows", func(t *testing.T) {
		repo := newFakeRepo()
		repo.addUser(1, "alice")
		uc := NewBirthdaySweepUseCase(repo)

		notices, err := uc.Execute(ctx, today)
		require.NoError(t, err)
		assert.Empty(t, notices)
		assert.Empty(t, repo.notes)
	})

	t.Run("sweep failure rolls back every notification", func(t *testing.T) {
		repo := newFakeRepo()
		u := repo.addUser(1, "alice")
		u.Birthday = &bday
		repo.connect(2, 1)
		repo.saveErr = assert.AnError
		uc := NewBirthdaySweepUseCase(repo)

		_, err := uc.Execute(ctx, today)
		assert.ErrorIs(t, err, ErrPersistence)
		assert.Empty(t, repo.notes)
	})
}

func TestPinChatUseCase(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.connect(1, 2)
	repo.connect(1, 3)
	uc := NewPinChatUseCase(repo)

	pins, err := uc.Execute(ctx, PinChatInput{UserID: 1, OtherUserID: 2, Pin: true})
	require.NoError(t, err)
	require.Len(t, pins, 1)
	assert.Equal(t, int64(2), pins[0].OtherUserID)
	assert.Equal(t, 1, pins[0].PinPriority)

	pins, err = uc.Execute(ctx, PinChatInput{UserID: 1, OtherUserID: 3, Pin: true})
	require.NoError(t, err)
	require.Len(t, pins, 2)
	assert.Equal(t, int64(3), pins[0].OtherUserID, "newest pin takes rank 1")
	assert.Equal(t, int64(2), pins[1].OtherUserID)

	pins, err = uc.Execute(ctx, PinChatInput{UserID: 1, OtherUserID: 2, Pin: false})
	require.NoError(t, err)
	require.Len(t, pins, 1)
	assert.Equal(t, int64(3), pins[0].OtherUserID)
	assert.Equal(t, 1, pins[0].PinPriority)

	_, err = uc.Execute(ctx, PinChatInput{UserID: 1, OtherUserID: 99, Pin: true})
	assert.ErrorIs(t, err, social.ErrNotInChatList)
}

func TestNameResolverCaching(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	repo.addUser(1, "alice")
	cache := newFakeCache()
	names := NewNameResolver(repo, cache)

	name, err := names.Resolve(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", name)

	// Second lookup is served from the cache even if the row changes.
	repo.users[1].Name = "renamed"
	name, err = names.Resolve(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", name)

	_, err = names.Resolve(ctx, 404)
	assert.ErrorIs(t, err, ErrPersistence)
}
