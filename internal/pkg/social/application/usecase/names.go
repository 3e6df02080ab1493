package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	cacheport "go-huddle/internal/infrastructure/cache/port"
	repository "go-huddle/internal/pkg/social/persistence/repository/port"
)

const nameCacheTTL = 10 * time.Minute

// NameResolver looks up user display names with a read-through cache in
// front of the store. Notification payloads carry names, so friend-request
// traffic hits the same handful of rows repeatedly.
type NameResolver struct {
	Repo  repository.SocialRepository
	Cache cacheport.Cache // optional; nil disables caching
}

func NewNameResolver(repo repository.SocialRepository, cache cacheport.Cache) *NameResolver {
	return &NameResolver{Repo: repo, Cache: cache}
}

func (n *NameResolver) Resolve(ctx context.Context, userID int64) (string, error) {
	key := "user:name:" + strconv.FormatInt(userID, 10)
	if n.Cache != nil {
		if name, err := n.Cache.Get(ctx, key); err == nil {
			return name, nil
		}
	}

	user, err := n.Repo.GetUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if n.Cache != nil {
		// Best effort; a failed cache write must not fail the lookup.
		_ = n.Cache.Set(ctx, key, user.Name, nameCacheTTL)
	}
	return user.Name, nil
}
