package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/gravityplay/gravity-backend/internal/entity"
)

var ErrUserNotFound = errors.New("user not found")

const onlineSetKey = "users:online"

// UserRepository is the registry of connected users. Entries live only for
// the duration of a session: created on login, removed on disconnect.
type UserRepository interface {
	CreateOrUpdate(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	DeleteByID(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.User, error)
	CountOnline(ctx context.Context) (int, error)
}

type dbUser struct {
	client *redis.Client
}

func NewUserRepository(client *redis.Client) UserRepository {
	return &dbUser{
		client: client,
	}
}

func userKey(id string) string {
	return "user:" + id
}

func (that *dbUser) CreateOrUpdate(ctx context.Context, user *entity.User) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	if err = that.client.Set(ctx, userKey(user.ID), userJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set user: %w", err)
	}

	if err = that.client.SAdd(ctx, onlineSetKey, user.ID).Err(); err != nil {
		return fmt.Errorf("failed to add user to online set: %w", err)
	}

	return nil
}

func (that *dbUser) GetByID(ctx context.Context, id string) (*entity.User, error) {
	response, err := that.client.Get(ctx, userKey(id)).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	var user entity.User
	if err = json.Unmarshal([]byte(response), &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	return &user, nil
}

func (that *dbUser) DeleteByID(ctx context.Context, id string) error {
	if err := that.client.Del(ctx, userKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete user by ID: %w", err)
	}

	if err := that.client.SRem(ctx, onlineSetKey, id).Err(); err != nil {
		return fmt.Errorf("failed to remove user from online set: %w", err)
	}

	return nil
}

func (that *dbUser) List(ctx context.Context) ([]*entity.User, error) {
	ids, err := that.client.SMembers(ctx, onlineSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list online users: %w", err)
	}

	users := make([]*entity.User, 0, len(ids))
	for _, id := range ids {
		user, err := that.GetByID(ctx, id)
		if errors.Is(err, ErrUserNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, nil
}

func (that *dbUser) CountOnline(ctx context.Context) (int, error) {
	count, err := that.client.SCard(ctx, onlineSetKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count online users: %w", err)
	}
	return int(count), nil
}
