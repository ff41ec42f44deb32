// Package user бизнес-логика учётных записей пользователей.
//
// Все изменения выполняются в одной транзакции на операцию. Ошибки
// хранилища возвращаются вызывающему без изменений, чтобы HTTP-слой мог
// распознать нарушение уникальности.
package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/syara/internal/lib/sl"
	"github.com/magabrotheeeer/syara/internal/models"
	"github.com/magabrotheeeer/syara/internal/storage"
)

var (
	// ErrInvalidCredentials неверный логин или пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInactiveUser учётная запись отключена.
	ErrInactiveUser = errors.New("user is inactive")
)

// Ключи маршрутизации событий жизненного цикла пользователя.
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

// Repository операции над таблицей users, привязанные к одному DBTX.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, skip, limit int) ([]*models.User, error)
	Create(ctx context.Context, u models.User) (*models.User, error)
	Update(ctx context.Context, u models.User) (*models.User, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// RepositoryFactory привязывает репозиторий к пулу или транзакции.
type RepositoryFactory func(db storage.DBTX) Repository

// Hasher хеширование и проверка паролей.
type Hasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}

// Cache описывает методы для кеширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	SetIfAbsent(ctx context.Context, key string, value any, expiration time.Duration) (bool, error)
	Invalidate(ctx context.Context, key string) error
}

// Publisher отправляет события во внешнюю шину.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// Event тело сообщения о создании, изменении или удалении пользователя.
type Event struct {
	Type       string       `json:"type"`
	User       *models.User `json:"user"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// Service реализует операции над пользователями.
type Service struct {
	db       *sql.DB
	users    RepositoryFactory
	hasher   Hasher
	cache    Cache
	cacheTTL time.Duration
	events   Publisher
	log      *slog.Logger
}

// Option дополнительная настройка Service.
type Option func(*Service)

// WithCache включает кеширование GetUser.
func WithCache(c Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithEvents включает публикацию событий после фиксации транзакции.
func WithEvents(p Publisher) Option {
	return func(s *Service) {
		s.events = p
	}
}

// NewService создаёт Service поверх пула db.
func NewService(db *sql.DB, users RepositoryFactory, hasher Hasher, log *slog.Logger, opts ...Option) *Service {
	s := &Service{
		db:     db,
		users:  users,
		hasher: hasher,
		log:    log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetUser возвращает пользователя по id или nil, если его нет.
//
// Прочитанная из базы запись кладётся в кеш только при отсутствии ключа.
// Ключ, записанный UpdateUser или DeleteUser, чтение не перезаписывает.
func (s *Service) GetUser(ctx context.Context, id int64) (*models.User, error) {
	key := cacheKey(id)
	if s.cache != nil {
		var cached cachedUser
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn("failed to read from cache", slog.String("key", key), sl.Err(err))
		}
		if found && err == nil {
			return cached.user(), nil
		}
	}

	u, err := s.users(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u != nil && s.cache != nil {
		if _, err := s.cache.SetIfAbsent(ctx, key, newCachedUser(u), s.cacheTTL); err != nil {
			s.log.Warn("failed to add to cache", slog.String("key", key), sl.Err(err))
		}
	}
	return u, nil
}

// GetUserByUsername возвращает пользователя по username или nil.
func (s *Service) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.users(s.db).GetByUsername(ctx, username)
}

// GetUserByEmail возвращает пользователя по email или nil.
func (s *Service) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.users(s.db).GetByEmail(ctx, email)
}

// ListUsers возвращает не более limit пользователей, пропустив skip.
func (s *Service) ListUsers(ctx context.Context, skip, limit int) ([]*models.User, error) {
	return s.users(s.db).List(ctx, skip, limit)
}

// CreateUser хеширует пароль и сохраняет нового пользователя.
func (s *Service) CreateUser(ctx context.Context, in models.UserCreate) (*models.User, error) {
	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("user.CreateUser: %w", err)
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	var created *models.User
	err = storage.WithTx(ctx, s.db, nil, func(ctx context.Context, tx storage.DBTX) error {
		created, err = s.users(tx).Create(ctx, models.User{
			Username:       in.Username,
			Email:          in.Email,
			HashedPassword: hashed,
			IsActive:       active,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("user created", slog.Int64("id", created.ID))
	s.publish(ctx, EventUserCreated, created)
	return created, nil
}

// UpdateUser применяет к пользователю только переданные поля.
// Возвращает nil без записи, если пользователя нет. Пустой in ничего не пишет.
func (s *Service) UpdateUser(ctx context.Context, id int64, in models.UserUpdate) (*models.User, error) {
	if in.Empty() {
		return s.GetUser(ctx, id)
	}

	var hashed string
	if in.Password != nil {
		h, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("user.UpdateUser: %w", err)
		}
		hashed = h
	}

	var updated *models.User
	err := storage.WithTx(ctx, s.db, nil, func(ctx context.Context, tx storage.DBTX) error {
		repo := s.users(tx)
		current, err := repo.GetByIDForUpdate(ctx, id)
		if err != nil || current == nil {
			return err
		}

		next := *current
		if in.Username != nil {
			next.Username = *in.Username
		}
		if in.Email != nil {
			next.Email = *in.Email
		}
		if in.IsActive != nil {
			next.IsActive = *in.IsActive
		}
		if in.Password != nil {
			next.HashedPassword = hashed
		}

		updated, err = repo.Update(ctx, next)
		return err
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, nil
	}

	s.refresh(ctx, id, newCachedUser(updated))
	s.log.Info("user updated", slog.Int64("id", id))
	s.publish(ctx, EventUserUpdated, updated)
	return updated, nil
}

// DeleteUser удаляет пользователя и возвращает удалённую запись.
func (s *Service) DeleteUser(ctx context.Context, id int64) (*models.User, error) {
	var removed *models.User
	err := storage.WithTx(ctx, s.db, nil, func(ctx context.Context, tx storage.DBTX) error {
		repo := s.users(tx)
		current, err := repo.GetByIDForUpdate(ctx, id)
		if err != nil || current == nil {
			return err
		}
		if _, err = repo.Delete(ctx, id); err != nil {
			return err
		}
		removed = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	if removed == nil {
		return nil, nil
	}

	s.refresh(ctx, id, cachedUser{Deleted: true})
	s.log.Info("user deleted", slog.Int64("id", id))
	s.publish(ctx, EventUserDeleted, removed)
	return removed, nil
}

// Authenticate проверяет пароль и активность учётной записи.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.users(s.db).GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(u.HashedPassword, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrInactiveUser
	}
	return u, nil
}

// refresh записывает в кеш состояние после фиксации транзакции.
// Если записать не удалось, ключ удаляется.
func (s *Service) refresh(ctx context.Context, id int64, entry cachedUser) {
	if s.cache == nil {
		return
	}
	key := cacheKey(id)
	err := s.cache.Set(ctx, key, entry, s.cacheTTL)
	if err == nil {
		return
	}
	s.log.Warn("failed to write to cache", slog.String("key", key), sl.Err(err))
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", key), sl.Err(err))
	}
}

func (s *Service) publish(ctx context.Context, eventType string, u *models.User) {
	if s.events == nil {
		return
	}
	ev := Event{Type: eventType, User: u, OccurredAt: time.Now().UTC()}
	if err := s.events.Publish(ctx, eventType, ev); err != nil {
		s.log.Warn("failed to publish event", slog.String("type", eventType), sl.Err(err))
	}
}

func cacheKey(id int64) string {
	return fmt.Sprintf("user:%d", id)
}

// cachedUser сохраняет хэш пароля, который models.User не сериализует.
// Deleted отмечает удалённого пользователя.
type cachedUser struct {
	models.User
	HashedPassword string `json:"hashed_password"`
	Deleted        bool   `json:"deleted,omitempty"`
}

func newCachedUser(u *models.User) cachedUser {
	return cachedUser{User: *u, HashedPassword: u.HashedPassword}
}

func (c cachedUser) user() *models.User {
	if c.Deleted {
		return nil
	}
	u := c.User
	u.HashedPassword = c.HashedPassword
	return &u
}
