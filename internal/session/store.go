package session

import (
	"context"
	"encoding/json"
	"time"

	"herdview/config"
	"herdview/internal/database"
	"herdview/internal/logger"
	. "herdview/internal/models"

	"github.com/google/uuid"
)

// The persisted blob lives under one fixed key prefix in the session
// cache; the token is the only variable part.
const storageKeyPrefix = "herdview:user:"

type Store struct {
	cache database.CacheClient
	ttl   time.Duration
	log   logger.Logger
}

func NewStore(db database.DB, config config.Config) *Store {
	ttl := config.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &Store{
		cache: db.Cache.Session,
		ttl:   ttl,
		log:   logger.New("session"),
	}
}

// Create persists the logged-in user's blob and returns the session
// token. The blob keeps the upstream field names so Get exercises the
// same parse path a stored legacy blob would.
func (s *Store) Create(ctx context.Context, user User) (string, error) {
	log := s.log.Function("Create")

	token := uuid.NewString()
	blob := map[string]any{
		"user_id": user.ID,
		"role_id": user.RoleID,
		"name":    user.Name,
		"email":   user.Email,
	}

	if err := database.NewCacheBuilder(s.cache, storageKeyPrefix+token).
		WithStruct(blob).
		WithTTL(s.ttl).
		WithContext(ctx).
		Set(); err != nil {
		return "", log.Err("failed to store session", err, "userID", user.ID)
	}

	return token, nil
}

// Get resolves a token to a Session. A missing token, an unreadable
// blob, or an unknown role all yield (zero, false, nil): an absent
// session is "not authenticated", never a crash.
func (s *Store) Get(ctx context.Context, token string) (Session, bool, error) {
	log := s.log.Function("Get")

	if token == "" {
		return Session{}, false, nil
	}

	var raw json.RawMessage
	found, err := database.NewCacheBuilder(s.cache, storageKeyPrefix+token).
		WithContext(ctx).
		Get(&raw)
	if err != nil {
		return Session{}, false, log.Err("failed to read session", err)
	}
	if !found {
		return Session{}, false, nil
	}

	session, ok := ParseStoredUser(raw)
	if !ok {
		log.Warn("stored session blob did not parse, treating as unauthenticated")
		return Session{}, false, nil
	}

	return session, true, nil
}

func (s *Store) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return database.NewCacheBuilder(s.cache, storageKeyPrefix+token).
		WithContext(ctx).
		Delete()
}

// ParseStoredUser extracts the identity from a persisted user blob. The
// id arrives as either "user_id" or "id", and the role as a numeric
// "role_id". Malformed JSON or an unknown role yields (zero, false).
func ParseStoredUser(raw []byte) (Session, bool) {
	var blob struct {
		UserID *int   `json:"user_id"`
		ID     *int   `json:"id"`
		RoleID int    `json:"role_id"`
		Name   string `json:"name"`
	}

	if err := json.Unmarshal(raw, &blob); err != nil {
		return Session{}, false
	}

	var userID int
	switch {
	case blob.UserID != nil && *blob.UserID > 0:
		userID = *blob.UserID
	case blob.ID != nil && *blob.ID > 0:
		userID = *blob.ID
	default:
		return Session{}, false
	}

	role := Role(blob.RoleID)
	if !role.Valid() {
		return Session{}, false
	}

	return Session{UserID: userID, Role: role, Name: blob.Name}, true
}
