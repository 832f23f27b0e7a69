package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/securecookie"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"roombook-client/internal/model"
)

// ErrCorrupt is returned when a stored record cannot be decoded.
var ErrCorrupt = errors.New("stored record is corrupt")

// AuthStore persists the durable part of the session under a single name.
type AuthStore interface {
	Save(ctx context.Context, auth model.PersistedAuth) error
	Load(ctx context.Context) (model.PersistedAuth, bool, error)
	Clear(ctx context.Context) error
}

// Codec turns a persisted session into the stored payload and back.
type Codec interface {
	Encode(name string, auth model.PersistedAuth) (string, error)
	Decode(name, payload string, auth *model.PersistedAuth) error
}

// gormStore implements AuthStore using GORM.
type gormStore struct {
	db    *gorm.DB
	name  string
	codec Codec
	now   func() time.Time
}

// NewGormStore creates a GORM-backed store for the record called name.
// A nil codec stores plain JSON.
func NewGormStore(db *gorm.DB, name string, codec Codec) AuthStore {
	if codec == nil {
		codec = JSONCodec{}
	}
	return &gormStore{db: db, name: name, codec: codec, now: time.Now}
}

// Save upserts the record.
func (s *gormStore) Save(ctx context.Context, auth model.PersistedAuth) error {
	payload, err := s.codec.Encode(s.name, auth)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", s.name, err)
	}

	record := model.StoredRecord{Name: s.name, Payload: payload, UpdatedAt: s.now()}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to save %s: %w", s.name, err)
	}
	return nil
}

// Load reads the record. The boolean is false when nothing has been stored.
func (s *gormStore) Load(ctx context.Context) (model.PersistedAuth, bool, error) {
	var record model.StoredRecord
	err := s.db.WithContext(ctx).Where("name = ?", s.name).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.PersistedAuth{}, false, nil
	}
	if err != nil {
		return model.PersistedAuth{}, false, fmt.Errorf("failed to load %s: %w", s.name, err)
	}

	var auth model.PersistedAuth
	if err := s.codec.Decode(s.name, record.Payload, &auth); err != nil {
		return model.PersistedAuth{}, false, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.name, err)
	}
	return auth, true, nil
}

// Clear deletes the record if present.
func (s *gormStore) Clear(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Where("name = ?", s.name).Delete(&model.StoredRecord{}).Error; err != nil {
		return fmt.Errorf("failed to clear %s: %w", s.name, err)
	}
	return nil
}

// JSONCodec stores the session as plain JSON.
type JSONCodec struct{}

func (JSONCodec) Encode(_ string, auth model.PersistedAuth) (string, error) {
	b, err := json.Marshal(auth)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (JSONCodec) Decode(_ string, payload string, auth *model.PersistedAuth) error {
	return json.Unmarshal([]byte(payload), auth)
}

// SecureCodec signs, and encrypts when a block key is set, the stored session.
type SecureCodec struct {
	sc *securecookie.SecureCookie
}

// NewSecureCodec builds a codec from the configured keys. blockKey may be
// empty, otherwise it must be 16, 24 or 32 bytes long.
func NewSecureCodec(hashKey, blockKey []byte) (*SecureCodec, error) {
	if len(hashKey) == 0 {
		return nil, errors.New("hash key is required")
	}
	if len(blockKey) == 0 {
		blockKey = nil
	}
	sc := securecookie.New(hashKey, blockKey).
		SetSerializer(securecookie.JSONEncoder{}).
		MaxAge(0).
		MaxLength(0)
	return &SecureCodec{sc: sc}, nil
}

func (c *SecureCodec) Encode(name string, auth model.PersistedAuth) (string, error) {
	return c.sc.Encode(name, auth)
}

func (c *SecureCodec) Decode(name, payload string, auth *model.PersistedAuth) error {
	return c.sc.Decode(name, payload, auth)
}
