package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"roombook-client/internal/model"
)

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func sampleAuth() model.PersistedAuth {
	return model.PersistedAuth{
		User:            &model.User{ID: 3, Username: "alice", Email: "alice@example.com", Role: model.RoleUser},
		Tokens:          "t1",
		IsAuthenticated: true,
	}
}

func TestGormStore_Save(t *testing.T) {
	db, mock := newTestDB(t)
	s := NewGormStore(db, "auth-storage", nil)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "stored_records"`) + `.*ON CONFLICT \("name"\) DO UPDATE`).
		WithArgs("auth-storage", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, s.Save(context.Background(), sampleAuth()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_SaveError(t *testing.T) {
	db, mock := newTestDB(t)
	s := NewGormStore(db, "auth-storage", nil)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "stored_records"`)).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := s.Save(context.Background(), sampleAuth())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save auth-storage")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_Load(t *testing.T) {
	payload, err := JSONCodec{}.Encode("auth-storage", sampleAuth())
	require.NoError(t, err)

	testCases := []struct {
		name       string
		rows       *sqlmock.Rows
		wantFound  bool
		wantErr    error
		wantTokens string
	}{
		{
			name:       "record present",
			rows:       sqlmock.NewRows([]string{"name", "payload", "updated_at"}).AddRow("auth-storage", payload, time.Now()),
			wantFound:  true,
			wantTokens: "t1",
		},
		{
			name:      "record absent",
			rows:      sqlmock.NewRows([]string{"name", "payload", "updated_at"}),
			wantFound: false,
		},
		{
			name:    "record corrupt",
			rows:    sqlmock.NewRows([]string{"name", "payload", "updated_at"}).AddRow("auth-storage", "{not json", time.Now()),
			wantErr: ErrCorrupt,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newTestDB(t)
			s := NewGormStore(db, "auth-storage", nil)

			mock.ExpectQuery(`SELECT \* FROM "stored_records" WHERE name = \$1 LIMIT \$[0-9]+`).
				WithArgs("auth-storage", 1).
				WillReturnRows(tc.rows)

			auth, found, err := s.Load(context.Background())
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.wantFound, found)
			assert.Equal(t, tc.wantTokens, auth.Tokens)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGormStore_Clear(t *testing.T) {
	db, mock := newTestDB(t)
	s := NewGormStore(db, "auth-storage", nil)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "stored_records" WHERE name = $1`)).
		WithArgs("auth-storage").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.Clear(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSecureCodec(t *testing.T) {
	hash := []byte("0123456789abcdef0123456789abcdef")
	block := []byte("abcdef0123456789")

	codec, err := NewSecureCodec(hash, block)
	require.NoError(t, err)

	payload, err := codec.Encode("auth-storage", sampleAuth())
	require.NoError(t, err)
	assert.NotContains(t, payload, "alice")

	var got model.PersistedAuth
	require.NoError(t, codec.Decode("auth-storage", payload, &got))
	assert.Equal(t, sampleAuth(), got)

	other, err := NewSecureCodec([]byte("another-hash-key-another-hash-ke"), block)
	require.NoError(t, err)
	assert.Error(t, other.Decode("auth-storage", payload, &got))

	assert.Error(t, codec.Decode("other-name", payload, &got))
}

func TestNewSecureCodec_RequiresHashKey(t *testing.T) {
	_, err := NewSecureCodec(nil, nil)
	assert.Error(t, err)
}
