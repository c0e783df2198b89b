package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/objsync/internal/clock"
	"github.com/iudanet/objsync/internal/models"
	"github.com/iudanet/objsync/internal/server/storage"
)

var testEpoch = time.UnixMilli(1_700_000_000_000)

func newStorageWithMock(t *testing.T) (*Storage, sqlmock.Sqlmock, *clock.Manual) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	clk := clock.NewManual(testEpoch)
	return NewWithDB(db, WithClock(clk)), mock, clk
}

func TestSaveObjects_AssignsConsecutiveWatermarks(t *testing.T) {
	s, mock, _ := newStorageWithMock(t)
	now := clock.Millis(testEpoch)

	tests := []struct {
		name       string
		currentMax int64
		wantBase   int64
	}{
		{name: "first batch uses clock", currentMax: 0, wantBase: now},
		{name: "clock behind max continues after max", currentMax: now + 100, wantBase: now + 101},
		{name: "clock equal to max", currentMax: now, wantBase: now + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta(lockOwnerQuery)).
				WithArgs("alice").
				WillReturnResult(sqlmock.NewResult(0, 0))
			mock.ExpectQuery(regexp.QuoteMeta(maxModifiedAtQuery)).
				WithArgs("alice").
				WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(tt.currentMax))
			mock.ExpectExec(`INSERT INTO objects`).
				WithArgs("alice", "a", `{"n":1}`, tt.wantBase).
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectExec(`INSERT INTO objects`).
				WithArgs("alice", "b", `{"n":2}`, tt.wantBase+1).
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectCommit()

			last, err := s.SaveObjects(context.Background(), "alice", []models.ObjectInput{
				{ID: "a", Data: `{"n":1}`},
				{ID: "b", Data: `{"n":2}`},
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantBase+1, last)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSaveObjects_RollbackOnError(t *testing.T) {
	s, mock, _ := newStorageWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(lockOwnerQuery)).
		WithArgs("alice").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(maxModifiedAtQuery)).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(int64(0)))
	mock.ExpectExec(`INSERT INTO objects`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO objects`).
		WillReturnError(errors.New("db down"))
	mock.ExpectRollback()

	_, err := s.SaveObjects(context.Background(), "alice", []models.ObjectInput{
		{ID: "a", Data: `1`},
		{ID: "b", Data: `2`},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveObjects_LockError(t *testing.T) {
	s, mock, _ := newStorageWithMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(lockOwnerQuery)).
		WithArgs("alice").
		WillReturnError(errors.New("lock timeout"))
	mock.ExpectRollback()

	_, err := s.SaveObjects(context.Background(), "alice", []models.ObjectInput{{ID: "a", Data: `1`}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to lock owner")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveObjects_EmptyBatch(t *testing.T) {
	s, mock, _ := newStorageWithMock(t)

	// Пустой батч ничего не пишет и не открывает транзакцию
	mock.ExpectQuery(regexp.QuoteMeta(maxModifiedAtQuery)).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(int64(42)))

	last, err := s.SaveObjects(context.Background(), "alice", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(42), last)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetObjectsByOwner(t *testing.T) {
	s, mock, _ := newStorageWithMock(t)

	rows := sqlmock.NewRows([]string{"owner", "id", "data", "modified_at"}).
		AddRow("alice", "a", `{"n":1}`, int64(11)).
		AddRow("alice", "b", `{"n":2}`, int64(12))

	mock.ExpectQuery(`SELECT owner, id, data, modified_at\s+FROM objects\s+WHERE owner = \$1 AND modified_at > \$2\s+ORDER BY modified_at ASC`).
		WithArgs("alice", int64(10)).
		WillReturnRows(rows)

	objects, err := s.GetObjectsByOwner(context.Background(), "alice", 10)
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, "a", objects[0].ID)
	assert.Equal(t, int64(12), objects[1].ModifiedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetObjectsByOwner_Empty(t *testing.T) {
	s, mock, _ := newStorageWithMock(t)

	mock.ExpectQuery(`FROM objects`).
		WithArgs("alice", int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"owner", "id", "data", "modified_at"}))

	objects, err := s.GetObjectsByOwner(context.Background(), "alice", 0)
	require.NoError(t, err)
	assert.NotNil(t, objects)
	assert.Empty(t, objects)
}

func TestGetObject_NotFound(t *testing.T) {
	s, mock, _ := newStorageWithMock(t)

	mock.ExpectQuery(`FROM objects\s+WHERE owner = \$1 AND id = \$2`).
		WithArgs("alice", "missing").
		WillReturnError(sql.ErrNoRows)

	_, err := s.GetObject(context.Background(), "alice", "missing")
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)
}

func TestSaveUser(t *testing.T) {
	s, mock, _ := newStorageWithMock(t)

	user := &models.User{
		Username:     "alice",
		PasswordHash: []byte("hash"),
		Salt:         []byte("salt"),
		Iterations:   10000,
		CreatedAt:    testEpoch,
	}

	mock.ExpectExec(`INSERT INTO users .* ON CONFLICT \(username\) DO UPDATE`).
		WithArgs("alice", []byte("hash"), []byte("salt"), 10000, clock.Millis(testEpoch)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.SaveUser(context.Background(), user))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUser(t *testing.T) {
	tests := []struct {
		setup   func(mock sqlmock.Sqlmock)
		wantErr error
		name    string
	}{
		{
			name: "found",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM users\s+WHERE username = \$1`).
					WithArgs("alice").
					WillReturnRows(sqlmock.NewRows([]string{"username", "password_hash", "salt", "iterations", "created_at"}).
						AddRow("alice", []byte("hash"), []byte("salt"), 10000, clock.Millis(testEpoch)))
			},
		},
		{
			name: "not found",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM users`).WithArgs("alice").WillReturnError(sql.ErrNoRows)
			},
			wantErr: storage.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock, _ := newStorageWithMock(t)
			tt.setup(mock)

			user, err := s.GetUser(context.Background(), "alice")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "alice", user.Username)
			assert.Equal(t, 10000, user.Iterations)
			assert.True(t, testEpoch.Equal(user.CreatedAt))
		})
	}
}

func TestGetUser_DBError(t *testing.T) {
	s, mock, _ := newStorageWithMock(t)

	mock.ExpectQuery(`FROM users`).WithArgs("alice").WillReturnError(errors.New("connection reset"))

	_, err := s.GetUser(context.Background(), "alice")
	require.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrUserNotFound)
	assert.Contains(t, err.Error(), "failed to get user")
}

func TestGetAuthToken_UsesClock(t *testing.T) {
	s, mock, clk := newStorageWithMock(t)
	clk.Advance(time.Minute)

	mock.ExpectQuery(`FROM auth_tokens\s+WHERE id = \$1 AND expires_at > \$2`).
		WithArgs([]byte("id"), clock.Millis(testEpoch.Add(time.Minute))).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner", "secret", "expires_at"}).
			AddRow([]byte("id"), "alice", []byte("secret"), clock.Millis(testEpoch.Add(time.Hour))))

	token, err := s.GetAuthToken(context.Background(), []byte("id"))
	require.NoError(t, err)
	assert.Equal(t, "alice", token.Owner)
	assert.True(t, testEpoch.Add(time.Hour).Equal(token.ExpiresAt))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAuthToken(t *testing.T) {
	tests := []struct {
		wantErr      error
		name         string
		rowsAffected int64
	}{
		{name: "deleted", rowsAffected: 1},
		{name: "nothing deleted", rowsAffected: 0, wantErr: storage.ErrTokenNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock, _ := newStorageWithMock(t)

			mock.ExpectExec(`DELETE FROM auth_tokens WHERE id = \$1 AND owner = \$2`).
				WithArgs([]byte("id"), "alice").
				WillReturnResult(sqlmock.NewResult(0, tt.rowsAffected))

			err := s.DeleteAuthToken(context.Background(), "alice", []byte("id"))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDeleteStaleAuthTokens(t *testing.T) {
	s, mock, _ := newStorageWithMock(t)

	mock.ExpectExec(`DELETE FROM auth_tokens WHERE expires_at <= \$1`).
		WithArgs(clock.Millis(testEpoch)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := s.DeleteStaleAuthTokens(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.NoError(t, mock.ExpectationsWereMet())
}
