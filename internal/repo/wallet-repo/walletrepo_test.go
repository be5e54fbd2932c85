package walletrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/doclink/doclink/internal/domain"
	"github.com/doclink/doclink/internal/pg"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface, *pg.MockTXManager) {
	ctrl := gomock.NewController(t)
	mockTxManager := pg.NewMockTXManager(ctrl)

	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB, mockTxManager)
	defer mockDB.Close()
	defer ctrl.Finish()

	return repo, mockDB, mockTxManager
}

func TestRepository_GetByUserID(t *testing.T) {
	repo, mock, _ := NewMock(t)
	now := time.Now()

	tests := []struct {
		name      string
		userID    int
		mockSetup func()
		expectErr bool
		result    *domain.Wallet
	}{
		{
			name:   "Valid userID returns wallet",
			userID: 1,
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "user_id", "balance", "created_at"}).
					AddRow(1, 1, int64(10000), now)
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, balance, created_at FROM wallets WHERE user_id = $1`)).
					WithArgs(1).
					WillReturnRows(rows)
			},
			expectErr: false,
			result: &domain.Wallet{
				ID:        1,
				UserID:    1,
				Balance:   10000,
				CreatedAt: now,
			},
		},
		{
			name:   "Non-existing userID returns nil",
			userID: 99,
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, balance, created_at FROM wallets WHERE user_id = $1`)).
					WithArgs(99).
					WillReturnError(pgx.ErrNoRows)
			},
			expectErr: false,
			result:    nil,
		},
		{
			name:   "Database error",
			userID: 1,
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, balance, created_at FROM wallets WHERE user_id = $1`)).
					WithArgs(1).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
			result:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.GetByUserID(context.Background(), tt.userID)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.result, result)
		})
	}
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock, _ := NewMock(t)
	now := time.Now()

	tests := []struct {
		name      string
		walletID  int
		mockSetup func()
		expectErr bool
		result    *domain.Wallet
	}{
		{
			name:     "Valid walletID returns wallet",
			walletID: 7,
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "user_id", "balance", "created_at"}).
					AddRow(7, 3, int64(4000), now)
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, balance, created_at FROM wallets WHERE id = $1`)).
					WithArgs(7).
					WillReturnRows(rows)
			},
			expectErr: false,
			result: &domain.Wallet{
				ID:        7,
				UserID:    3,
				Balance:   4000,
				CreatedAt: now,
			},
		},
		{
			name:     "Non-existing walletID returns nil",
			walletID: 99,
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, balance, created_at FROM wallets WHERE id = $1`)).
					WithArgs(99).
					WillReturnError(pgx.ErrNoRows)
			},
			expectErr: false,
			result:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.GetByID(context.Background(), tt.walletID)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.result, result)
		})
	}
}

func TestRepository_Create(t *testing.T) {
	repo, mock, _ := NewMock(t)
	now := time.Now()

	tests := []struct {
		name      string
		userID    int
		mockSetup func()
		expectErr bool
		result    *domain.Wallet
	}{
		{
			name:   "Successfully creates wallet",
			userID: 1,
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "user_id", "balance", "created_at"}).
					AddRow(1, 1, int64(0), now)
				mock.ExpectQuery(regexp.QuoteMeta(`
        INSERT INTO wallets (user_id, balance)
        VALUES ($1, 0)
        RETURNING id, user_id, balance, created_at`)).
					WithArgs(1).
					WillReturnRows(rows)
			},
			expectErr: false,
			result: &domain.Wallet{
				ID:        1,
				UserID:    1,
				Balance:   0,
				CreatedAt: now,
			},
		},
		{
			name:   "Database error",
			userID: 1,
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`
        INSERT INTO wallets (user_id, balance)
        VALUES ($1, 0)
        RETURNING id, user_id, balance, created_at`)).
					WithArgs(1).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
			result:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.Create(context.Background(), tt.userID)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.result, result)
		})
	}
}

func TestRepository_Credit(t *testing.T) {
	repo, mock, tx := NewMock(t)
	now := time.Now()

	tests := []struct {
		name      string
		walletID  int
		amount    int64
		mockSetup func()
		expectErr bool
		result    *domain.Wallet
	}{
		{
			name:     "Successfully credits wallet",
			walletID: 1,
			amount:   5000,
			mockSetup: func() {
				tx.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, fn func(ctx context.Context) error) error {
					rows := pgxmock.NewRows([]string{"id", "user_id", "balance", "created_at"}).
						AddRow(1, 1, int64(15000), now)
					mock.ExpectQuery(regexp.QuoteMeta(`
		UPDATE wallets
		SET balance = balance + $1
		WHERE id = $2
		RETURNING id, user_id, balance, created_at`)).
						WithArgs(int64(5000), 1).
						WillReturnRows(rows)
					return fn(ctx)
				})
			},
			expectErr: false,
			result: &domain.Wallet{
				ID:        1,
				UserID:    1,
				Balance:   15000,
				CreatedAt: now,
			},
		},
		{
			name:     "Database error",
			walletID: 1,
			amount:   5000,
			mockSetup: func() {
				tx.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, fn func(ctx context.Context) error) error {
					mock.ExpectQuery(regexp.QuoteMeta(`
		UPDATE wallets
		SET balance = balance + $1
		WHERE id = $2
		RETURNING id, user_id, balance, created_at`)).
						WithArgs(int64(5000), 1).
						WillReturnError(errors.New("database error"))
					return fn(ctx)
				})
			},
			expectErr: true,
			result:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.Credit(context.Background(), tt.walletID, tt.amount)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.result, result)
		})
	}
}

func TestRepository_Debit(t *testing.T) {
	repo, mock, tx := NewMock(t)
	now := time.Now()

	tests := []struct {
		name        string
		walletID    int
		amount      int64
		required    int64
		mockSetup   func()
		expectedErr error
		result      *domain.Wallet
	}{
		{
			name:     "Successfully debits wallet",
			walletID: 1,
			amount:   4000,
			required: 4000,
			mockSetup: func() {
				tx.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, fn func(ctx context.Context) error) error {
					rows := pgxmock.NewRows([]string{"id", "user_id", "balance", "created_at"}).
						AddRow(1, 1, int64(6000), now)
					mock.ExpectQuery(regexp.QuoteMeta(`
		UPDATE wallets
		SET balance = balance - $1
		WHERE id = $2 AND balance >= $3
		RETURNING id, user_id, balance, created_at`)).
						WithArgs(int64(4000), 1, int64(4000)).
						WillReturnRows(rows)
					return fn(ctx)
				})
			},
			expectedErr: nil,
			result: &domain.Wallet{
				ID:        1,
				UserID:    1,
				Balance:   6000,
				CreatedAt: now,
			},
		},
		{
			name:     "Balance below required floor",
			walletID: 1,
			amount:   4000,
			required: 10500,
			mockSetup: func() {
				tx.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, fn func(ctx context.Context) error) error {
					mock.ExpectQuery(regexp.QuoteMeta(`
		UPDATE wallets
		SET balance = balance - $1
		WHERE id = $2 AND balance >= $3
		RETURNING id, user_id, balance, created_at`)).
						WithArgs(int64(4000), 1, int64(10500)).
						WillReturnError(pgx.ErrNoRows)
					return fn(ctx)
				})
			},
			expectedErr: ErrBalanceBelowRequired,
			result:      nil,
		},
		{
			name:     "Database error",
			walletID: 1,
			amount:   4000,
			required: 4000,
			mockSetup: func() {
				tx.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, fn func(ctx context.Context) error) error {
					mock.ExpectQuery(regexp.QuoteMeta(`
		UPDATE wallets
		SET balance = balance - $1
		WHERE id = $2 AND balance >= $3
		RETURNING id, user_id, balance, created_at`)).
						WithArgs(int64(4000), 1, int64(4000)).
						WillReturnError(errors.New("database error"))
					return fn(ctx)
				})
			},
			expectedErr: errors.New("database error"),
			result:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.Debit(context.Background(), tt.walletID, tt.amount, tt.required)

			if tt.expectedErr != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedErr.Error(), err.Error())
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.result, result)
		})
	}
}
