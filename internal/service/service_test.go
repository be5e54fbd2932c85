package service

import (
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/doclink/doclink/internal/config"
	"github.com/doclink/doclink/internal/pg"
	"github.com/doclink/doclink/internal/repo"
	"github.com/doclink/doclink/pkg/clients"
)

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mockDB.Close()

	mockTxManager := pg.NewMockTXManager(ctrl)
	mockClient := clients.NewMockHTTPClientI(ctrl)

	cfg := &config.Config{
		CalendarAddress:     "http://localhost:8082",
		NotifyAddress:       "http://localhost:8083",
		MinBalanceMessaging: 4000,
		MinBalanceConsult:   10500,
	}
	repos := repo.New(mockDB, mockTxManager)

	services := New(cfg, repos, mockTxManager, mockClient)

	assert.NotNil(t, services.AuthService)
	assert.NotNil(t, services.WalletService)
	assert.NotNil(t, services.BookingService)
	assert.NotNil(t, services.NotifyService)
}
