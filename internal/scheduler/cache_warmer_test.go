package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard/infrastructure/integrator/drive/mocks"
	"github.com/vfg2006/sales-dashboard/internal/cache"
	"github.com/vfg2006/sales-dashboard/internal/config"
	"github.com/vfg2006/sales-dashboard/internal/domain"
	"github.com/vfg2006/sales-dashboard/pkg/log"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	log.SetupTestLogger()
	m.Run()
}

func warmerConfig(enabled bool) *config.Config {
	cfg := &config.Config{}
	cfg.CacheWarm.CronSchedule = "*/8 * * * *"
	cfg.CacheWarm.Enabled = enabled
	return cfg
}

func warmerTable() *domain.SalesTable {
	return &domain.SalesTable{
		Records: []domain.SalesRecord{
			{
				Date:   time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
				Item:   "Chocolate Chip",
				Amount: decimal.NewFromInt(100),
			},
		},
	}
}

func TestCacheWarmer(t *testing.T) {
	t.Run("Rodada de aquecimento renova o snapshot e registra o horário", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		fetcher := mocks.NewMockIntegrator(ctrl)
		fetcher.EXPECT().FetchAllRecords(gomock.Any()).Return(warmerTable(), nil).Times(1)

		holder := cache.NewHolder(fetcher, 10*time.Minute)
		warmer := NewCacheWarmerService(holder, warmerConfig(true))

		warmer.warmCache(context.Background())

		status := warmer.GetStatus()
		assert.Equal(t, false, status["warm_running"])
		assert.False(t, status["last_warm_started_at"].(time.Time).IsZero())
		assert.False(t, status["last_warm_ended_at"].(time.Time).IsZero())
		assert.False(t, holder.LastUpdated().IsZero())
	})

	t.Run("Consultas de status concorrentes com o aquecimento não conflitam", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		fetcher := mocks.NewMockIntegrator(ctrl)
		fetcher.EXPECT().
			FetchAllRecords(gomock.Any()).
			DoAndReturn(func(ctx context.Context) (*domain.SalesTable, error) {
				time.Sleep(30 * time.Millisecond)
				return warmerTable(), nil
			}).
			Times(1)

		holder := cache.NewHolder(fetcher, 10*time.Minute)
		warmer := NewCacheWarmerService(holder, warmerConfig(true))

		var wg sync.WaitGroup

		wg.Add(1)
		go func() {
			defer wg.Done()
			warmer.warmCache(context.Background())
		}()

		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 20; j++ {
					_ = warmer.GetStatus()
				}
			}()
		}

		wg.Wait()

		status := warmer.GetStatus()
		assert.Equal(t, false, status["warm_running"])
		assert.False(t, status["last_warm_ended_at"].(time.Time).IsZero())
	})

	t.Run("Desabilitado por configuração não agenda nada", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		fetcher := mocks.NewMockIntegrator(ctrl)
		holder := cache.NewHolder(fetcher, 10*time.Minute)
		warmer := NewCacheWarmerService(holder, warmerConfig(false))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		require.NoError(t, warmer.Start(ctx))
		assert.Equal(t, false, warmer.GetStatus()["warm_enabled"])
	})
}
