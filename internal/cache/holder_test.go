package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard/infrastructure/integrator/drive"
	"github.com/vfg2006/sales-dashboard/infrastructure/integrator/drive/mocks"
	"github.com/vfg2006/sales-dashboard/internal/domain"
	"go.uber.org/mock/gomock"
)

func sampleTable() *domain.SalesTable {
	return &domain.SalesTable{
		Records: []domain.SalesRecord{
			{
				Date:     time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
				Customer: "Alice",
				Item:     "Chocolate Chip",
				Amount:   decimal.NewFromInt(100),
				Status:   domain.StatusDelivered,
			},
		},
	}
}

func TestHolderGet(t *testing.T) {
	ctx := context.Background()

	t.Run("Duas chamadas dentro do TTL retornam o mesmo snapshot com uma única busca", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		fetcher := mocks.NewMockIntegrator(ctrl)
		fetcher.EXPECT().FetchAllRecords(gomock.Any()).Return(sampleTable(), nil).Times(1)

		holder := NewHolder(fetcher, 10*time.Minute)

		first, err := holder.Get(ctx)
		require.NoError(t, err)

		second, err := holder.Get(ctx)
		require.NoError(t, err)

		// Mesmo snapshot, não apenas valor igual
		assert.Same(t, first, second)
	})

	t.Run("Snapshot expirado dispara nova busca", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		fetcher := mocks.NewMockIntegrator(ctrl)
		fetcher.EXPECT().FetchAllRecords(gomock.Any()).Return(sampleTable(), nil).Times(2)

		holder := NewHolder(fetcher, 10*time.Minute)

		current := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		holder.now = func() time.Time { return current }

		_, err := holder.Get(ctx)
		require.NoError(t, err)

		// Avança o relógio além do TTL
		current = current.Add(11 * time.Minute)

		_, err = holder.Get(ctx)
		require.NoError(t, err)
	})

	t.Run("ForceRefresh dispara exatamente uma busca mesmo com TTL válido", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		fetcher := mocks.NewMockIntegrator(ctrl)
		fetcher.EXPECT().FetchAllRecords(gomock.Any()).Return(sampleTable(), nil).Times(2)

		holder := NewHolder(fetcher, 10*time.Minute)

		_, err := holder.Get(ctx)
		require.NoError(t, err)

		holder.ForceRefresh()

		_, err = holder.Get(ctx)
		require.NoError(t, err)

		// Busca forçada consumida; esta chamada usa o cache
		_, err = holder.Get(ctx)
		require.NoError(t, err)
	})

	t.Run("Falha na busca com snapshot anterior serve o dado obsoleto", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		fetcher := mocks.NewMockIntegrator(ctrl)
		first := fetcher.EXPECT().FetchAllRecords(gomock.Any()).Return(sampleTable(), nil)
		fetcher.EXPECT().
			FetchAllRecords(gomock.Any()).
			Return(nil, drive.NewFetchError(drive.ErrDownloadFailed, "download", "timeout")).
			After(first)

		holder := NewHolder(fetcher, 10*time.Minute)

		fresh, err := holder.Get(ctx)
		require.NoError(t, err)

		holder.ForceRefresh()

		stale, err := holder.Get(ctx)
		require.NoError(t, err)
		assert.Same(t, fresh, stale)
	})

	t.Run("Falha na busca sem snapshot anterior propaga FetchError", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		fetcher := mocks.NewMockIntegrator(ctrl)
		fetcher.EXPECT().
			FetchAllRecords(gomock.Any()).
			Return(nil, drive.NewFetchError(drive.ErrPermissionDenied, "download", "403"))

		holder := NewHolder(fetcher, 10*time.Minute)

		_, err := holder.Get(ctx)
		require.Error(t, err)
		assert.True(t, drive.IsFetchError(err))
	})

	t.Run("Cache frio com requisições concorrentes faz uma única busca", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		fetcher := mocks.NewMockIntegrator(ctrl)
		fetcher.EXPECT().
			FetchAllRecords(gomock.Any()).
			DoAndReturn(func(context.Context) (*domain.SalesTable, error) {
				// Segura o voo para que todos os leitores o compartilhem
				time.Sleep(50 * time.Millisecond)
				return sampleTable(), nil
			}).
			Times(1)

		holder := NewHolder(fetcher, 10*time.Minute)

		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := holder.Get(ctx)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()
	})
}

func TestHolderLastUpdated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fetcher := mocks.NewMockIntegrator(ctrl)
	fetcher.EXPECT().FetchAllRecords(gomock.Any()).Return(sampleTable(), nil)

	holder := NewHolder(fetcher, 10*time.Minute)

	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	holder.now = func() time.Time { return fixed }

	assert.True(t, holder.LastUpdated().IsZero())

	_, err := holder.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, fixed, holder.LastUpdated())
}
