package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-dashboard/internal/cache"
	"github.com/vfg2006/sales-dashboard/internal/config"
	"github.com/vfg2006/sales-dashboard/pkg/utils"
)

// CacheWarmerConfig representa a configuração do agendador de aquecimento do cache
type CacheWarmerConfig struct {
	CronSchedule string
	Enabled      bool
}

// CacheWarmerService renova o snapshot de vendas em segundo plano para que as
// requisições dos usuários quase nunca esperem pelo download da planilha
type CacheWarmerService struct {
	scheduler         *gocron.Scheduler
	config            CacheWarmerConfig
	holder            *cache.Holder
	warmRunning       bool
	warmMutex         sync.Mutex
	lastWarmStartedAt time.Time
	lastWarmEndedAt   time.Time
}

// NewCacheWarmerService cria uma nova instância do serviço de aquecimento do cache
func NewCacheWarmerService(holder *cache.Holder, appConfig *config.Config) *CacheWarmerService {
	warmerConfig := CacheWarmerConfig{
		CronSchedule: appConfig.CacheWarm.CronSchedule,
		Enabled:      appConfig.CacheWarm.Enabled,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": warmerConfig.CronSchedule,
		"warm_enabled":  warmerConfig.Enabled,
	}).Info("Configuração do agendador de aquecimento do cache carregada")

	return &CacheWarmerService{
		scheduler: gocron.NewScheduler(time.Local),
		config:    warmerConfig,
		holder:    holder,
	}
}

// Start inicia o agendador
func (s *CacheWarmerService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Aquecimento do cache desabilitado por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de aquecimento do cache")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.warmCache(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar aquecimento do cache: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de aquecimento do cache")
		s.scheduler.Stop()
	}()

	return nil
}

// warmCache força uma renovação do snapshot de vendas
func (s *CacheWarmerService) warmCache(ctx context.Context) {
	startTime := time.Now()

	s.warmMutex.Lock()
	if s.warmRunning {
		s.warmMutex.Unlock()
		logrus.Info("Aquecimento do cache já em andamento, ignorando")
		return
	}
	s.warmRunning = true
	s.lastWarmStartedAt = startTime
	s.warmMutex.Unlock()

	defer func() {
		s.warmMutex.Lock()
		s.warmRunning = false
		s.warmMutex.Unlock()
	}()

	// Identificador curto para correlacionar os logs de uma mesma rodada
	runID, _ := utils.GenerateID()

	logrus.WithField("warm_id", runID).Info("Iniciando aquecimento do cache de vendas")

	s.holder.ForceRefresh()

	table, err := s.holder.Get(ctx)
	if err != nil {
		logrus.WithError(err).WithField("warm_id", runID).Error("Erro ao renovar snapshot de vendas durante o aquecimento")
		return
	}

	logrus.WithFields(logrus.Fields{
		"warm_id":  runID,
		"duration": time.Since(startTime).String(),
		"records":  len(table.Records),
	}).Info("Aquecimento do cache de vendas concluído")

	s.warmMutex.Lock()
	s.lastWarmEndedAt = time.Now()
	s.warmMutex.Unlock()
}

// GetStatus retorna o status atual do aquecimento
func (s *CacheWarmerService) GetStatus() map[string]any {
	s.warmMutex.Lock()
	defer s.warmMutex.Unlock()

	return map[string]any{
		"warm_running":         s.warmRunning,
		"warm_cron":            s.config.CronSchedule,
		"warm_enabled":         s.config.Enabled,
		"last_warm_started_at": s.lastWarmStartedAt,
		"last_warm_ended_at":   s.lastWarmEndedAt,
		"snapshot_updated_at":  s.holder.LastUpdated(),
	}
}
