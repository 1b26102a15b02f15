package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-dashboard/infrastructure/integrator/drive"
	"github.com/vfg2006/sales-dashboard/infrastructure/integrator/drive/driveclient"
	"github.com/vfg2006/sales-dashboard/internal/api"
	"github.com/vfg2006/sales-dashboard/internal/cache"
	"github.com/vfg2006/sales-dashboard/internal/config"
	"github.com/vfg2006/sales-dashboard/internal/scheduler"
	"github.com/vfg2006/sales-dashboard/internal/usecases/authenticating"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	driveClient, err := driveclient.NewClient(ctx, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao criar o cliente do Google Drive")
	}

	driveIntegrator := drive.New(cfg, driveClient)

	holder := cache.NewHolder(driveIntegrator, cfg.Cache.TTL())

	allowlist, err := authenticating.LoadAllowlist(cfg.Auth.AuthorizedUsersFile)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao carregar a lista de usuários autorizados")
	}

	logrus.WithField("authorized_users", allowlist.Size()).Info("Lista de usuários autorizados carregada")

	authenticator := authenticating.NewService(cfg, allowlist, authenticating.NewGoogleUserInfo())

	// Inicia o aquecimento do cache em segundo plano
	warmer := scheduler.NewCacheWarmerService(holder, cfg)
	if err := warmer.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de aquecimento do cache")
	} else {
		logrus.Info("Agendador de aquecimento do cache iniciado com sucesso")
	}

	server, err := api.New(cfg, holder, authenticator, warmer)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}
