package driveclient

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-dashboard/internal/config"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// Client define o acesso de baixo nível ao Google Drive
type Client interface {
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
}

type DriveClient struct {
	svc     *drive.Service
	timeout time.Duration
}

// NewClient cria um cliente do Drive autenticado com a service account
// configurada. Sem credenciais explícitas, caímos no Application Default
// Credentials do ambiente.
func NewClient(ctx context.Context, cfg *config.Config) (Client, error) {
	opts := []option.ClientOption{
		option.WithScopes(drive.DriveReadonlyScope),
	}

	switch {
	case cfg.Drive.ServiceAccountJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.Drive.ServiceAccountJSON)))
	case cfg.Drive.ServiceAccountFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.Drive.ServiceAccountFile))
	default:
		logrus.Info("Credenciais do Drive não configuradas; usando Application Default Credentials")
	}

	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &DriveClient{
		svc:     svc,
		timeout: cfg.Drive.Timeout(),
	}, nil
}

// DownloadFile baixa o conteúdo binário de um arquivo do Drive
func (c *DriveClient) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.svc.Files.Get(fileID).SupportsAllDrives(true).Context(ctx).Download()
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}
