package drive

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-dashboard/infrastructure/integrator/drive/driveclient"
	"github.com/vfg2006/sales-dashboard/internal/config"
	"github.com/vfg2006/sales-dashboard/internal/domain"
	"google.golang.org/api/googleapi"
)

// Integrator define a fronteira com a fonte de dados de vendas
type Integrator interface {
	// FetchAllRecords baixa e interpreta a planilha completa,
	// devolvendo um snapshot novo a cada chamada
	FetchAllRecords(ctx context.Context) (*domain.SalesTable, error)
}

type DriveIntegrator struct {
	cfg    *config.Config
	client driveclient.Client
}

// New cria o integrador da planilha de vendas no Google Drive
func New(cfg *config.Config, client driveclient.Client) Integrator {
	return &DriveIntegrator{
		cfg:    cfg,
		client: client,
	}
}

func (s *DriveIntegrator) FetchAllRecords(ctx context.Context) (*domain.SalesTable, error) {
	content, err := s.client.DownloadFile(ctx, s.cfg.Drive.FileID)
	if err != nil {
		return nil, downloadError(err)
	}

	table, err := ParseWorkbook(content, s.cfg.Drive.OrdersSheet, s.cfg.Drive.CustomersSheet)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"records":         len(table.Records),
		"sheet_customers": len(table.SheetCustomers),
		"bytes":           len(content),
	}).Info("drive: planilha de vendas carregada")

	return table, nil
}

// downloadError traduz falhas da API do Drive para os erros da fronteira
func downloadError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 401, 403:
			return NewFetchError(ErrPermissionDenied, "download", apiErr.Message)
		case 404:
			return NewFetchError(ErrFileNotFound, "download", apiErr.Message)
		}
	}

	return NewFetchError(ErrDownloadFailed, "download", err.Error())
}
