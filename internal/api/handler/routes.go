package handler

import (
	"net/http"

	"github.com/vfg2006/sales-dashboard/internal/api/handler/router"
	"github.com/vfg2006/sales-dashboard/internal/cache"
	"github.com/vfg2006/sales-dashboard/internal/config"
	"github.com/vfg2006/sales-dashboard/internal/scheduler"
	"github.com/vfg2006/sales-dashboard/internal/usecases/authenticating"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Authentication(service authenticating.Authenticator, cfg *config.Config) []router.Route {
	return []router.Route{
		{
			Path:    "/",
			Method:  http.MethodGet,
			Handler: IndexPage(service),
		},
		{
			Path:    "/login",
			Method:  http.MethodGet,
			Handler: Login(service),
		},
		{
			Path:    "/oauth/callback",
			Method:  http.MethodGet,
			Handler: OAuthCallback(service, cfg),
		},
		{
			Path:    "/logout",
			Method:  http.MethodGet,
			Handler: Logout(service),
		},
	}
}

func Dashboard(holder *cache.Holder) []router.Route {
	return []router.Route{
		{
			Path:    "/dashboard",
			Method:  http.MethodGet,
			Handler: DashboardPage(holder),
		},
		{
			Path:    "/refresh",
			Method:  http.MethodGet,
			Handler: RefreshSnapshot(holder),
		},
	}
}

func Charts(holder *cache.Holder) []router.Route {
	return []router.Route{
		{
			Path:    "/charts/items.png",
			Method:  http.MethodGet,
			Handler: ItemShareChart(holder),
		},
		{
			Path:    "/charts/trend.png",
			Method:  http.MethodGet,
			Handler: TrendChart(holder),
		},
	}
}

func Reports(holder *cache.Holder, warmer *scheduler.CacheWarmerService) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/customers",
			Method:  http.MethodGet,
			Handler: ListCustomers(holder),
		},
		{
			Path:    "/v1/summary",
			Method:  http.MethodGet,
			Handler: GetSummary(holder),
		},
		{
			Path:    "/v1/snapshot/status",
			Method:  http.MethodGet,
			Handler: GetSnapshotStatus(warmer),
		},
	}
}
