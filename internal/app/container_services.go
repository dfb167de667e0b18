package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"bybud-web/internal/apiclient"
	"bybud-web/internal/config"
	"bybud-web/internal/logx"
	"bybud-web/internal/service/auth"
	"bybud-web/internal/service/delivery"
	"bybud-web/internal/service/user"
)

type clientsIn struct {
	dig.In

	Config   *config.Config
	Logger   logx.Logger
	Requests *prometheus.CounterVec `name:"gateway_requests_total"`
}

func registerDomainServices(container *dig.Container) error {
	return provideAll(container,
		func(in clientsIn) apiclient.Clients {
			return apiclient.NewClients(in.Config.Gateway.URL, in.Config.Gateway.Timeout, in.Logger, in.Requests)
		},
		func(c apiclient.Clients, logger logx.Logger) *auth.Service {
			return auth.New(c.Auth, logger)
		},
		func(c apiclient.Clients, logger logx.Logger) *user.Service {
			return user.New(c.User, logger)
		},
		func(c apiclient.Clients, logger logx.Logger) *delivery.Service {
			return delivery.New(c.Delivery, logger)
		},
	)
}
