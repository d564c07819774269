package servicediscover

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"

	"gyansultanat-platform/pkg/config"

	"github.com/hashicorp/consul/api"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("servicediscover", fx.Invoke(RegisterService))

type ConsulRegistry struct {
	client    *api.Client
	serviceID string
	service   *api.AgentServiceRegistration
}

func NewConsulRegistry(address, serviceName, serviceID, host string, port int) (*ConsulRegistry, error) {
	cfg := api.DefaultConfig()
	cfg.Address = address

	client, err := api.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	service := &api.AgentServiceRegistration{
		ID:      serviceID,
		Name:    serviceName,
		Address: host,
		Port:    port,
		Check: &api.AgentServiceCheck{
			HTTP:     fmt.Sprintf("http://%s:%d/readyz", host, port),
			Interval: "10s",
			Timeout:  "5s",
		},
	}

	return &ConsulRegistry{
		client:    client,
		serviceID: serviceID,
		service:   service,
	}, nil
}

func (r *ConsulRegistry) Register(ctx context.Context) error {
	return r.client.Agent().ServiceRegister(r.service)
}

func (r *ConsulRegistry) Deregister(ctx context.Context) error {
	return r.client.Agent().ServiceDeregister(r.serviceID)
}

// RegisterService announces the HTTP server to Consul for the lifetime
// of the process. Skipped when no Consul address is configured.
func RegisterService(lc fx.Lifecycle, cfg *config.Config) error {
	if cfg.Consul.Addr == "" {
		return nil
	}

	host, portStr, err := net.SplitHostPort(cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("parse server addr %q: %w", cfg.Server.Addr, err)
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		if host, err = os.Hostname(); err != nil {
			host = "127.0.0.1"
		}
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("parse server port %q: %w", portStr, err)
	}

	serviceID := fmt.Sprintf("%s-%s-%d", cfg.AppName, host, port)
	registry, err := NewConsulRegistry(cfg.Consul.Addr, cfg.AppName, serviceID, host, port)
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := registry.Register(ctx); err != nil {
				zap.L().Error("failed to register with consul", zap.Error(err))
				return err
			}
			zap.L().Info("registered with consul", zap.String("service_id", serviceID))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return registry.Deregister(ctx)
		},
	})

	return nil
}
