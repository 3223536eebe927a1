// Package discovery registers platform services with consul.
package discovery

import (
	"fmt"
	"net"
	"strconv"

	"github.com/google/uuid"
	"github.com/hashicorp/consul/api"
	"github.com/rs/zerolog"
)

// Registration describes a service instance to announce to consul.
type Registration struct {
	ServiceName string
	// Address is the host:port the health check should probe (gRPC health
	// endpoint).
	Address string
}

// Register announces the service to the consul agent at consulAddress and
// returns a deregister function for shutdown.
func Register(consulAddress string, reg Registration, logger *zerolog.Logger) (func() error, error) {
	client, err := api.NewClient(&api.Config{Address: consulAddress})
	if err != nil {
		return nil, err
	}

	host, portStr, err := net.SplitHostPort(reg.Address)
	if err != nil {
		return nil, fmt.Errorf("invalid health address %q: %w", reg.Address, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid health port %q: %w", portStr, err)
	}

	serviceID := fmt.Sprintf("%s-%s", reg.ServiceName, uuid.NewString())

	err = client.Agent().ServiceRegister(&api.AgentServiceRegistration{
		ID:      serviceID,
		Name:    reg.ServiceName,
		Address: host,
		Port:    port,
		Check: &api.AgentServiceCheck{
			GRPC:                           reg.Address,
			Interval:                       "10s",
			Timeout:                        "1s",
			DeregisterCriticalServiceAfter: "1m",
		},
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("service_id", serviceID).
		Str("service_name", reg.ServiceName).
		Msg("registered service with consul")

	return func() error {
		return client.Agent().ServiceDeregister(serviceID)
	}, nil
}
