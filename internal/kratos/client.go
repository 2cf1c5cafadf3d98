// Copyright 2026 ApexPro Tecnologia Ltda.
// SPDX-License-Identifier: AGPL-3.0

package kratos

import (
	"context"
	"fmt"
	"net/http"

	ory "github.com/ory/client-go"

	"github.com/apexpro/onboarding-service/internal/logging"
	"github.com/apexpro/onboarding-service/internal/monitoring"
	"github.com/apexpro/onboarding-service/internal/tracing"
)

type ClientInterface interface {
	GetIdentityIDByEmail(ctx context.Context, email string) (string, error)
	CreateIdentity(ctx context.Context, identity *Identity) (string, error)
	DeleteIdentity(ctx context.Context, id string) error
}

// Identity carries everything needed to provision a coach account. The
// password is set directly, there is no verification round trip for
// operator-provisioned accounts.
type Identity struct {
	Email    string
	Password string
	FullName string
	TenantID string
	Role     string
}

type Client struct {
	client  *ory.APIClient
	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func NewClient(kratosAdminURL string, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Client {
	conf := ory.NewConfiguration()
	conf.Servers = ory.ServerConfigurations{{URL: kratosAdminURL}}
	return &Client{
		client:  ory.NewAPIClient(conf),
		tracer:  tracer,
		monitor: monitor,
		logger:  logger,
	}
}

func (c *Client) GetIdentityIDByEmail(ctx context.Context, email string) (string, error) {
	ctx, span := c.tracer.Start(ctx, "kratos.GetIdentityIDByEmail")
	defer span.End()

	// NOTE: we are setting an empty page token because of https://github.com/ory/sdk/issues/461
	ids, r, err := c.client.IdentityAPI.ListIdentities(ctx).CredentialsIdentifier(email).PageToken("").Execute()
	if err != nil {
		if r != nil && r.StatusCode == http.StatusNotFound {
			return "", nil
		}
		return "", fmt.Errorf("failed to list identities: %w", err)
	}

	if len(ids) == 0 {
		return "", nil
	}

	return ids[0].Id, nil
}

func (c *Client) CreateIdentity(ctx context.Context, identity *Identity) (string, error) {
	ctx, span := c.tracer.Start(ctx, "kratos.CreateIdentity")
	defer span.End()

	traits := map[string]interface{}{
		"email": identity.Email,
		"name":  identity.FullName,
	}

	metadata := map[string]interface{}{
		"tenant_id": identity.TenantID,
		"role":      identity.Role,
	}

	body := ory.CreateIdentityBody{
		SchemaId: "default",
		Traits:   traits,
		Credentials: &ory.IdentityWithCredentials{
			Password: &ory.IdentityWithCredentialsPassword{
				Config: &ory.IdentityWithCredentialsPasswordConfig{
					Password: &identity.Password,
				},
			},
		},
		MetadataPublic: metadata,
	}

	created, _, err := c.client.IdentityAPI.CreateIdentity(ctx).CreateIdentityBody(body).Execute()
	if err != nil {
		return "", fmt.Errorf("failed to create identity: %w", err)
	}

	return created.Id, nil
}

func (c *Client) DeleteIdentity(ctx context.Context, id string) error {
	ctx, span := c.tracer.Start(ctx, "kratos.DeleteIdentity")
	defer span.End()

	if _, err := c.client.IdentityAPI.DeleteIdentity(ctx, id).Execute(); err != nil {
		return fmt.Errorf("failed to delete identity: %w", err)
	}

	return nil
}
