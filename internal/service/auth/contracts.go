//go:generate mockgen -source=contracts.go -destination=mocks_test.go -package=auth_test

package auth

import (
	"context"

	"bybud-web/internal/apiclient"
)

type gateway interface {
	Name() string
	Do(ctx context.Context, req apiclient.Request) (*apiclient.Response, error)
}
