// Package ssm provides a shared SSM Parameter Store client factory.
// Only this package and the keystore adapter may import the SSM SDK;
// other packages receive the client through their constructors.
package ssm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"
)

// Config holds SSM connection parameters.
type Config struct {
	// Endpoint overrides the default AWS endpoint.
	// Set to a LocalStack URL (e.g. "http://localhost:4566") for local development.
	// When empty, the default AWS endpoint resolver is used.
	Endpoint string

	// Region is the AWS region for the SSM client (e.g. "us-east-1").
	Region string

	// Timeout is the HTTP client timeout for SSM requests.
	Timeout time.Duration
}

// Client wraps the AWS SSM SDK client.
// Adapters access the underlying SDK client via the SSM field.
type Client struct {
	// SSM is the underlying AWS SSM SDK client.
	SSM *awsssm.Client
}

// NewClient creates an SSM client configured from cfg.
// When cfg.Endpoint is non-empty, BaseEndpoint is set on the service client
// for LocalStack compatibility.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if cfg.Endpoint != "" {
		opts = append(opts,
			awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider("test", "test", ""),
			),
		)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	if cfg.Timeout > 0 {
		awsCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	var ssmOpts []func(*awsssm.Options)
	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		ssmOpts = append(ssmOpts, func(o *awsssm.Options) {
			o.BaseEndpoint = &endpoint
		})
	}

	return &Client{
		SSM: awsssm.NewFromConfig(awsCfg, ssmOpts...),
	}, nil
}
