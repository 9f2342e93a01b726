package secrets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/smithy-go"
)

// SecretsManagerAPI defines the AWS Secrets Manager operations the
// resolver uses. The interface allows mocking AWS SDK calls in unit
// tests; it mirrors the AWS SDK v2 method signatures.
type SecretsManagerAPI interface {
	GetSecretValue(
		ctx context.Context,
		params *secretsmanager.GetSecretValueInput,
		optFns ...func(*secretsmanager.Options),
	) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSResolver resolves secrets from AWS Secrets Manager.
type AWSResolver struct {
	client SecretsManagerAPI
	logger *slog.Logger
}

// AWSOption configures an AWSResolver.
type AWSOption func(*AWSResolver)

// WithSecretsManagerClient replaces the underlying Secrets Manager
// client. Used by tests to inject a mock.
func WithSecretsManagerClient(client SecretsManagerAPI) AWSOption {
	return func(r *AWSResolver) {
		r.client = client
	}
}

// WithAWSLogger sets the structured logger used for resolution metadata.
// Secret values are never logged.
func WithAWSLogger(logger *slog.Logger) AWSOption {
	return func(r *AWSResolver) {
		r.logger = logger
	}
}

// NewAWSResolver creates an AWS Secrets Manager resolver. Credentials
// and region come from the AWS SDK default resolution chain; region can
// be overridden explicitly.
func NewAWSResolver(ctx context.Context, region string, opts ...AWSOption) (*AWSResolver, error) {
	r := &AWSResolver{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.client == nil {
		awsCfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		if region != "" {
			awsCfg.Region = region
		}
		r.client = secretsmanager.NewFromConfig(awsCfg)
	}

	return r, nil
}

// Name returns the provider identifier.
func (r *AWSResolver) Name() string {
	return "aws"
}

// Resolve fetches the named secret's current value. Binary secrets are
// returned as their raw bytes interpreted as a string.
func (r *AWSResolver) Resolve(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", WrapError("secret name cannot be empty", ErrInvalidRef)
	}

	r.logger.Debug("resolving secret", "provider", r.Name(), "name", name)

	output, err := r.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: &name,
	})
	if err != nil {
		return "", r.mapAWSError(name, err)
	}

	switch {
	case output.SecretString != nil:
		return *output.SecretString, nil
	case output.SecretBinary != nil:
		return string(output.SecretBinary), nil
	default:
		return "", WrapError(fmt.Sprintf("secret %q has no value", name), ErrProviderError)
	}
}

// mapAWSError maps AWS SDK errors to the package's error types while
// preserving the original error in the chain.
func (r *AWSResolver) mapAWSError(name string, err error) error {
	var notFound *types.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return fmt.Errorf("secret %q: %w: %w", name, ErrSecretNotFound, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "AccessDeniedException" {
		return fmt.Errorf("secret %q: %w: %w", name, ErrAccessDenied, err)
	}

	return fmt.Errorf("secret %q: %w: %w", name, ErrProviderError, err)
}
