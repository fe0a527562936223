package config

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// ssmClient is the subset of the SSM SDK client used by SSMProvider.
type ssmClient interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// SSMProvider implements SecretProvider by reading SecureString parameters
// from AWS Systems Manager Parameter Store.
//
// The SSM client is created lazily on the first GetParameter call and reused
// for the lifetime of the process, so a cold start that never delivers an
// alert never loads AWS credentials.
type SSMProvider struct {
	region      string
	endpointURL string

	mu     sync.Mutex
	client ssmClient
}

// NewSSMProvider creates an SSMProvider. An empty region defers to the SDK
// default chain; endpointURL is only set for LocalStack.
func NewSSMProvider(region, endpointURL string) *SSMProvider {
	return &SSMProvider{
		region:      region,
		endpointURL: endpointURL,
	}
}

// newSSMProviderWithClient creates a new SSMProvider with an injected SSM client.
func newSSMProviderWithClient(client ssmClient) *SSMProvider {
	return &SSMProvider{client: client}
}

// ensureClient initializes the SSM client if it has not been created yet.
func (p *SSMProvider) ensureClient(ctx context.Context) (ssmClient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return p.client, nil
	}

	var opts []func(*awsconfig.LoadOptions) error
	if p.region != "" {
		opts = append(opts, awsconfig.WithRegion(p.region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SSM (region=%s): %w", p.region, err)
	}

	p.client = ssm.NewFromConfig(cfg, func(o *ssm.Options) {
		if p.endpointURL != "" {
			o.BaseEndpoint = aws.String(p.endpointURL)
		}
	})
	return p.client, nil
}

// GetParameter reads one parameter with decryption enabled.
func (p *SSMProvider) GetParameter(ctx context.Context, name string) (string, error) {
	client, err := p.ensureClient(ctx)
	if err != nil {
		return "", err
	}

	output, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		var notFound *ssmtypes.ParameterNotFound
		if errors.As(err, &notFound) {
			return "", fmt.Errorf("SSM parameter %s not found: %w", name, err)
		}
		return "", fmt.Errorf("SSM GetParameter %s failed: %w", name, err)
	}

	if output.Parameter == nil || output.Parameter.Value == nil {
		return "", fmt.Errorf("SSM parameter %s has no value", name)
	}

	return aws.ToString(output.Parameter.Value), nil
}
