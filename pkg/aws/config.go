package aws

import (
	"context"
	"fmt"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

// LoadAWSConfig loads the default credential chain. When endpoint is set (LocalStack),
// every client built from the returned config targets that URL.
func LoadAWSConfig(ctx context.Context, region, endpoint string) (sdkaws.Config, error) {
	opts := []func(*config.LoadOptions) error{}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return cfg, fmt.Errorf("failed to load aws config: %w", err)
	}

	if endpoint != "" {
		signingRegion := cfg.Region
		cfg.EndpointResolverWithOptions = sdkaws.EndpointResolverWithOptionsFunc(
			func(service, r string, _ ...interface{}) (sdkaws.Endpoint, error) {
				sr := signingRegion
				if sr == "" {
					sr = r
				}
				return sdkaws.Endpoint{URL: endpoint, SigningRegion: sr, HostnameImmutable: true}, nil
			})
	}

	return cfg, nil
}
