package main

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/statetree/internal/metrics"
	"github.com/vango-dev/statetree/pkg/template/loader"
	"github.com/vango-dev/statetree/pkg/template/parser"
)

// resolver returns the template source configured in statetree.yaml.
func (a *app) resolver() parser.Resolver {
	if a.cfg.UsesS3() {
		s3cfg := a.cfg.Templates.S3
		region := s3cfg.Region
		if region == "" {
			region = a.getenv("AWS_REGION")
		}
		client := s3.New(s3.Options{
			Region:      region,
			Credentials: envCredentials(a.getenv),
		})
		return parser.NewS3Resolver(client, s3cfg.Bucket, s3cfg.Prefix)
	}
	return parser.NewFSResolver(os.DirFS(a.cfg.TemplatesPath()))
}

// envCredentials reads static credentials from the standard AWS
// environment variables. Without them requests are sent unsigned, which
// works for public buckets.
func envCredentials(getenv func(string) string) aws.CredentialsProvider {
	id, secret := getenv("AWS_ACCESS_KEY_ID"), getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.AnonymousCredentials{}
	}
	creds := aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    getenv("AWS_SESSION_TOKEN"),
		Source:          "EnvironmentVariables",
	}
	return aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		return creds, nil
	})
}

// newLoader builds a loader over the configured resolver whose collectors
// are registered on reg.
func (a *app) newLoader(reg prometheus.Registerer) *loader.Loader {
	m := metrics.New(
		metrics.WithRegistry(reg),
		metrics.WithNamespace(a.cfg.Metrics.Namespace),
	)
	return loader.New(a.resolver(),
		loader.WithLogger(a.logger),
		loader.WithMetrics(m),
	)
}
