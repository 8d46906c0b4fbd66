package parser

import (
	"context"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	treeerrors "github.com/vango-dev/statetree/internal/errors"
)

// GetObjectAPI is the part of the S3 client S3Resolver uses. *s3.Client
// implements it.
type GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Resolver resolves names as object keys below a prefix in an S3 bucket.
//
// Example usage:
//
//	client := s3.New(s3.Options{Region: "eu-west-1"})
//	r := parser.NewS3Resolver(client, "my-bucket", "templates/")
//	def, err := parser.ParseFile("page.html", parser.WithContext(ctx, r))
type S3Resolver struct {
	client GetObjectAPI
	bucket string
	prefix string
}

// NewS3Resolver creates a resolver reading objects from bucket.
func NewS3Resolver(client GetObjectAPI, bucket, prefix string) *S3Resolver {
	return &S3Resolver{client: client, bucket: bucket, prefix: prefix}
}

// Resolve implements Resolver.
func (r *S3Resolver) Resolve(name string) (io.ReadCloser, error) {
	return r.ResolveContext(context.Background(), name)
}

// ResolveContext implements ContextResolver.
func (r *S3Resolver) ResolveContext(ctx context.Context, name string) (io.ReadCloser, error) {
	key := r.Key(name)
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, treeerrors.New(treeerrors.CodeResolverIO).
			WithDetailf("get s3://%s/%s", r.bucket, key).
			Wrap(err)
	}
	return out.Body, nil
}

// Key returns the object key for name.
func (r *S3Resolver) Key(name string) string {
	return path.Join(r.prefix, path.Clean("/" + name)[1:])
}
