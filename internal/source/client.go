// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/client"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/cockroachdb/errors"

	"github.com/pdiddy/rg-import/internal/secrets"
	"github.com/pdiddy/rg-import/pkg/types"
)

const defaultMaxRetries = 10

// NewS3Client builds an S3 client. Static credentials win over a named
// profile; with neither, the SDK default chain (environment, shared file,
// instance role) applies.
func NewS3Client(cfg types.AWSConfig, creds *secrets.AWSCredentials) (s3iface.S3API, error) {
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	config := &aws.Config{
		// retry on throttling and ephemeral AWS errors; the pipeline itself never retries
		Retryer: client.DefaultRetryer{NumMaxRetries: maxRetries},
	}
	switch {
	case creds != nil:
		config.Credentials = credentials.NewStaticCredentials(creds.AccessKeyID, creds.SecretAccessKey, creds.SessionToken)
	case cfg.Profile != "":
		config.Credentials = credentials.NewSharedCredentials("", cfg.Profile)
	}
	if cfg.Region != "" {
		config.Region = aws.String(cfg.Region)
	}

	sess, err := session.NewSession(config)
	if err != nil {
		return nil, errors.Wrap(err, "creating AWS session")
	}
	return s3.New(sess), nil
}
