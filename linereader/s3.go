package linereader

import (
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/pkg/errors"
)

// S3Client overrides the client used for s3:// paths. Tests inject a
// fake here; when nil, a client is built from the default AWS session,
// so region and credentials come from the usual environment.
var S3Client s3iface.S3API

func openS3(path string) (io.ReadCloser, error) {
	u, err := url.Parse(path)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing S3 URL %v", path)
	}
	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")

	client := S3Client
	if client == nil {
		sess, err := session.NewSession(&aws.Config{})
		if err != nil {
			return nil, errors.Wrap(err, "creating S3 session")
		}
		client = s3.New(sess)
	}

	result, err := client.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok {
			switch aerr.Code() {
			case s3.ErrCodeNoSuchBucket, s3.ErrCodeNoSuchKey:
				return nil, ErrNotFound
			}
		}
		return nil, errors.Wrapf(err, "fetching S3 object %v", path)
	}
	return result.Body, nil
}
