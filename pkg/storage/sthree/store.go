// Package sthree implements the S3 object store backend. Keys are
// mapped to objects by prepending a configurable path prefix, so
// several stores can share one bucket.
package sthree

import (
	"context"
	"io/ioutil"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/scode/shastity/pkg/bytebuf"
	"github.com/scode/shastity/pkg/storage"
)

const defaultPageSize = 1000

// Option for the S3 store
type Option func(*s3Store)

// Bucket sets the bucket name
func Bucket(bucket string) Option {
	return func(s *s3Store) {
		s.bucket = bucket
	}
}

// Prefix sets the key-space path prefix inside the bucket
func Prefix(prefix string) Option {
	return func(s *s3Store) {
		s.prefix = prefix
	}
}

// AWSConfig sets the client configuration (credentials, region,
// endpoint)
func AWSConfig(cfg *aws.Config) Option {
	return func(s *s3Store) {
		s.awsConfig = cfg
	}
}

// PageSize sets the listing page size
func PageSize(n int64) Option {
	return func(s *s3Store) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// New creates an S3 backed store.
func New(option Option, options ...Option) storage.Store {
	s := &s3Store{pageSize: defaultPageSize}
	option(s)
	for _, apply := range options {
		apply(s)
	}
	s.s3 = s3.New(session.Must(session.NewSession(s.awsConfig)))
	return s
}

type s3Store struct {
	bucket    string
	prefix    string
	pageSize  int64
	awsConfig *aws.Config
	s3        s3iface.S3API
}

func (s *s3Store) String() string {
	return "s3@" + s.bucket + "/" + s.prefix
}

func (s *s3Store) path(key string) string {
	return s.prefix + key
}

func (s *s3Store) Has(ctx context.Context, key string) (bool, error) {
	_, err := s.s3.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.path(key)),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, toSentinelErrors(err)
	}
	return true, nil
}

func (s *s3Store) Get(ctx context.Context, key string) (bytebuf.Buffer, bool, error) {
	obj, err := s.s3.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.path(key)),
	})
	if err != nil {
		if isNotFound(err) {
			return bytebuf.Buffer{}, false, nil
		}
		return bytebuf.Buffer{}, false, toSentinelErrors(err)
	}
	defer obj.Body.Close()

	b, err := ioutil.ReadAll(obj.Body)
	if err != nil {
		return bytebuf.Buffer{}, false, err
	}
	return bytebuf.Wrap(b), true, nil
}

func (s *s3Store) Put(ctx context.Context, key string, data bytebuf.Buffer) error {
	_, err := s.s3.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.path(key)),
		Body:   data.NewReader(),
	})
	return toSentinelErrors(err)
}

// PutIfAbsent is check-then-put: the S3 API has no conditional
// create, so two concurrent writers may both upload. For
// content-addressed keys the race is benign since both bodies are
// identical.
func (s *s3Store) PutIfAbsent(ctx context.Context, key string, data bytebuf.Buffer) error {
	has, err := s.Has(ctx, key)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	return s.Put(ctx, key, data)
}

func (s *s3Store) Delete(ctx context.Context, key string) error {
	// S3 DeleteObject succeeds on absent keys
	_, err := s.s3.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.path(key)),
	})
	return toSentinelErrors(err)
}

// Keys lists one page per backend round trip, continuing from the
// last key of the previous page while the backend reports truncation.
// The shared path prefix is stripped from every returned key.
func (s *s3Store) Keys(ctx context.Context) *storage.KeyIterator {
	return storage.NewKeyIterator(func(ctx context.Context, token string) ([]string, string, error) {
		marker := ""
		if token != "" {
			marker = s.path(token)
		}
		out, err := s.s3.ListObjectsWithContext(ctx, &s3.ListObjectsInput{
			Bucket:  aws.String(s.bucket),
			Prefix:  aws.String(s.prefix),
			Marker:  aws.String(marker),
			MaxKeys: aws.Int64(s.pageSize),
		})
		if err != nil {
			return nil, "", toSentinelErrors(err)
		}

		keys := make([]string, 0, len(out.Contents))
		for _, obj := range out.Contents {
			key := strings.TrimPrefix(aws.StringValue(obj.Key), s.prefix)
			if key != "" {
				keys = append(keys, key)
			}
		}

		if aws.BoolValue(out.IsTruncated) && len(keys) > 0 {
			return keys, keys[len(keys)-1], nil
		}
		return keys, "", nil
	})
}
