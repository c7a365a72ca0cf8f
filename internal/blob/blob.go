// Package blob stores gallery photos in an S3-compatible bucket.
package blob

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config describes the bucket and how to reach it.
type Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	PublicURL string `mapstructure:"public_url"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
}

// Enabled reports whether an endpoint is configured.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.Endpoint) != ""
}

// Store puts objects into one bucket and hands out their public URLs.
type Store struct {
	cli    *minio.Client
	bucket string
	public *url.URL
}

// endpoint splits an address that may carry a scheme into a host and a TLS
// flag, the form minio.New wants.
func endpoint(address string) (host string, secure bool, err error) {
	if !strings.HasPrefix(address, "http://") && !strings.HasPrefix(address, "https://") {
		return address, false, nil
	}
	u, err := url.Parse(address)
	if err != nil {
		return "", false, err
	}
	if u.Path != "" && u.Path != "/" {
		return "", false, errors.New("endpoint url cannot have a path")
	}
	return u.Host, u.Scheme == "https", nil
}

// New connects to the bucket described by cfg. It does not touch the network.
func New(cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("blob: bucket is required")
	}
	host, secure, err := endpoint(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("blob endpoint: %w", err)
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	cli, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("blob client: %w", err)
	}

	base := cfg.PublicURL
	if base == "" {
		scheme := "http"
		if secure {
			scheme = "https"
		}
		base = scheme + "://" + host
	}
	pub, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return nil, fmt.Errorf("blob public url: %w", err)
	}
	return &Store{cli: cli, bucket: cfg.Bucket, public: pub}, nil
}

// EnsureBucket creates the bucket when missing and makes its objects
// publicly readable.
func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.cli.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		if err := s.cli.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.bucket, err)
		}
	}
	policy, err := PublicReadPolicy(s.bucket)
	if err != nil {
		return err
	}
	if err := s.cli.SetBucketPolicy(ctx, s.bucket, policy); err != nil {
		return fmt.Errorf("set bucket policy: %w", err)
	}
	return nil
}

// Put uploads r under key and returns the object's public URL.
func (s *Store) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.cli.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return s.PublicURL(key), nil
}

// Delete removes key from the bucket.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.cli.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

// PublicURL is the anonymous download address of key.
func (s *Store) PublicURL(key string) string {
	u := *s.public
	u.Path = strings.TrimRight(u.Path, "/") + "/" + s.bucket + "/" + strings.TrimLeft(key, "/")
	return u.String()
}

type bucketPolicy struct {
	Version   string            `json:"Version"`
	Statement []policyStatement `json:"Statement"`
}

type policyStatement struct {
	Effect    string   `json:"Effect"`
	Principal any      `json:"Principal"`
	Action    []string `json:"Action"`
	Resource  []string `json:"Resource"`
}

// PublicReadPolicy returns a bucket policy granting anonymous GetObject on
// every key in bucket.
func PublicReadPolicy(bucket string) (string, error) {
	p := bucketPolicy{
		Version: "2012-10-17",
		Statement: []policyStatement{{
			Effect:    "Allow",
			Principal: map[string][]string{"AWS": {"*"}},
			Action:    []string{"s3:GetObject"},
			Resource:  []string{fmt.Sprintf("arn:aws:s3:::%s/*", bucket)},
		}},
	}
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
