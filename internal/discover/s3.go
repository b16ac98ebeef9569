// Copyright 2025 Scott Friedman
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package discover

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ParseS3URI splits an "s3://bucket/key/prefix" URI into its bucket and
// key components.
func ParseS3URI(uri string) (bucket, key string, err error) {
	if !strings.HasPrefix(uri, "s3://") {
		return "", "", fmt.Errorf("not an s3:// uri: %s", uri)
	}
	trimmed := strings.TrimPrefix(uri, "s3://")
	parts := strings.SplitN(trimmed, "/", 2)
	bucket = parts[0]
	if bucket == "" {
		return "", "", fmt.Errorf("missing bucket in s3 uri: %s", uri)
	}
	if len(parts) == 2 {
		key = parts[1]
	}
	return bucket, key, nil
}

// S3Backend implements Backend over an S3 bucket. Scanning never downloads
// a whole object up front: a CZI file's FileHeader, directory and metadata
// segments are typically kilobytes against a multi-gigabyte object, so
// Open returns a Source that issues a ranged GetObject per read instead.
type S3Backend struct {
	client *s3.Client
	bucket string
}

// NewS3Backend creates a backend over bucket, using the default AWS
// credential chain.
func NewS3Backend(ctx context.Context, bucket string) (*S3Backend, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &S3Backend{client: s3.NewFromConfig(cfg), bucket: bucket}, nil
}

// List returns every object under prefix.
func (b *S3Backend) List(ctx context.Context, prefix string) ([]FileInfo, error) {
	var files []FileInfo

	paginator := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(b.bucket),
		Prefix: aws.String(prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		for _, obj := range page.Contents {
			if strings.HasSuffix(*obj.Key, "/") {
				continue
			}
			files = append(files, FileInfo{
				Path:    *obj.Key,
				Size:    *obj.Size,
				ModTime: *obj.LastModified,
			})
		}
	}
	return files, nil
}

// Open returns a Source that reads key via ranged GetObject requests, one
// per ReadAt call, rather than buffering the object locally.
func (b *S3Backend) Open(ctx context.Context, path string) (Source, error) {
	head, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return nil, fmt.Errorf("head object: %w", err)
	}
	return &s3Source{
		ctx:    ctx,
		client: b.client,
		bucket: b.bucket,
		key:    path,
		size:   *head.ContentLength,
	}, nil
}

// Close releases nothing: the underlying s3.Client has no explicit
// shutdown.
func (b *S3Backend) Close() error {
	return nil
}

// s3Source adapts a single S3 object to zisraw.SourceFile's positioned-read
// contract via HTTP range requests, so the core reader can open a large CZI
// object and read only the handful of segments it actually needs.
type s3Source struct {
	ctx    context.Context
	client *s3.Client
	bucket string
	key    string
	size   int64
}

// ReadAt issues a ranged GetObject covering [off, off+len(p)) and copies
// the response body into p. A request that runs past the object's end is
// clamped to the object's actual size; the short count then comes back with
// io.EOF, as io.ReaderAt's contract requires for a read past EOF.
func (s *s3Source) ReadAt(p []byte, off int64) (int, error) {
	if off >= s.size {
		return 0, io.EOF
	}
	end := off + int64(len(p)) - 1
	if end >= s.size {
		end = s.size - 1
	}

	out, err := s.client.GetObject(s.ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
		Range:  aws.String(fmt.Sprintf("bytes=%d-%d", off, end)),
	})
	if err != nil {
		return 0, fmt.Errorf("get object range: %w", err)
	}
	defer func() { _ = out.Body.Close() }()

	n, err := io.ReadFull(out.Body, p[:end-off+1])
	if err != nil && err != io.ErrUnexpectedEOF {
		return n, fmt.Errorf("read object range: %w", err)
	}
	if int64(n) < int64(len(p)) && end == s.size-1 {
		return n, io.EOF
	}
	return n, nil
}

// Close is a no-op: each ReadAt opens and closes its own response body.
func (s *s3Source) Close() error {
	return nil
}
