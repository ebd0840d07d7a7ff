package store

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	parquet "github.com/parquet-go/parquet-go"
)

type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader writes objects under Bucket/Prefix.
type Uploader struct {
	Client S3API
	Bucket string
	Prefix string
}

// Key joins the uploader prefix with parts.
func (u *Uploader) Key(parts ...string) string {
	all := make([]string, 0, len(parts)+1)
	if p := strings.Trim(u.Prefix, "/"); p != "" {
		all = append(all, p)
	}
	for _, s := range parts {
		all = append(all, strings.Trim(s, "/"))
	}
	return strings.Join(all, "/")
}

// Location is the s3:// URL of a key or key prefix.
func (u *Uploader) Location(key string) string {
	return fmt.Sprintf("s3://%s/%s", u.Bucket, key)
}

func (u *Uploader) Put(ctx context.Context, key, contentType string, body []byte) error {
	_, err := u.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", u.Bucket, key, err)
	}
	return nil
}

// EncodeParquet serialises rows as a snappy-compressed parquet file using
// the struct's parquet tags.
func EncodeParquet[T any](rows []T) ([]byte, error) {
	var buf bytes.Buffer
	w := parquet.NewWriter(&buf, parquet.SchemaOf(new(T)), parquet.Compression(&parquet.Snappy))
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			_ = w.Close()
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UploadParquet writes rows to <prefix>/<dataset>/part-<stamp>.parquet and
// returns the dataset's s3:// location. Empty input uploads nothing.
func UploadParquet[T any](ctx context.Context, u *Uploader, dataset string, rows []T) (string, error) {
	loc := u.Location(u.Key(dataset) + "/")
	if len(rows) == 0 {
		return loc, nil
	}
	b, err := EncodeParquet(rows)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", dataset, err)
	}
	key := u.Key(dataset, "part-"+nowStamp()+".parquet")
	if err := u.Put(ctx, key, "application/vnd.apache.parquet", b); err != nil {
		return "", err
	}
	return loc, nil
}

func nowStamp() string { return time.Now().UTC().Format("20060102T150405Z") }
