// Package s3source loads a collex.CollectionController's items from a
// single newline-delimited JSON (NDJSON) object in S3.
package s3source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/wayneeseguin/collex"
)

// Config describes where in S3 the NDJSON object lives.
type Config struct {
	Region   string
	Bucket   string
	Key      string
	Endpoint string // non-empty for S3-compatible stores (minio, etc.)
}

// NewClient builds an s3iface.S3API from cfg.
func NewClient(cfg Config) (s3iface.S3API, error) {
	options := session.Options{
		Config:            aws.Config{},
		SharedConfigState: session.SharedConfigEnable,
	}
	if cfg.Region != "" {
		options.Config.Region = aws.String(cfg.Region)
	}
	if cfg.Endpoint != "" {
		options.Config.Endpoint = aws.String(cfg.Endpoint)
		options.Config.S3ForcePathStyle = aws.Bool(true)
	}
	sess, err := session.NewSessionWithOptions(options)
	if err != nil {
		return nil, fmt.Errorf("s3source: creating AWS session: %s", err)
	}
	return s3.New(sess), nil
}

// LoadAll fetches cfg.Key from cfg.Bucket and decodes it as NDJSON, one
// value of type T per line. Blank lines are skipped.
func LoadAll[T any](client s3iface.S3API, cfg Config) ([]T, error) {
	out, err := client.GetObject(&s3.GetObjectInput{Bucket: aws.String(cfg.Bucket), Key: aws.String(cfg.Key)})
	if err != nil {
		return nil, fmt.Errorf("s3source: fetching s3://%s/%s: %s", cfg.Bucket, cfg.Key, err)
	}
	defer out.Body.Close()

	var items []T
	scanner := bufio.NewScanner(out.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var item T
		if err := json.Unmarshal(line, &item); err != nil {
			return nil, fmt.Errorf("s3source: decoding s3://%s/%s line %d: %s", cfg.Bucket, cfg.Key, lineNum, err)
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("s3source: reading s3://%s/%s: %s", cfg.Bucket, cfg.Key, err)
	}
	return items, nil
}

// Sync replaces controller's items with the ones loaded from cfg via
// client.
func Sync[T any, K comparable](client s3iface.S3API, cfg Config, controller *collex.CollectionController[T, K]) error {
	items, err := LoadAll[T](client, cfg)
	if err != nil {
		return err
	}
	if err := controller.Clear(); err != nil {
		return err
	}
	return controller.AddAll(items)
}
