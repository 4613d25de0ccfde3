/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package s3backup stores gzipped tournament snapshots in Amazon S3 for
// offsite backup and restore.
package s3backup

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/mikeb26/scholastic-swiss-td/swiss"
)

const keyPrefix = "snapshots"

var ErrSnapshotNotFound = errors.New("snapshot not found")

// Backups store and retrieve tournament snapshots in an Amazon S3
// bucket.
type Backups struct {
	// Config is the Amazon S3 configuration.
	Config aws.Config

	// Client is the s3 client used when interacting with S3. By default
	// this is initialized in Init() with the default Config, but callers
	// can optionally override this with their own s3 client if desired.
	Client *s3.Client

	bucketName string
}

// New returns Backups with underlying storage in the specified Amazon
// S3 bucket. Callers should invoke Init() on the returned object before
// use.
func New(bucketNameIn string) *Backups {
	return &Backups{
		bucketName: bucketNameIn,
	}
}

// Init loads AWS configuration and verifies the bucket is accessible.
// The default configuration sources are:
// * Environment Variables (e.g. AWS_ACCESS_KEY_ID and AWS_SECRET_KEY)
// * Shared Configuration and Shared Credentials files.
// To use different credentials, modify the returned object's Config and
// Client fields.
func (b *Backups) Init(ctx context.Context) error {
	var err error
	b.Config, err = config.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("s3backup.init: failed to load AWS config: %w", err)
	}
	b.Client = s3.NewFromConfig(b.Config)

	// Permission check: verify bucket exists and is accessible
	if _, err = b.Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(b.bucketName),
	}); err != nil {
		return fmt.Errorf("s3backup.init: head bucket failed for %s: %w",
			b.bucketName, err)
	}

	return nil
}

// Put uploads one tournament snapshot, keyed by tournament id and
// upload time so successive backups never overwrite each other. Returns
// the object key of the stored snapshot.
func (b *Backups) Put(ctx context.Context, snap *swiss.Snapshot) (string,
	error) {

	data, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("s3backup.put: failed to encode snapshot: %w",
			err)
	}

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(data); err != nil {
		return "", fmt.Errorf("s3backup.put: failed to gzip snapshot: %w", err)
	}
	if err := gw.Close(); err != nil {
		return "", fmt.Errorf("s3backup.put: failed to close gzip writer: %w",
			err)
	}

	key := snapshotKey(snap.Tournament.ID, time.Now().UTC())
	input := &s3.PutObjectInput{
		Bucket:          aws.String(b.bucketName),
		Key:             aws.String(key),
		Body:            &buf,
		ContentEncoding: aws.String("gzip"),
	}
	if _, err := b.Client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("s3backup.put: put failed for %v/%v: %w",
			b.bucketName, key, err)
	}

	return key, nil
}

// Get downloads and decodes the snapshot stored under key.
func (b *Backups) Get(ctx context.Context, key string) (*swiss.Snapshot,
	error) {

	input := &s3.GetObjectInput{
		Bucket: aws.String(b.bucketName),
		Key:    aws.String(key),
	}
	resp, err := b.Client.GetObject(ctx, input)
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %v", ErrSnapshotNotFound, key)
		}
		return nil, fmt.Errorf("s3backup.get: failed to get object %v/%v: %w",
			b.bucketName, key, err)
	}
	defer resp.Body.Close()

	gr, err := gzip.NewReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf(
			"s3backup.get: failed to open compressed object %v/%v: %w",
			b.bucketName, key, err)
	}
	defer gr.Close()

	data, err := io.ReadAll(gr)
	if err != nil {
		return nil, fmt.Errorf("s3backup.get: failed to read object %v/%v: %w",
			b.bucketName, key, err)
	}

	var snap swiss.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("s3backup.get: failed to decode snapshot: %w",
			err)
	}

	return &snap, nil
}

// List returns the stored snapshot keys for a tournament, newest first.
// A tournamentID of 0 lists snapshots for all tournaments.
func (b *Backups) List(ctx context.Context, tournamentID int64) ([]string,
	error) {

	prefix := keyPrefix + "/"
	if tournamentID != 0 {
		prefix = fmt.Sprintf("%v/%v/", keyPrefix, tournamentID)
	}

	var keys []string
	paginator := s3.NewListObjectsV2Paginator(b.Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(b.bucketName),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3backup.list: list failed for %v: %w",
				b.bucketName, err)
		}
		for _, obj := range page.Contents {
			if obj.Key != nil && strings.HasSuffix(*obj.Key, ".json.gz") {
				keys = append(keys, *obj.Key)
			}
		}
	}

	// timestamps embed lexicographically, so key order is time order
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	return keys, nil
}

func snapshotKey(tournamentID int64, when time.Time) string {
	return fmt.Sprintf("%v/%v/%v.json.gz", keyPrefix, tournamentID,
		when.Format("20060102T150405Z"))
}
