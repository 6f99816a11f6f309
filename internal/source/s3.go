// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"io"
	"iter"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/cockroachdb/errors"

	"github.com/pdiddy/rg-import/internal/ingesterr"
	"github.com/pdiddy/rg-import/internal/versions"
)

// PointerObject is the object under a prefix that names the latest snapshot.
const PointerObject = "latest.txt"

// SnapshotLister discovers every object in the latest harvested snapshot of
// an S3 prefix. The snapshot is named by <prefix>/latest.txt and its objects
// live under <prefix>/<snapshot>/.
type SnapshotLister struct {
	client   s3iface.S3API
	bucket   string
	prefix   string
	source   string
	versions *versions.Store
	events   Events
}

// NewSnapshotLister returns a lister for bucket/prefix. After a complete pass
// it records the snapshot id for source in store.
func NewSnapshotLister(client s3iface.S3API, bucket, prefix, source string, store *versions.Store, events Events) *SnapshotLister {
	if events == nil {
		events = nopEvents{}
	}
	return &SnapshotLister{
		client:   client,
		bucket:   bucket,
		prefix:   prefix,
		source:   source,
		versions: store,
		events:   events,
	}
}

// Describe implements Discovery.
func (l *SnapshotLister) Describe() string {
	return "s3://" + l.bucket + "/" + l.prefix
}

// PointerKey returns the key of the pointer object for prefix.
func PointerKey(prefix string) string {
	return prefix + "/" + PointerObject
}

// SnapshotFolder returns the key prefix holding the objects of snapshotID.
func SnapshotFolder(prefix, snapshotID string) string {
	return prefix + "/" + snapshotID + "/"
}

// ResolveSnapshot reads the pointer object and returns the trimmed snapshot id.
func (l *SnapshotLister) ResolveSnapshot(ctx context.Context) (string, error) {
	key := PointerKey(l.prefix)
	out, err := l.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", errors.WithHint(
			ingesterr.Markf(err, ingesterr.ErrSnapshotResolution, "fetching s3://%s/%s", l.bucket, key),
			"check access to the bucket and that the harvest has completed",
		)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return "", ingesterr.Markf(err, ingesterr.ErrSnapshotResolution, "reading s3://%s/%s", l.bucket, key)
	}

	id := strings.TrimSpace(string(data))
	if id == "" {
		return "", errors.WithHint(
			errors.Mark(errors.Newf("unable to find latest harvest: s3://%s/%s is empty", l.bucket, key), ingesterr.ErrSnapshotResolution),
			"check access to the bucket and that the harvest has completed",
		)
	}
	return id, nil
}

// Documents implements Discovery. Pages are fetched one at a time with marker
// pagination. The version record is written only after the last page has been
// fully consumed.
func (l *SnapshotLister) Documents(ctx context.Context) iter.Seq2[*Document, error] {
	return func(yield func(*Document, error) bool) {
		snapshotID, err := l.ResolveSnapshot(ctx)
		if err != nil {
			yield(nil, err)
			return
		}

		folder := SnapshotFolder(l.prefix, snapshotID)
		l.events.SnapshotResolved(snapshotID, folder)

		input := &s3.ListObjectsInput{
			Bucket: aws.String(l.bucket),
			Prefix: aws.String(folder),
		}
		for {
			page, err := l.client.ListObjectsWithContext(ctx, input)
			if err != nil {
				yield(nil, ingesterr.Markf(err, ingesterr.ErrDiscovery, "listing s3://%s/%s", l.bucket, folder))
				return
			}

			for _, obj := range page.Contents {
				if !yield(l.document(aws.StringValue(obj.Key)), nil) {
					return
				}
			}

			if !aws.BoolValue(page.IsTruncated) {
				break
			}
			marker := nextMarker(page)
			if marker == "" {
				yield(nil, errors.Mark(errors.Newf("listing s3://%s/%s: truncated page without a marker", l.bucket, folder), ingesterr.ErrDiscovery))
				return
			}
			input.Marker = aws.String(marker)
		}

		if err := l.versions.Write(l.source, snapshotID); err != nil {
			yield(nil, err)
			return
		}
		l.events.SnapshotDone(l.bucket, l.prefix)
	}
}

// nextMarker returns the marker for the page after page. S3 only sets
// NextMarker when a delimiter is used; otherwise the last key continues the
// listing.
func nextMarker(page *s3.ListObjectsOutput) string {
	if m := aws.StringValue(page.NextMarker); m != "" {
		return m
	}
	if n := len(page.Contents); n > 0 {
		return aws.StringValue(page.Contents[n-1].Key)
	}
	return ""
}

func (l *SnapshotLister) document(key string) *Document {
	return NewDocument(key, func(ctx context.Context) (io.ReadCloser, error) {
		out, err := l.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
			Bucket: aws.String(l.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return nil, ingesterr.Markf(err, ingesterr.ErrDiscovery, "fetching s3://%s/%s", l.bucket, key)
		}
		return out.Body, nil
	})
}
