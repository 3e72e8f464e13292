// Package storage provides the object storage backend for staging permit exports.
//
// It wraps the MinIO Go client so that SOURCE_DATA_URL and SOURCE_OUTPUT_PATH
// may point at s3://bucket/key objects on AWS S3 or a self-hosted MinIO.
//
// # Client Interface
//
// The Client interface abstracts the underlying provider, making it easier
// to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Operations
//
//   - BucketExists: Verifies access to a bucket (used by the health check).
//   - GetObject: Retrieves a source export as a stream.
//   - PutObject: Uploads a reordered export.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	bucket, key, err := storage.ParseObjectURL("s3://exports/permits.csv", config.Bucket)
//	body, err := client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
package storage
