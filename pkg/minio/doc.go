// Package minio provides a traced MinIO/S3 object storage client with
// automatic reconnection.
//
// Object operations run inside storage spans ("minio.put", "minio.fetch",
// "minio.stat", "minio.remove") carrying the bucket and object key. A
// background health check triggers reconnection when the server becomes
// unreachable.
//
// Basic Usage:
//
//	client, err := minio.NewClient(minio.Config{
//		Connection: minio.ConnectionConfig{
//			Endpoint:        "localhost:9000",
//			AccessKeyID:     "minioadmin",
//			SecretAccessKey: "minioadmin",
//			BucketName:      "uploads",
//		},
//	}, log, runner)
//	if err != nil {
//		return err
//	}
//
//	written, err := client.Put(ctx, "reports/2026.csv", reader, size)
//	data, err := client.Get(ctx, "reports/2026.csv")
//
// FX Module Integration:
//
//	app := fx.New(
//		minio.FXModule,
//		// ... other modules
//	)
//
// The lifecycle hook starts the connection monitor on startup and stops it on
// shutdown.
package minio
