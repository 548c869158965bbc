package minio

import "time"

const (
	unknownSize                   int64 = -1
	connectionHealthCheckInterval       = 3 * time.Second
)

// Config defines the top-level configuration for MinIO.
type Config struct {
	Connection     ConnectionConfig
	UploadConfig   UploadConfig
	DownloadConfig DownloadConfig
}

// ConnectionConfig contains MinIO server connection details.
type ConnectionConfig struct {
	Endpoint        string `yaml:"endpoint" envconfig:"MINIO_ENDPOINT"`
	AccessKeyID     string `yaml:"access_key_id" envconfig:"MINIO_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" envconfig:"MINIO_SECRET_ACCESS_KEY"`
	UseSSL          bool   `yaml:"use_ssl" envconfig:"MINIO_USE_SSL"`
	BucketName      string `yaml:"bucket_name" envconfig:"MINIO_BUCKET_NAME"`
	Region          string `yaml:"region" envconfig:"MINIO_REGION"`
}

// UploadConfig defines the configuration for upload constraints.
type UploadConfig struct {
	// MinPartSize is the part size for multipart uploads, e.g. 5 MiB.
	MinPartSize uint64 `yaml:"min_part_size" envconfig:"MINIO_MIN_PART_SIZE"`
}

// DownloadConfig defines the configuration for download behavior.
type DownloadConfig struct {
	// SmallFileThreshold is the size in bytes below which a direct
	// allocation is used instead of the buffer pool.
	SmallFileThreshold int64 `yaml:"small_file_threshold" envconfig:"MINIO_SMALL_FILE_THRESHOLD"`

	// InitialBufferSize is the initial buffer capacity for large files.
	InitialBufferSize int `yaml:"initial_buffer_size" envconfig:"MINIO_INITIAL_BUFFER_SIZE"`
}
