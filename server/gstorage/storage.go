package gstorage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"cloud.google.com/go/storage"
	"github.com/Daskott/rolodex/server/logger"
	"google.golang.org/api/option"
)

const TRANSFER_TIMEOUT = 50 * time.Second

var ErrObjectNotExist = storage.ErrObjectNotExist

var logg = logger.NewLogger()

// GStorage copies files between the local disk and a bucket, with every
// object name placed under 'prefix'.
type GStorage struct {
	storageClient *storage.Client
	bucket        string
	prefix        string
}

func NewGStorage(credentialsFilePath, bucket, prefix string) (*GStorage, error) {
	var client *storage.Client
	var err error

	if credentialsFilePath != "" {
		client, err = storage.NewClient(context.Background(), option.WithCredentialsFile(credentialsFilePath))
	} else {
		client, err = storage.NewClient(context.Background())
	}

	if err != nil {
		return nil, fmt.Errorf("NewGStorage: %v", err)
	}

	return &GStorage{storageClient: client, bucket: bucket, prefix: prefix}, nil
}

// ObjectName is the bucket object a local file is stored as.
func (gs *GStorage) ObjectName(filePath string) string {
	return ObjectName(gs.prefix, filePath)
}

func ObjectName(prefix, filePath string) string {
	return path.Join(prefix, filepath.Base(filePath))
}

// UploadFile uploads the file at 'filePath'.
func (gs *GStorage) UploadFile(filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("os.Open: %v", err)
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(context.Background(), TRANSFER_TIMEOUT)
	defer cancel()

	object := gs.ObjectName(filePath)
	wc := gs.storageClient.Bucket(gs.bucket).Object(object).NewWriter(ctx)
	if _, err = io.Copy(wc, f); err != nil {
		return fmt.Errorf("io.Copy: %v", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("Writer.Close: %v", err)
	}

	logg.Infof("Blob %v uploaded to bucket %v", object, gs.bucket)
	return nil
}

// DownloadFile downloads the object stored for 'destFilePath' into that file.
// ErrObjectNotExist is returned as is, and no file is created.
func (gs *GStorage) DownloadFile(destFilePath string) error {
	ctx, cancel := context.WithTimeout(context.Background(), TRANSFER_TIMEOUT)
	defer cancel()

	object := gs.ObjectName(destFilePath)
	rc, err := gs.storageClient.Bucket(gs.bucket).Object(object).NewReader(ctx)
	if err == storage.ErrObjectNotExist {
		return err
	}
	if err != nil {
		return fmt.Errorf("Object(%q).NewReader: %v", object, err)
	}
	defer rc.Close()

	f, err := os.OpenFile(destFilePath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("os.OpenFile: %v", err)
	}

	if _, err := io.Copy(f, rc); err != nil {
		f.Close()
		return fmt.Errorf("io.Copy: %v", err)
	}

	if err = f.Close(); err != nil {
		return fmt.Errorf("f.Close: %v", err)
	}

	logg.Infof("Blob %v downloaded to local file %v", object, destFilePath)
	return nil
}

func (gs *GStorage) Close() error {
	return gs.storageClient.Close()
}
