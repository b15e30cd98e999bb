package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// BlobHostSuffix identifies Azure Blob Storage endpoints.
const BlobHostSuffix = ".blob.core.windows.net"

// BlobStorage reads images stored in Azure Blob Storage.
type BlobStorage interface {
	GetImage(ctx context.Context, blobURL string) ([]byte, error)
}

type azureStorage struct {
	client   *azblob.Client
	maxBytes int64
}

// NewAzureStorage authenticates against accountName with a shared key.
func NewAzureStorage(accountName, accountKey string, maxBytes int64) (BlobStorage, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("azure credential: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s%s/", accountName, BlobHostSuffix),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("azure client: %w", err)
	}

	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	return &azureStorage{client: client, maxBytes: maxBytes}, nil
}

// IsBlobURL reports whether host belongs to Azure Blob Storage.
func IsBlobURL(host string) bool {
	return strings.HasSuffix(strings.ToLower(host), BlobHostSuffix)
}

func (s *azureStorage) GetImage(ctx context.Context, blobURL string) ([]byte, error) {
	parts, err := azblob.ParseURL(blobURL)
	if err != nil {
		return nil, fmt.Errorf("invalid blob URL: %w", err)
	}
	if parts.ContainerName == "" || parts.BlobName == "" {
		return nil, fmt.Errorf("blob URL must name a container and a blob: %s", blobURL)
	}

	resp, err := s.client.DownloadStream(ctx, parts.ContainerName, parts.BlobName, nil)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	body := resp.Body
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("blob exceeds %d bytes", s.maxBytes)
	}
	return data, nil
}
