package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// AzureBackend implements Backend for reading a model corpus out of
// an Azure Blob Storage container, authenticated via the
// AZURE_STORAGE_CONNECTION_STRING environment variable.
type AzureBackend struct {
	client    *azblob.Client
	container string
	prefix    string
}

// NewAzureBackend opens container using the connection string found
// in the environment.
func NewAzureBackend(container, prefix string) (*AzureBackend, error) {
	connStr := os.Getenv("AZURE_STORAGE_CONNECTION_STRING")
	if connStr == "" {
		return nil, fmt.Errorf("AZURE_STORAGE_CONNECTION_STRING not set")
	}

	client, err := azblob.NewClientFromConnectionString(connStr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure client: %w", err)
	}

	return &AzureBackend{client: client, container: container, prefix: prefix}, nil
}

// Type returns the backend type.
func (a *AzureBackend) Type() string {
	return "azure"
}

// Get downloads key from the container.
func (a *AzureBackend) Get(ctx context.Context, key string) ([]byte, error) {
	blobClient := a.client.ServiceClient().NewContainerClient(a.container).NewBlobClient(a.fullKey(key))

	downloadResponse, err := blobClient.DownloadStream(ctx, nil)
	if err != nil {
		if isNotFoundError(err) {
			return nil, fmt.Errorf("blob not found: %s", key)
		}
		return nil, fmt.Errorf("failed to download blob: %w", err)
	}
	defer downloadResponse.Body.Close()

	data, err := io.ReadAll(downloadResponse.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob: %w", err)
	}

	return data, nil
}

// Exists checks blob existence via GetProperties.
func (a *AzureBackend) Exists(ctx context.Context, key string) (bool, error) {
	blobClient := a.client.ServiceClient().NewContainerClient(a.container).NewBlobClient(a.fullKey(key))

	_, err := blobClient.GetProperties(ctx, nil)
	if err != nil {
		if isNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check blob existence: %w", err)
	}

	return true, nil
}

// List pages through every blob under prefix.
func (a *AzureBackend) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	containerClient := a.client.ServiceClient().NewContainerClient(a.container)
	full := a.fullKey(prefix)
	pager := containerClient.NewListBlobsFlatPager(&azblob.ListBlobsFlatOptions{Prefix: &full})

	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list blobs: %w", err)
		}
		for _, blob := range page.Segment.BlobItems {
			if blob.Name != nil {
				keys = append(keys, strings.TrimPrefix(*blob.Name, a.prefix))
			}
		}
	}

	return keys, nil
}

func (a *AzureBackend) fullKey(key string) string {
	if a.prefix == "" {
		return key
	}
	return a.prefix + strings.TrimPrefix(key, "/")
}

func isNotFoundError(err error) bool {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode == 404
	}
	return false
}
