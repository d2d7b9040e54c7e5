package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blockblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/lease"
)

// AzureBlob is the Azure Blob Storage implementation of Blob.
//
// Two construction paths exist, mirroring the two credentials a deployment may
// have: a full storage connection string (container is created lazily if
// absent), or a pre-authorized SAS URL pointing directly at one blob. The SAS
// path assumes no container rights, and such a credential may also lack lease
// rights, so callers treat lease acquisition as best-effort.
type AzureBlob struct {
	client          *blockblob.Client
	containerClient *container.Client // nil for the direct SAS path
	containerName   string
	blobName        string
}

var _ Blob = (*AzureBlob)(nil)

// NewAzureBlobFromConnectionString builds a blob handle from a storage account
// connection string plus container and blob names.
func NewAzureBlobFromConnectionString(connectionString, containerName, blobName string) (*AzureBlob, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("storage: parse connection string: %w", err)
	}
	cc := client.ServiceClient().NewContainerClient(containerName)
	return &AzureBlob{
		client:          cc.NewBlockBlobClient(blobName),
		containerClient: cc,
		containerName:   containerName,
		blobName:        blobName,
	}, nil
}

// NewAzureBlobFromURL builds a blob handle from a pre-authorized URL pointing
// directly at the blob (e.g. a SAS URL). containerName and blobName are only
// used for acknowledgements and logs.
func NewAzureBlobFromURL(blobURL, containerName, blobName string) (*AzureBlob, error) {
	client, err := blockblob.NewClientWithNoCredential(blobURL, nil)
	if err != nil {
		return nil, fmt.Errorf("storage: parse blob url: %w", err)
	}
	return &AzureBlob{
		client:        client,
		containerName: containerName,
		blobName:      blobName,
	}, nil
}

func (b *AzureBlob) Container() string { return b.containerName }
func (b *AzureBlob) Name() string      { return b.blobName }

// ensureContainer lazily creates the container on the connection-string path.
// The direct SAS path has no container rights and skips this.
func (b *AzureBlob) ensureContainer(ctx context.Context) error {
	if b.containerClient == nil {
		return nil
	}
	_, err := b.containerClient.Create(ctx, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return fmt.Errorf("storage: create container %s: %w", b.containerName, err)
	}
	return nil
}

func (b *AzureBlob) Download(ctx context.Context) ([]byte, error) {
	resp, err := b.client.DownloadStream(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("storage: download %s/%s: %w", b.containerName, b.blobName, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s/%s: %w", b.containerName, b.blobName, err)
	}
	return data, nil
}

func (b *AzureBlob) Upload(ctx context.Context, data []byte, leaseID string) error {
	if err := b.ensureContainer(ctx); err != nil {
		return err
	}

	opts := &blockblob.UploadBufferOptions{}
	if leaseID != "" {
		opts.AccessConditions = &blob.AccessConditions{
			LeaseAccessConditions: &blob.LeaseAccessConditions{LeaseID: &leaseID},
		}
	}

	if _, err := b.client.UploadBuffer(ctx, data, opts); err != nil {
		if bloberror.HasCode(err,
			bloberror.LeaseIDMismatchWithBlobOperation,
			bloberror.LeaseNotPresentWithBlobOperation,
			bloberror.LeaseIDMissing) {
			return fmt.Errorf("%w: %v", ErrLeaseConflict, err)
		}
		return fmt.Errorf("storage: upload %s/%s: %w", b.containerName, b.blobName, err)
	}
	return nil
}

func (b *AzureBlob) AcquireLease(ctx context.Context, durationSeconds int32) (string, error) {
	if err := b.ensureContainer(ctx); err != nil {
		return "", err
	}

	lc, err := lease.NewBlobClient(b.client, nil)
	if err != nil {
		return "", fmt.Errorf("storage: lease client: %w", err)
	}

	resp, err := lc.AcquireLease(ctx, durationSeconds, nil)
	if err != nil {
		switch {
		case bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound):
			return "", ErrBlobNotFound
		case bloberror.HasCode(err, bloberror.LeaseAlreadyPresent):
			return "", fmt.Errorf("%w: %v", ErrLeaseConflict, err)
		}
		return "", fmt.Errorf("storage: acquire lease: %w", err)
	}
	if resp.LeaseID == nil || *resp.LeaseID == "" {
		return "", fmt.Errorf("storage: acquire lease: no lease id in response")
	}
	return *resp.LeaseID, nil
}

func (b *AzureBlob) ReleaseLease(ctx context.Context, leaseID string) error {
	lc, err := lease.NewBlobClient(b.client, &lease.BlobClientOptions{LeaseID: &leaseID})
	if err != nil {
		return fmt.Errorf("storage: lease client: %w", err)
	}
	if _, err := lc.ReleaseLease(ctx, nil); err != nil {
		return fmt.Errorf("storage: release lease: %w", err)
	}
	return nil
}

// AzureStorage is the Azure Blob Storage implementation of Storage, used for
// product images. Blobs are publicly readable (the container is created with
// blob-level public access) and addressed by their canonical URL.
type AzureStorage struct {
	container     *container.Client
	containerName string
}

var _ Storage = (*AzureStorage)(nil)

// NewAzureStorage creates an AzureStorage writing into containerName.
func NewAzureStorage(connectionString, containerName string) (*AzureStorage, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("storage: parse connection string: %w", err)
	}
	return &AzureStorage{
		container:     client.ServiceClient().NewContainerClient(containerName),
		containerName: containerName,
	}, nil
}

func (s *AzureStorage) Save(ctx context.Context, key string, data io.Reader, contentType string) (string, error) {
	access := container.PublicAccessTypeBlob
	_, err := s.container.Create(ctx, &container.CreateOptions{Access: &access})
	if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return "", fmt.Errorf("storage: create container %s: %w", s.containerName, err)
	}

	bc := s.container.NewBlockBlobClient(key)
	opts := &blockblob.UploadStreamOptions{}
	if contentType != "" {
		opts.HTTPHeaders = &blob.HTTPHeaders{BlobContentType: &contentType}
	}
	if _, err := bc.UploadStream(ctx, data, opts); err != nil {
		return "", fmt.Errorf("storage: upload %s/%s: %w", s.containerName, key, err)
	}
	return bc.URL(), nil
}

func (s *AzureStorage) Delete(ctx context.Context, key string) error {
	_, err := s.container.NewBlockBlobClient(key).Delete(ctx, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
		return fmt.Errorf("storage: delete %s/%s: %w", s.containerName, key, err)
	}
	return nil
}
