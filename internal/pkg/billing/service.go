package billing

import (
	"sync"

	"github.com/taskfox/taskfox/internal/pkg/invoicepdf"
	"github.com/taskfox/taskfox/internal/pkg/storage"
	"gorm.io/gorm"
)

// InvoiceRenderer renders a billing statement into an artifact (PDF bytes).
type InvoiceRenderer interface {
	Render(doc invoicepdf.Document) ([]byte, error)
}

// Service owns the Order-Payment-Plan lifecycle: order validation, payment
// intents, callback reconciliation, invoices and quota checks.
type Service struct {
	repo     Repository
	gateway  SnapGateway
	renderer InvoiceRenderer
	blobs    storage.BlobStore
}

// NewService creates a billing service from injected dependencies.
func NewService(repo Repository, gateway SnapGateway, renderer InvoiceRenderer, blobs storage.BlobStore) *Service {
	return &Service{repo: repo, gateway: gateway, renderer: renderer, blobs: blobs}
}

// NewServiceFromDB creates a billing service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, gateway SnapGateway, renderer InvoiceRenderer, blobs storage.BlobStore) *Service {
	return NewService(NewRepository(db), gateway, renderer, blobs)
}

var (
	globalService *Service
	serviceOnce   sync.Once
)

// Initialize wires the global billing service once at startup.
func Initialize(repo Repository, gateway SnapGateway, renderer InvoiceRenderer, blobs storage.BlobStore) {
	serviceOnce.Do(func() {
		globalService = NewService(repo, gateway, renderer, blobs)
	})
}

// GetService returns the global billing service instance.
func GetService() *Service {
	if globalService == nil {
		panic("Billing service not initialized. Call Initialize first.")
	}
	return globalService
}
