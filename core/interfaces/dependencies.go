// ABOUTME: Dependencies container provides dependency injection for core services
// ABOUTME: Built once in cmd/api and handed to every service constructor

package interfaces

// Dependencies holds all external dependencies required by the core business logic
type Dependencies struct {
	// Store is the relational source of truth
	Store Store

	// Cache accelerates like counts
	Cache Cache

	// Blobs stores album cover images
	Blobs BlobStorage

	// Logger provides structured logging
	Logger Logger
}
