// Package core contains the business logic of the OpenMusic API.
// Nothing under core imports huma, chi or a database driver; every external
// dependency is injected through the contracts in core/interfaces.
//
// Sub-packages:
//
//   - domain: albums, songs, like records and the counter key format
//   - albums: album CRUD and cover uploads
//   - songs: song CRUD and filtered listing
//   - likes: like mutations and the cache-aside like counter
//   - services: cover color extraction
//   - errors: the error taxonomy the API layer maps to HTTP statuses
//   - interfaces: contracts for the store, cache, blob storage, tokens and logger
//
// # Usage Example
//
//	import (
//	    "openmusic-api/core/interfaces"
//	    "openmusic-api/core/likes"
//	)
//
//	deps := interfaces.Dependencies{
//	    Store:  myStore,  // implements interfaces.Store
//	    Cache:  myCache,  // implements interfaces.Cache
//	    Logger: myLogger, // implements interfaces.Logger
//	}
//
//	svc := likes.NewService(deps.Store, deps.Cache, deps.Logger, likes.DefaultConfig())
//
//	res, err := svc.GetCount(ctx, "album-42")
//	// res.Origin is "cache" or "server"
package core
