// Package api provides the HTTP API layer of the OpenMusic service.
// It uses the Huma framework on a chi router for automatic OpenAPI
// documentation and request validation.
//
// # Architecture
//
//   - server.go: router, middleware chain and huma configuration
//   - handlers/: HTTP request handlers
//   - dto/: request and response shapes
//   - middleware/: request logging, rate limiting and bearer authentication
//   - response/: the wire envelopes and the error normalizer
//
// # Wire format
//
// Every response body is one of three envelopes:
//
//	{"status": "success", "data": {...}}            2xx
//	{"status": "fail", "message": "..."}            4xx, caused by the caller
//	{"status": "error", "message": "<generic>"}     500, detail only in logs
//
// Handlers never build failure envelopes themselves. They return classified
// errors from core/errors and the normalizer picks the status code. Huma's
// own validation errors are routed through the same normalizer, so a bad
// payload answers 400 with a fail envelope rather than a problem document.
//
// # Usage Example
//
//	normalizer := response.NewNormalizer(logger, "")
//	humaAPI, router := api.NewAPI(api.APIConfig{
//	    Logger:     logger,
//	    Normalizer: normalizer,
//	    Flags:      featureflags.NewEnvManager(""),
//	})
//
//	handlers.NewAlbumHandler(albumService, normalizer).RegisterRoutes(humaAPI)
//
//	http.ListenAndServe(":5000", router)
package api
