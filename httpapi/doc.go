// Package httpapi provides the HTTP surface of the Libris library service.
//
// This package implements a RESTful API for book records and their remote
// assets, with JWT bearer-token authentication on every mutating route.
//
// # Features
//
//   - Public reads: GET /books and GET /books/{bookID}
//   - Authenticated mutations: POST, PATCH, DELETE under /books
//   - Multipart upload handling delegated to an UploadReceiver
//   - User registration and login issuing JWT access tokens
//   - JSON error responses with stable machine-readable codes
//   - Configurable CORS support
//
// # Authentication
//
// Mutating routes sit behind AuthMiddleware, which expects an
// "Authorization: Bearer <token>" header, verifies the token through the
// TokenVerifier interface, and injects the authenticated principal into the
// request context:
//
//	tokens, _ := auth.NewTokenManager(secret, 24*time.Hour)
//	router.Use(httpapi.AuthMiddleware(tokens))
//
// Handlers recover the caller with PrincipalFromContext.
//
// # Usage
//
// Create a handler with HandlerConfig:
//
//	handlerCfg := httpapi.HandlerConfig{
//	    Verifier: tokens,
//	    CORS:     httpapi.CORSConfig{Enabled: true, AllowedOrigins: []string{"*"}},
//	}
//	handler := httpapi.NewHandler(&handlerCfg, service, users, receiver)
//	http.ListenAndServe(":8080", handler.Router())
//
// The service parameter must implement the Service interface; users and
// receiver supply account management and multipart staging respectively.
package httpapi
