// Package openapi defines the document model the generator operates on:
// raw document wrappers, the schema tree, operation descriptors, and the
// Loader/Parser contracts implemented under internal/openapi.
//
// The package deliberately carries no third-party imports so that consumers
// of the generation pipeline never couple to a specific OpenAPI parsing
// library.
package openapi
