//go:build tools

package tools

// CLI tools used by go:generate and the migration workflow:
// - github.com/matryer/moq (service and handler test doubles)
// - github.com/pressly/goose/v3/cmd/goose (manual migration runs against migrations/)
