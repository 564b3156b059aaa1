// Package lock serializes work on a string key, either across processes via
// Redis or within one process.
package lock

import (
	"fmt"
	"strings"
)

// Key builds a lock key from its parts, e.g. Key("version", tenant, product, field).
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

func keyError(key string, err error) error {
	return fmt.Errorf("lock %s: %w", key, err)
}
