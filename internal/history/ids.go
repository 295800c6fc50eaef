package history

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixState  = "state"
	PrefixAction = "act"
)

func newID(prefix string) string {
	return typeid.MustGenerate(prefix).String()
}

// validateID checks that id is a well-formed identifier with the expected
// prefix.
func validateID(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}
