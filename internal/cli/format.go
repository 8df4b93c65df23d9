package cli

import (
	"strings"

	"github.com/Aftershock007/antdb/internal/storage"
)

// FormatValue renders a single Value: NULL prints as "NULL", BLOB prints as
// "[blob]", everything else uses its natural text form.
func FormatValue(v storage.Value) string {
	switch {
	case v.IsNull():
		return "NULL"
	case v.Kind == storage.KindBlob:
		return "[blob]"
	default:
		return v.String()
	}
}

// FormatRow joins a projected row's values with "|".
func FormatRow(values []storage.Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = FormatValue(v)
	}
	return strings.Join(parts, "|")
}
