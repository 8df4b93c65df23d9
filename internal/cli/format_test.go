package cli

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Aftershock007/antdb/internal/storage"
)

func TestFormatValue(t *testing.T) {
	require.Equal(t, "NULL", FormatValue(storage.Null()))
	require.Equal(t, "[blob]", FormatValue(storage.Blob([]byte{1, 2})))
	require.Equal(t, "42", FormatValue(storage.Int(42)))
	require.Equal(t, "hello", FormatValue(storage.Str("hello")))
}

func TestFormatRow(t *testing.T) {
	row := []storage.Value{storage.Str("a"), storage.Null(), storage.Int(1)}
	require.Equal(t, "a|NULL|1", FormatRow(row))
}
