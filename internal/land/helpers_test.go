package land

import (
	"testing"

	"github.com/woozymasta/landmap/internal/geo"

	"github.com/stretchr/testify/require"
)

var testBounds = geo.Bounds{
	North: 40.800776,
	South: 40.764046,
	East:  -73.949297,
	West:  -73.981762,
}

func newTransformer(t *testing.T) *geo.Transformer {
	t.Helper()
	tr, err := geo.NewTransformer(testBounds, 20)
	require.NoError(t, err)
	return tr
}

func ptr(s string) *string { return &s }
