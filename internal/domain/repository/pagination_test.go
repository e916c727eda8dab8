package repository

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginatedOmitsPageFieldsInAllMode(t *testing.T) {
	listing := &Paginated[string]{Result: []string{"a", "b"}}

	raw, err := json.Marshal(listing)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Contains(t, decoded, "result")
	assert.NotContains(t, decoded, "docsCount")
	assert.NotContains(t, decoded, "limit")
	assert.NotContains(t, decoded, "pages")
	assert.NotContains(t, decoded, "currentPage")
}

func TestPaginatedCarriesPageFieldsInPageMode(t *testing.T) {
	count := int64(11)
	limit, pages, current := 5, 3, 2
	listing := &Paginated[string]{
		Result:      []string{"a"},
		DocsCount:   &count,
		Limit:       &limit,
		Pages:       &pages,
		CurrentPage: &current,
	}

	raw, err := json.Marshal(listing)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.EqualValues(t, 11, decoded["docsCount"])
	assert.EqualValues(t, 5, decoded["limit"])
	assert.EqualValues(t, 3, decoded["pages"])
	assert.EqualValues(t, 2, decoded["currentPage"])
}

func TestPageOfCoercion(t *testing.T) {
	page := PageOf(0, -3)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 5, page.Size)
	assert.False(t, page.All)

	assert.True(t, PageAll().All)
}
