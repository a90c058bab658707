package search

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFuseRRFDisjointLists(t *testing.T) {
	assert := require.New(t)

	results := fuseRRF([]ranked{{id: "a"}, {id: "b"}}, []ranked{{id: "c"}, {id: "d"}})
	assert.Len(results, 4)
	// equal ranks tie, broken by id
	assert.Equal("a", results[0].id)
	assert.Equal("c", results[1].id)
}

func TestFuseRRFOverlappingLists(t *testing.T) {
	assert := require.New(t)

	results := fuseRRF(
		[]ranked{{id: "a"}, {id: "b"}, {id: "c"}},
		[]ranked{{id: "b"}, {id: "d"}, {id: "a"}},
	)
	assert.Len(results, 4)

	// "b": 1/62 + 1/61 beats "a": 1/61 + 1/63
	assert.Equal("b", results[0].id)
	assert.Equal("a", results[1].id)
	assert.InDelta(1.0/62+1.0/61, results[0].score, 1e-12)
}

func TestFuseRRFEmpty(t *testing.T) {
	assert := require.New(t)
	assert.Empty(fuseRRF(nil, nil))
}

func TestTextToVector(t *testing.T) {
	assert := require.New(t)

	vector := textToVector("Supabase и pgvector, supabase!", vectorDimension)
	assert.Len(vector, vectorDimension)
	assert.InDelta(1.0, cosine(vector, vector), 1e-9)

	same := textToVector("SUPABASE pgvector и supabase", vectorDimension)
	assert.InDelta(1.0, cosine(vector, same), 1e-9)

	empty := textToVector("  ...  ", vectorDimension)
	assert.Zero(cosine(vector, empty))
}

func TestPaginate(t *testing.T) {
	assert := require.New(t)
	ranking := []ranked{{id: "a"}, {id: "b"}, {id: "c"}}

	assert.Len(paginate(ranking, 2, 0), 2)
	assert.Equal("c", paginate(ranking, 2, 2)[0].id)
	assert.Empty(paginate(ranking, 2, 10))
	assert.Len(paginate(ranking, 0, 1), 2)
}
