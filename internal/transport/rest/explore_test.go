package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dailylaw/ledge-backend/internal/domain"
	"github.com/dailylaw/ledge-backend/internal/service/matching"
)

func TestExplore_Results(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, 10)

	var got string
	env.explore.ExploreFunc = func(ctx context.Context, query string) (*matching.ExploreResult, error) {
		got = query
		return &matching.ExploreResult{
			RunID:   "run-e",
			Query:   query,
			Scanned: 45,
			Hits: []matching.ExploreHit{
				{Bill: domain.Bill{Title: "Transit Act", Slug: "transit-act"}, Score: 91, Summary: "s"},
			},
		}, nil
	}

	rec := env.do(http.MethodPost, "/api/explore", `{"query":"public transit"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public transit", got)

	var body exploreResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, 45, body.Scanned)
	require.Len(t, body.Results, 1)
	assert.Equal(t, 91, body.Results[0].Score)
	assert.Equal(t, "transit-act", body.Results[0].Bill.Slug)
}

func TestExplore_EmptyQuery(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, 10)
	env.explore.ExploreFunc = func(ctx context.Context, query string) (*matching.ExploreResult, error) {
		return nil, domain.NewValidationError("query", "required")
	}

	rec := env.do(http.MethodPost, "/api/explore", `{"query":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
