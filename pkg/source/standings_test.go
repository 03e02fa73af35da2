package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const driverStandingsBody = `{
	"MRData": {
		"total": "2",
		"StandingsTable": {
			"season": "2025",
			"StandingsLists": [{
				"season": "2025",
				"round": "9",
				"DriverStandings": [
					{
						"position": "1",
						"points": "198",
						"wins": "5",
						"Driver": {"givenName": "Oscar", "familyName": "Piastri", "nationality": "Australian"},
						"Constructors": [{"name": "McLaren"}]
					},
					{
						"position": "2",
						"points": "188.5",
						"wins": "4",
						"Driver": {"givenName": "Lando", "familyName": "Norris", "nationality": "British"},
						"Constructors": [{"name": "McLaren"}]
					}
				]
			}]
		}
	}
}`

const constructorStandingsBody = `{
	"MRData": {
		"total": "1",
		"StandingsTable": {
			"season": "2025",
			"StandingsLists": [{
				"season": "2025",
				"round": "9",
				"ConstructorStandings": [
					{
						"position": "1",
						"points": "386.5",
						"wins": "9",
						"Constructor": {"name": "McLaren", "nationality": "British"}
					}
				]
			}]
		}
	}
}`

const emptyStandingsBody = `{
	"MRData": {
		"total": "0",
		"StandingsTable": {"season": "2026", "StandingsLists": []}
	}
}`

func standingsServer(t *testing.T, driverBody, constructorBody string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "driverstandings"):
			fmt.Fprint(w, driverBody)
		case strings.Contains(r.URL.Path, "constructorstandings"):
			fmt.Fprint(w, constructorBody)
		default:
			http.NotFound(w, r)
		}
	}))

	t.Cleanup(srv.Close)
	return srv
}

func TestStandings(t *testing.T) {
	srv := standingsServer(t, driverStandingsBody, constructorStandingsBody)

	standings, err := NewErgast(srv.URL).Standings(context.Background(), 2025)
	require.NoError(t, err)

	assert.Equal(t, 2025, standings.Season)
	assert.True(t, standings.SeasonStarted)
	require.NotNil(t, standings.Round)
	assert.Equal(t, 9, *standings.Round)

	require.Len(t, standings.Drivers, 2)
	assert.Equal(t, "Oscar Piastri", standings.Drivers[0].Name)
	assert.Equal(t, "McLaren", standings.Drivers[0].Team)
	assert.Equal(t, 198.0, standings.Drivers[0].Points)
	assert.Equal(t, 5, standings.Drivers[0].Wins)
	assert.Equal(t, 188.5, standings.Drivers[1].Points)

	require.Len(t, standings.Constructors, 1)
	assert.Equal(t, "McLaren", standings.Constructors[0].Name)
	assert.Equal(t, 386.5, standings.Constructors[0].Points)
}

func TestStandingsPreSeason(t *testing.T) {
	srv := standingsServer(t, emptyStandingsBody, emptyStandingsBody)

	standings, err := NewErgast(srv.URL).Standings(context.Background(), 2026)
	require.NoError(t, err)

	assert.False(t, standings.SeasonStarted)
	assert.Nil(t, standings.Round)
	assert.Empty(t, standings.Drivers)
	assert.Empty(t, standings.Constructors)

	// Empty tables serialize as [], not null.
	assert.NotNil(t, standings.Drivers)
	assert.NotNil(t, standings.Constructors)
}

func TestStandingsRetriesTransientErrors(t *testing.T) {
	var calls int64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// First request of each path fails with a retryable status.
		if atomic.AddInt64(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		if strings.Contains(r.URL.Path, "driverstandings") {
			fmt.Fprint(w, driverStandingsBody)
		} else {
			fmt.Fprint(w, constructorStandingsBody)
		}
	}))
	t.Cleanup(srv.Close)

	standings, err := NewErgast(srv.URL).Standings(context.Background(), 2025)
	require.NoError(t, err)
	assert.True(t, standings.SeasonStarted)
	assert.GreaterOrEqual(t, atomic.LoadInt64(&calls), int64(3))
}

func TestStandingsSurfacesPersistentErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	// 404 is not retryable and surfaces immediately.
	e := NewErgast(srv.URL + "/missing")
	_, err := e.Standings(context.Background(), 2025)
	require.Error(t, err)
}
