package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/pitwall/pitwall/pkg/model"
)

// DefaultStandingsBase is the Ergast-compatible API serving current
// season data.
const DefaultStandingsBase = "https://api.jolpi.ca/ergast/f1"

// Ergast fetches driver and constructor standings from an
// Ergast-compatible REST API.
type Ergast struct {
	base   string
	client *http.Client
}

func NewErgast(base string) *Ergast {
	if base == "" {
		base = DefaultStandingsBase
	}

	return &Ergast{
		base:   base,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Standings returns the season's driver and constructor tables. An
// empty upstream result is the normal pre-season state, not an error:
// it yields SeasonStarted=false with empty tables and a nil round.
func (e *Ergast) Standings(ctx context.Context, season int) (*model.Standings, error) {
	out := &model.Standings{
		Season:       season,
		UpdatedAt:    time.Now().UTC(),
		Source:       e.base,
		Drivers:      []model.StandingRow{},
		Constructors: []model.StandingRow{},
	}

	var drivers, constructors ergastResponse

	if err := e.getJSON(ctx, fmt.Sprintf("%s/%d/driverstandings.json", e.base, season), &drivers); err != nil {
		return nil, errors.Wrap(err, "failed to fetch driver standings")
	}

	if err := e.getJSON(ctx, fmt.Sprintf("%s/%d/constructorstandings.json", e.base, season), &constructors); err != nil {
		return nil, errors.Wrap(err, "failed to fetch constructor standings")
	}

	if drivers.MRData.Total == "0" || len(drivers.MRData.StandingsTable.StandingsLists) == 0 {
		log.WithField("season", season).Info("no standings yet, season has not started")
		return out, nil
	}

	out.SeasonStarted = true

	list := drivers.MRData.StandingsTable.StandingsLists[0]
	if round, err := strconv.Atoi(list.Round); err == nil {
		out.Round = &round
	}

	for _, row := range list.DriverStandings {
		team := ""
		if len(row.Constructors) > 0 {
			team = row.Constructors[len(row.Constructors)-1].Name
		}

		out.Drivers = append(out.Drivers, model.StandingRow{
			Position:    atoi(row.Position),
			Name:        fmt.Sprintf("%s %s", row.Driver.GivenName, row.Driver.FamilyName),
			Team:        team,
			Nationality: row.Driver.Nationality,
			Points:      atof(row.Points),
			Wins:        atoi(row.Wins),
		})
	}

	if lists := constructors.MRData.StandingsTable.StandingsLists; len(lists) > 0 {
		for _, row := range lists[0].ConstructorStandings {
			out.Constructors = append(out.Constructors, model.StandingRow{
				Position:    atoi(row.Position),
				Name:        row.Constructor.Name,
				Nationality: row.Constructor.Nationality,
				Points:      atof(row.Points),
				Wins:        atoi(row.Wins),
			})
		}
	}

	return out, nil
}

func (e *Ergast) getJSON(ctx context.Context, url string, v interface{}) error {
	return withRetry(ctx, log.WithField("url", url), func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}

		resp, err := e.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return &statusError{code: resp.StatusCode}
		}

		return json.NewDecoder(resp.Body).Decode(v)
	})
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func atof(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

// Wire shapes of the Ergast API.

type ergastResponse struct {
	MRData struct {
		Total          string `json:"total"`
		StandingsTable struct {
			Season         string               `json:"season"`
			StandingsLists []ergastStandingList `json:"StandingsLists"`
		} `json:"StandingsTable"`
	} `json:"MRData"`
}

type ergastStandingList struct {
	Season               string                 `json:"season"`
	Round                string                 `json:"round"`
	DriverStandings      []ergastDriverRow      `json:"DriverStandings"`
	ConstructorStandings []ergastConstructorRow `json:"ConstructorStandings"`
}

type ergastDriverRow struct {
	Position string `json:"position"`
	Points   string `json:"points"`
	Wins     string `json:"wins"`
	Driver   struct {
		GivenName   string `json:"givenName"`
		FamilyName  string `json:"familyName"`
		Nationality string `json:"nationality"`
	} `json:"Driver"`
	Constructors []struct {
		Name string `json:"name"`
	} `json:"Constructors"`
}

type ergastConstructorRow struct {
	Position    string `json:"position"`
	Points      string `json:"points"`
	Wins        string `json:"wins"`
	Constructor struct {
		Name        string `json:"name"`
		Nationality string `json:"nationality"`
	} `json:"Constructor"`
}
