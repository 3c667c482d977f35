package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/senyabanana/shipquote-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRateSource struct {
	rates []models.Rate
	err   error
	asOf  time.Time
}

func (s *stubRateSource) ListRateCandidates(_ context.Context, _, _ string, asOf time.Time) ([]models.Rate, error) {
	s.asOf = asOf
	return s.rates, s.err
}

func day(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func dayPtr(s string) *time.Time {
	t := day(s)
	return &t
}

func windowRate(id, from string, to *time.Time, active bool) models.Rate {
	r := testRate("2500.00", "15")
	r.ID = id
	r.EffectiveFrom = day(from)
	r.EffectiveTo = to
	r.IsActive = active
	return r
}

func TestSelectRate(t *testing.T) {
	tests := []struct {
		name   string
		rates  []models.Rate
		asOf   string
		wantID string
	}{
		{
			name:   "single covering rate",
			rates:  []models.Rate{windowRate("a", "2024-01-01", dayPtr("2024-12-31"), true)},
			asOf:   "2024-05-01",
			wantID: "a",
		},
		{
			name:   "effective_to is inclusive",
			rates:  []models.Rate{windowRate("a", "2024-01-01", dayPtr("2024-05-01"), true)},
			asOf:   "2024-05-01",
			wantID: "a",
		},
		{
			name:   "effective_from is inclusive",
			rates:  []models.Rate{windowRate("a", "2024-05-01", nil, true)},
			asOf:   "2024-05-01",
			wantID: "a",
		},
		{
			name: "latest effective_from wins on overlap",
			rates: []models.Rate{
				windowRate("jan", "2024-01-01", nil, true),
				windowRate("jun", "2024-06-01", nil, true),
			},
			asOf:   "2024-07-01",
			wantID: "jun",
		},
		{
			name: "order of candidates does not matter",
			rates: []models.Rate{
				windowRate("jun", "2024-06-01", nil, true),
				windowRate("jan", "2024-01-01", nil, true),
			},
			asOf:   "2024-07-01",
			wantID: "jun",
		},
		{
			name: "equal effective_from breaks tie by id",
			rates: []models.Rate{
				windowRate("b", "2024-06-01", nil, true),
				windowRate("a", "2024-06-01", nil, true),
				windowRate("c", "2024-06-01", nil, true),
			},
			asOf:   "2024-07-01",
			wantID: "a",
		},
		{
			name: "inactive rate is skipped",
			rates: []models.Rate{
				windowRate("old", "2024-01-01", nil, true),
				windowRate("new", "2024-06-01", nil, false),
			},
			asOf:   "2024-07-01",
			wantID: "old",
		},
		{
			name: "expired rate is skipped",
			rates: []models.Rate{
				windowRate("expired", "2024-06-01", dayPtr("2024-06-30"), true),
				windowRate("open", "2024-01-01", nil, true),
			},
			asOf:   "2024-07-01",
			wantID: "open",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectRate(tt.rates, day(tt.asOf))
			require.True(t, ok)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestSelectRate_NoCoveringRate(t *testing.T) {
	tests := []struct {
		name  string
		rates []models.Rate
	}{
		{name: "no rates", rates: nil},
		{name: "not yet effective", rates: []models.Rate{windowRate("future", "2024-08-01", nil, true)}},
		{name: "ended the day before", rates: []models.Rate{windowRate("ended", "2024-01-01", dayPtr("2024-06-30"), true)}},
		{name: "only inactive", rates: []models.Rate{windowRate("off", "2024-01-01", nil, false)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := SelectRate(tt.rates, day("2024-07-01"))
			assert.False(t, ok)
		})
	}
}

func TestResolver_Resolve(t *testing.T) {
	source := &stubRateSource{rates: []models.Rate{
		windowRate("jan", "2024-01-01", nil, true),
		windowRate("jun", "2024-06-01", nil, true),
	}}
	r := NewResolver(source)

	rate, err := r.Resolve(context.Background(), "route-1", "ct-1", time.Date(2024, 7, 1, 18, 45, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "jun", rate.ID)
	assert.Equal(t, day("2024-07-01"), source.asOf)
}

func TestResolver_IgnoresOtherRoutesAndContainers(t *testing.T) {
	other := windowRate("other", "2024-06-01", nil, true)
	other.ContainerTypeID = "ct-2"
	source := &stubRateSource{rates: []models.Rate{other}}

	_, err := NewResolver(source).Resolve(context.Background(), "route-1", "ct-1", day("2024-07-01"))
	assert.ErrorIs(t, err, models.ErrRateNotFound)
}

func TestResolver_DefaultsToToday(t *testing.T) {
	source := &stubRateSource{rates: []models.Rate{windowRate("a", "2024-01-01", dayPtr("2024-03-01"), true)}}
	r := NewResolver(source)
	r.now = func() time.Time { return time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC) }

	rate, err := r.Resolve(context.Background(), "route-1", "ct-1", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "a", rate.ID)

	r.now = func() time.Time { return time.Date(2024, 3, 2, 0, 0, 1, 0, time.UTC) }
	_, err = r.Resolve(context.Background(), "route-1", "ct-1", time.Time{})
	assert.ErrorIs(t, err, models.ErrRateNotFound)
}

func TestResolver_SourceErrorIsNotRateNotFound(t *testing.T) {
	source := &stubRateSource{err: errors.New("connection refused")}

	_, err := NewResolver(source).Resolve(context.Background(), "route-1", "ct-1", day("2024-07-01"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrRateNotFound)
}
