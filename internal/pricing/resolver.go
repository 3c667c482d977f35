package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/senyabanana/shipquote-service/internal/models"
)

// RateSource отдаёт тарифы-кандидаты для маршрута и типа контейнера.
// Источник может вернуть лишние записи: окончательный отбор делает SelectRate.
type RateSource interface {
	ListRateCandidates(ctx context.Context, routeID, containerTypeID string, asOf time.Time) ([]models.Rate, error)
}

// Resolver выбирает действующий тариф на дату.
type Resolver struct {
	source RateSource
	now    func() time.Time
}

// NewResolver создаёт новый экземпляр Resolver.
func NewResolver(source RateSource) *Resolver {
	return &Resolver{source: source, now: func() time.Time { return time.Now().UTC() }}
}

// Resolve возвращает тариф маршрута для типа контейнера, действующий на asOf.
// Нулевая дата означает текущий день.
func (r *Resolver) Resolve(ctx context.Context, routeID, containerTypeID string, asOf time.Time) (models.Rate, error) {
	if asOf.IsZero() {
		asOf = r.now()
	}
	asOf = models.TruncateDate(asOf)

	candidates, err := r.source.ListRateCandidates(ctx, routeID, containerTypeID, asOf)
	if err != nil {
		return models.Rate{}, fmt.Errorf("failed to load rates: %w", err)
	}

	var matching []models.Rate
	for _, rate := range candidates {
		if rate.RouteID == routeID && rate.ContainerTypeID == containerTypeID {
			matching = append(matching, rate)
		}
	}

	rate, ok := SelectRate(matching, asOf)
	if !ok {
		return models.Rate{}, fmt.Errorf("%w (as of %s)", models.ErrRateNotFound, asOf.Format(models.DateLayout))
	}
	return rate, nil
}

// SelectRate выбирает среди тарифов действующий на дату.
// При пересечении периодов побеждает тариф с самой поздней датой начала,
// при равных датах - с меньшим идентификатором.
func SelectRate(rates []models.Rate, asOf time.Time) (models.Rate, bool) {
	var (
		best  models.Rate
		found bool
	)
	for _, rate := range rates {
		if !rate.CoversDate(asOf) {
			continue
		}
		if !found || preferRate(rate, best) {
			best = rate
			found = true
		}
	}
	return best, found
}

func preferRate(candidate, current models.Rate) bool {
	cf := models.TruncateDate(candidate.EffectiveFrom)
	bf := models.TruncateDate(current.EffectiveFrom)
	if !cf.Equal(bf) {
		return cf.After(bf)
	}
	return candidate.ID < current.ID
}
