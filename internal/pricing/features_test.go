package pricing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/senyabanana/shipquote-service/internal/models"

	"github.com/cucumber/godog"
	"github.com/cucumber/godog/colors"
	"github.com/shopspring/decimal"
)

var opts = godog.Options{
	Output:      colors.Colored(os.Stdout),
	Format:      "progress",
	Paths:       []string{"features"},
	Randomize:   0,
	Concurrency: 1,
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options:             &opts,
	}

	if suite.Run() != 0 {
		t.Fail()
	}
}

// pricingContext holds state for a single pricing scenario
type pricingContext struct {
	rates     []models.Rate
	rate      models.Rate
	breakdown *models.PriceBreakdown
	asOf      time.Time
	err       error
}

func (p *pricingContext) ListRateCandidates(_ context.Context, _, _ string, _ time.Time) ([]models.Rate, error) {
	return p.rates, nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	p := &pricingContext{}

	ctx.Before(func(c context.Context, _ *godog.Scenario) (context.Context, error) {
		*p = pricingContext{}
		return c, nil
	})

	ctx.Step(`^an active rate "([^"]*)" effective from "([^"]*)" with base ([\d.]+) and fuel surcharge ([\d.]+) percent$`, p.anOpenEndedRate)
	ctx.Step(`^an active rate "([^"]*)" effective from "([^"]*)" until "([^"]*)" with base ([\d.]+) and fuel surcharge ([\d.]+) percent$`, p.aBoundedRate)
	ctx.Step(`^I price (-?\d+) containers as of "([^"]*)"$`, p.iPriceContainers)
	ctx.Step(`^the resolved rate is "([^"]*)"$`, p.theResolvedRateIs)
	ctx.Step(`^the fuel surcharge amount is ([\d.]+)$`, p.amountIs(func(b *models.PriceBreakdown) decimal.Decimal { return b.FuelSurchargeAmount }))
	ctx.Step(`^the insurance fee is ([\d.]+)$`, p.amountIs(func(b *models.PriceBreakdown) decimal.Decimal { return b.InsuranceFee }))
	ctx.Step(`^the handling fee is ([\d.]+)$`, p.amountIs(func(b *models.PriceBreakdown) decimal.Decimal { return b.HandlingFee }))
	ctx.Step(`^the per unit cost is ([\d.]+)$`, p.amountIs(func(b *models.PriceBreakdown) decimal.Decimal { return b.PerUnitCost }))
	ctx.Step(`^the total item cost is ([\d.]+)$`, p.amountIs(func(b *models.PriceBreakdown) decimal.Decimal { return b.TotalItemCost }))
	ctx.Step(`^the total quote amount is ([\d.]+)$`, p.amountIs(func(b *models.PriceBreakdown) decimal.Decimal { return b.TotalQuoteAmount }))
	ctx.Step(`^the quote is valid until "([^"]*)"$`, p.theQuoteIsValidUntil)
	ctx.Step(`^pricing fails with "([^"]*)"$`, p.pricingFailsWith)
	ctx.Step(`^no breakdown is returned$`, p.noBreakdownIsReturned)
}

func (p *pricingContext) anOpenEndedRate(id, from, base, pct string) error {
	return p.addRate(id, from, "", base, pct)
}

func (p *pricingContext) aBoundedRate(id, from, to, base, pct string) error {
	return p.addRate(id, from, to, base, pct)
}

func (p *pricingContext) addRate(id, from, to, base, pct string) error {
	effectiveFrom, err := time.Parse(models.DateLayout, from)
	if err != nil {
		return err
	}
	rate := models.Rate{
		ID:                       id,
		RouteID:                  "route",
		ContainerTypeID:          "container",
		BaseRateUSD:              decimal.RequireFromString(base),
		FuelSurchargePercentage:  decimal.RequireFromString(pct),
		CurrencyAdjustmentFactor: decimal.NewFromInt(1),
		EffectiveFrom:            effectiveFrom,
		IsActive:                 true,
	}
	if to != "" {
		effectiveTo, err := time.Parse(models.DateLayout, to)
		if err != nil {
			return err
		}
		rate.EffectiveTo = &effectiveTo
	}
	p.rates = append(p.rates, rate)
	return nil
}

func (p *pricingContext) iPriceContainers(quantity int, asOf string) error {
	date, err := time.Parse(models.DateLayout, asOf)
	if err != nil {
		return err
	}
	p.asOf = date

	rate, err := NewResolver(p).Resolve(context.Background(), "route", "container", date)
	if err != nil {
		p.err = err
		return nil
	}
	p.rate = rate

	breakdown, err := Price(rate, quantity, DefaultFeeSchedule())
	if err != nil {
		p.err = err
		return nil
	}
	p.breakdown = &breakdown
	return nil
}

func (p *pricingContext) theResolvedRateIs(id string) error {
	if p.err != nil {
		return fmt.Errorf("unexpected error: %v", p.err)
	}
	if p.rate.ID != id {
		return fmt.Errorf("expected rate %q, got %q", id, p.rate.ID)
	}
	return nil
}

func (p *pricingContext) amountIs(field func(*models.PriceBreakdown) decimal.Decimal) func(string) error {
	return func(expected string) error {
		if p.breakdown == nil {
			return fmt.Errorf("no breakdown computed: %v", p.err)
		}
		got := field(p.breakdown)
		if !got.Equal(decimal.RequireFromString(expected)) {
			return fmt.Errorf("expected %s, got %s", expected, got.StringFixed(2))
		}
		return nil
	}
}

func (p *pricingContext) theQuoteIsValidUntil(date string) error {
	got := ValidUntil(p.asOf, DefaultFeeSchedule()).Format(models.DateLayout)
	if got != date {
		return fmt.Errorf("expected valid until %s, got %s", date, got)
	}
	return nil
}

func (p *pricingContext) pricingFailsWith(kind string) error {
	if p.err == nil {
		return errors.New("expected pricing to fail")
	}
	got := models.ResponseFromError(p.err).Kind
	if string(got) != kind {
		return fmt.Errorf("expected %s, got %s (%v)", kind, got, p.err)
	}
	return nil
}

func (p *pricingContext) noBreakdownIsReturned() error {
	if p.breakdown != nil {
		return errors.New("breakdown should not be computed")
	}
	return nil
}
