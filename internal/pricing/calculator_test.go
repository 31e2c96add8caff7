package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/visit-scheduler/internal/visit"
)

var addonPrices = map[string]float64{
	"windows": 20,
	"oven":    30,
}

func instances(prices ...float64) []visit.Instance {
	out := make([]visit.Instance, len(prices))
	for i, p := range prices {
		out[i] = visit.Instance{Price: p}
	}
	return out
}

func TestTotalOneOffUsesTemplatePrice(t *testing.T) {
	t.Parallel()

	b := Total(nil, false, visit.Template{Price: 180}, []string{"windows"}, addonPrices, visit.Discount{})

	assert.Equal(t, 180.0, b.InstancesTotal)
	assert.Equal(t, 1, b.VisitCount)
	assert.Equal(t, 20.0, b.AddonsPerVisit)
	assert.Equal(t, 200.0, b.Subtotal)
	assert.Equal(t, 200.0, b.Total)
}

func TestTotalRecurringSumsInstancePrices(t *testing.T) {
	t.Parallel()

	b := Total(instances(100, 100, 150, 100), true, visit.Template{Price: 100}, nil, addonPrices, visit.Discount{})

	assert.Equal(t, 450.0, b.InstancesTotal)
	assert.Equal(t, 4, b.VisitCount)
	assert.Equal(t, 450.0, b.Total)
}

func TestTotalAddonsMultiplyByVisitCount(t *testing.T) {
	t.Parallel()

	b := Total(instances(100, 100), true, visit.Template{}, []string{"windows", "oven"}, addonPrices, visit.Discount{})

	assert.Equal(t, 50.0, b.AddonsPerVisit)
	assert.Equal(t, 300.0, b.Subtotal) // 200 + 50*2
}

func TestTotalPercentDiscount(t *testing.T) {
	t.Parallel()

	b := Total(instances(200, 200), true, visit.Template{}, nil, nil, visit.Discount{
		Kind:  visit.DiscountPercent,
		Value: 10,
	})

	assert.Equal(t, 400.0, b.Subtotal)
	assert.Equal(t, 40.0, b.DiscountAmount)
	assert.Equal(t, 360.0, b.Total)
}

func TestTotalFixedDiscount(t *testing.T) {
	t.Parallel()

	b := Total(instances(200, 200), true, visit.Template{}, nil, nil, visit.Discount{
		Kind:  visit.DiscountFixed,
		Value: 50,
	})

	assert.Equal(t, 50.0, b.DiscountAmount)
	assert.Equal(t, 350.0, b.Total)
}

func TestTotalClampsAtZero(t *testing.T) {
	t.Parallel()

	b := Total(instances(400), true, visit.Template{}, nil, nil, visit.Discount{
		Kind:  visit.DiscountFixed,
		Value: 500,
	})

	assert.Equal(t, 400.0, b.Subtotal)
	assert.Equal(t, 500.0, b.DiscountAmount)
	assert.Equal(t, 0.0, b.Total)
}

func TestTotalUnknownDiscountKindIgnored(t *testing.T) {
	t.Parallel()

	b := Total(instances(100), true, visit.Template{}, nil, nil, visit.Discount{
		Kind:  "mystery",
		Value: 99,
	})

	assert.Zero(t, b.DiscountAmount)
	assert.Equal(t, 100.0, b.Total)
}

func TestTotalEmptyRecurringSeries(t *testing.T) {
	t.Parallel()

	b := Total(nil, true, visit.Template{Price: 100}, nil, nil, visit.Discount{})

	assert.Zero(t, b.InstancesTotal)
	assert.Zero(t, b.VisitCount)
	assert.Zero(t, b.Total)
}
