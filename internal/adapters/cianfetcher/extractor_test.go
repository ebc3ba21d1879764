package cianfetcher

import (
	"context"
	"price-estimator-service/internal/core/domain"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const saleListingsHTML = `<!DOCTYPE html>
<html><head><meta name="robots" content="index"></head><body>
<article data-name="CardComponent">
  <span data-mark="OfferTitle"><span>2-комн. кв., 54,5 м², 5/9 этаж</span></span>
  <span data-mark="MainPrice"><span>12&nbsp;500&nbsp;000&nbsp;₽</span></span>
  <div data-name="AddressContainer"> Москва,   Тверская ул., 1 </div>
  <a data-name="Link" href="https://www.cian.ru/sale/flat/100001/">Посмотреть</a>
</article>
<article data-name="CardComponent">
  <div>Студия</div>
  <div>28 м²</div>
  <div>3 этаж из 12</div>
  <span class="OfferPrice_price__x1">6 900 000 ₽</span>
  <a href="/sale/flat/100002/">Студия, 28 м²</a>
</article>
<article data-name="CardComponent">
  <span data-mark="OfferTitle">1-комн. кв., 40 м²</span>
  <span>Цена по запросу</span>
</article>
<article data-name="CardComponent">
  <span data-mark="OfferTitle">Комната, 9 м²</span>
  <span data-mark="MainPrice">1 500 000 ₽</span>
</article>
</body></html>`

const rentListingsHTML = `<html><body>
<div data-name="OfferCard">
  <span data-mark="OfferTitle">1-комн. кв., 38 м², 2/5 этаж</span>
  <p class="rent-price">45 000 ₽/мес.</p>
  <a data-name="GeoLabel">Казань</a><a data-name="GeoLabel">ул. Баумана</a>
  <a href="/rent/flat/200001/">Квартира</a>
</div>
<div data-name="OfferCard">
  <span data-mark="OfferTitle">3-комн. кв., 80 м²</span>
  <span class="RentValue">90 000 ₽/мес.</span>
</div>
</body></html>`

func newTestExtractor(t *testing.T) *CianListingExtractor {
	t.Helper()
	e, err := NewCianListingExtractor("https://www.cian.ru")
	require.NoError(t, err)
	return e
}

func TestExtractSaleListings(t *testing.T) {
	e := newTestExtractor(t)

	got, err := e.ExtractListings(context.Background(), []byte(saleListingsHTML), domain.DealSale)
	require.NoError(t, err)
	require.Len(t, got, 3, "card without price is skipped")

	first := got[0]
	assert.Equal(t, 12_500_000.0, first.Price)
	require.NotNil(t, first.AreaTotal)
	assert.Equal(t, 54.5, *first.AreaTotal)
	require.NotNil(t, first.Rooms)
	assert.Equal(t, 2, *first.Rooms)
	assert.Equal(t, "Москва, Тверская ул., 1", first.Address)
	assert.Equal(t, "https://www.cian.ru/sale/flat/100001/", first.URL)
	assert.Equal(t, "5/9 этаж", first.FloorInfo)
	assert.Equal(t, domain.DealSale, first.DealType)

	studio := got[1]
	assert.Equal(t, 6_900_000.0, studio.Price)
	require.NotNil(t, studio.AreaTotal)
	assert.Equal(t, 28.0, *studio.AreaTotal)
	require.NotNil(t, studio.Rooms)
	assert.Equal(t, 0, *studio.Rooms)
	assert.Equal(t, "https://www.cian.ru/sale/flat/100002/", studio.URL)
	assert.Equal(t, "3 этаж из 12", studio.FloorInfo)
	assert.Empty(t, studio.Address)

	tiny := got[2]
	assert.False(t, tiny.Viable(), "area under the livable minimum")
	assert.Nil(t, tiny.Rooms)
}

func TestExtractRentListings(t *testing.T) {
	e := newTestExtractor(t)

	got, err := e.ExtractListings(context.Background(), []byte(rentListingsHTML), domain.DealRent)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, 45_000.0, got[0].Price)
	assert.Equal(t, "Казань, ул. Баумана", got[0].Address)
	assert.Equal(t, "https://www.cian.ru/rent/flat/200001/", got[0].URL)
	assert.Equal(t, 90_000.0, got[1].Price)
	assert.Equal(t, 3, *got[1].Rooms)
}

func TestRentalFallbackIsRentOnly(t *testing.T) {
	e := newTestExtractor(t)

	got, err := e.ExtractListings(context.Background(), []byte(rentListingsHTML), domain.DealSale)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExtractNoCards(t *testing.T) {
	e := newTestExtractor(t)

	got, err := e.ExtractListings(context.Background(), []byte("<html><body><p>Ничего не найдено</p></body></html>"), domain.DealSale)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseHelpers(t *testing.T) {
	price, ok := parsePrice("45 000 ₽/мес.")
	assert.True(t, ok)
	assert.Equal(t, 45_000.0, price)

	_, ok = parsePrice("договорная")
	assert.False(t, ok)

	area, ok := parseArea("общая 61.2 м²")
	assert.True(t, ok)
	assert.Equal(t, 61.2, area)

	rooms, ok := parseRooms("4-комн. апартаменты")
	assert.True(t, ok)
	assert.Equal(t, 4, rooms)

	rooms, ok = parseRooms("Studio apartment")
	assert.True(t, ok)
	assert.Equal(t, 0, rooms)

	_, ok = parseRooms("Квартира свободной планировки")
	assert.False(t, ok)
}

func TestCardWithUnparsablePriceIsDiscarded(t *testing.T) {
	e := newTestExtractor(t)
	page := `<html><body>
<div data-name="OfferCard">
  <span data-mark="OfferTitle">1-комн. кв., 50 м², 4/9 этаж</span>
  <span data-mark="MainPrice">Цена по запросу</span>
  <span class="OfferCard_pricePerMeter">1 200 ₽/м²</span>
</div>
<div data-name="OfferCard">
  <span data-mark="OfferTitle">1-комн. кв., 42 м²</span>
  <span data-mark="MainPrice">52 000 ₽/мес.</span>
  <span class="OfferCard_pricePerMeter">1 238 ₽/м²</span>
</div>
</body></html>`

	got, err := e.ExtractListings(context.Background(), []byte(page), domain.DealRent)
	require.NoError(t, err)
	require.Len(t, got, 1, "price per m² must not replace an empty main price")
	assert.Equal(t, 52_000.0, got[0].Price)
}

func TestAddressPrefersLinkTextOverGeoLabels(t *testing.T) {
	e := newTestExtractor(t)
	page := `<html><body>
<article data-name="CardComponent">
  <span data-mark="OfferTitle">2-комн. кв., 60 м²</span>
  <span data-mark="MainPrice">15 000 000 ₽</span>
  <a data-name="GeoLabel">Москва</a>
  <a data-name="Link" href="/sale/flat/300001/">ул. Тверская, 1</a>
</article>
</body></html>`

	got, err := e.ExtractListings(context.Background(), []byte(page), domain.DealSale)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ул. Тверская, 1", got[0].Address)
}

func TestBrokenCardDoesNotStopSiblings(t *testing.T) {
	e := newTestExtractor(t)
	exploding := strategy[float64]{name: "exploding", extract: func(card *goquery.Selection) (float64, bool) {
		if _, broken := card.Attr("data-broken"); broken {
			panic("unexpected markup")
		}
		return 0, false
	}}
	e.fields.area = append([]strategy[float64]{exploding}, areaStrategies...)

	page := `<html><body>
<article data-name="CardComponent">
  <span data-mark="OfferTitle">1-комн. кв., 35 м²</span>
  <span data-mark="MainPrice">8 000 000 ₽</span>
</article>
<article data-name="CardComponent" data-broken="1">
  <span data-mark="OfferTitle">2-комн. кв., 50 м²</span>
  <span data-mark="MainPrice">11 000 000 ₽</span>
</article>
<article data-name="CardComponent">
  <span data-mark="OfferTitle">3-комн. кв., 70 м²</span>
  <span data-mark="MainPrice">14 000 000 ₽</span>
</article>
</body></html>`

	var got []domain.Comparable
	require.NotPanics(t, func() {
		var err error
		got, err = e.ExtractListings(context.Background(), []byte(page), domain.DealSale)
		require.NoError(t, err)
	})
	require.Len(t, got, 2)
	assert.Equal(t, 8_000_000.0, got[0].Price)
	assert.Equal(t, 14_000_000.0, got[1].Price)
	require.NotNil(t, got[1].AreaTotal)
	assert.Equal(t, 70.0, *got[1].AreaTotal)
}
