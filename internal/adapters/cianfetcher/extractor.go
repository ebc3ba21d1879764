package cianfetcher

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"price-estimator-service/internal/contextkeys"
	"price-estimator-service/internal/core/domain"
	"price-estimator-service/internal/core/port"

	"github.com/PuerkitoBio/goquery"
)

// CianListingExtractor разбирает HTML выдачи в кандидатов-аналогов.
type CianListingExtractor struct {
	baseURL *url.URL
	fields  fieldStrategies
}

func NewCianListingExtractor(baseURL string) (*CianListingExtractor, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("CianListingExtractor: invalid base URL %q", baseURL)
	}
	return &CianListingExtractor{baseURL: u, fields: defaultFieldStrategies()}, nil
}

// ExtractListings возвращает кандидатов в порядке карточек на странице.
// Карточка без цены пропускается; сбой в одной карточке не мешает остальным.
func (e *CianListingExtractor) ExtractListings(ctx context.Context, body []byte, dealType domain.DealType) ([]domain.Comparable, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "CianListingExtractor",
		"deal_type": dealType.String(),
	})

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("cian extractor: failed to parse html: %w", err)
	}

	cards, cardStrategy, ok := firstMatch(doc.Selection, dealType, e.fields.cards)
	if !ok {
		logger.Info("No listing cards on page", nil)
		return nil, nil
	}

	candidates := make([]domain.Comparable, 0, cards.Length())
	cards.Each(func(i int, card *goquery.Selection) {
		candidate, ok, err := e.extractCard(card, dealType)
		if err != nil {
			logger.Debug("Failed to parse card", port.Fields{"card": i, "error": err.Error()})
			return
		}
		if ok {
			candidates = append(candidates, candidate)
		}
	})

	logger.Debug("Cards parsed", port.Fields{
		"card_strategy": cardStrategy,
		"cards":         cards.Length(),
		"candidates":    len(candidates),
	})
	return candidates, nil
}

func (e *CianListingExtractor) extractCard(card *goquery.Selection, dealType domain.DealType) (c domain.Comparable, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("card parsing panicked: %v", r)
			ok = false
		}
	}()

	priceElem, _, found := firstMatch(card, dealType, e.fields.price)
	if !found {
		return domain.Comparable{}, false, nil
	}
	price, ok := parsePrice(priceElem.Text())
	if !ok {
		return domain.Comparable{}, false, nil
	}

	c = domain.Comparable{Price: price, DealType: dealType}

	if area, _, found := firstMatch(card, dealType, e.fields.area); found {
		c.AreaTotal = &area
	}
	if rooms, _, found := firstMatch(card, dealType, e.fields.rooms); found {
		c.Rooms = &rooms
	}
	c.Address, _, _ = firstMatch(card, dealType, e.fields.address)
	if href, _, found := firstMatch(card, dealType, e.fields.url); found {
		c.URL = resolveURL(e.baseURL, href)
	}
	c.FloorInfo, _, _ = firstMatch(card, dealType, e.fields.floor)

	return c, true, nil
}
