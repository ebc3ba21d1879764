package cianfetcher

import (
	"net/url"
	"price-estimator-service/internal/core/domain"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// strategy - один именованный способ достать поле из карточки.
// Стратегии поля перебираются по порядку, побеждает первая успешная.
type strategy[T any] struct {
	name     string
	rentOnly bool
	extract  func(card *goquery.Selection) (T, bool)
}

func firstMatch[T any](card *goquery.Selection, dealType domain.DealType, strategies []strategy[T]) (T, string, bool) {
	var zero T
	for _, s := range strategies {
		if s.rentOnly && dealType != domain.DealRent {
			continue
		}
		if v, ok := s.extract(card); ok {
			return v, s.name, true
		}
	}
	return zero, "", false
}

var (
	priceClassRe     = regexp.MustCompile(`(?i)price`)
	rentPriceClassRe = regexp.MustCompile(`(?i)price|rent`)
	areaRe           = regexp.MustCompile(`(\d+[,.]?\d*)\s*м²`)
	roomsLabelRe     = regexp.MustCompile(`(?i)-комн|комнат|комн|студия`)
	roomsRe          = regexp.MustCompile(`(\d+)\s*-?комн`)
	floorLabelRe     = regexp.MustCompile(`этаж`)
	floorRe          = regexp.MustCompile(`\d+\s*/\s*\d+\s*этаж`)
	listingHrefRe    = regexp.MustCompile(`/(sale|rent)/flat/`)
	nonDigitRe       = regexp.MustCompile(`\D`)
)

// Карточки ищутся по всему документу
var cardStrategies = []strategy[*goquery.Selection]{
	{name: "card_component", extract: func(doc *goquery.Selection) (*goquery.Selection, bool) {
		cards := doc.Find(`article[data-name="CardComponent"]`)
		return cards, cards.Length() > 0
	}},
	{name: "offer_card", rentOnly: true, extract: func(doc *goquery.Selection) (*goquery.Selection, bool) {
		cards := doc.Find(`div[data-name="OfferCard"]`)
		return cards, cards.Length() > 0
	}},
}

// Ценовые стратегии ищут только элемент цены. Если элемент найден, но цифр
// в нем нет ("Цена по запросу"), карточка отбрасывается, а не уходит к
// следующей стратегии: там часто лежит цена за м².
var priceStrategies = []strategy[*goquery.Selection]{
	{name: "main_price", extract: firstElement(func(card *goquery.Selection) *goquery.Selection {
		return card.Find(`span[data-mark="MainPrice"]`)
	})},
	{name: "price_class_span", extract: firstElement(func(card *goquery.Selection) *goquery.Selection {
		return withClass(card.Find("span"), priceClassRe)
	})},
	{name: "rent_class_span", rentOnly: true, extract: firstElement(func(card *goquery.Selection) *goquery.Selection {
		return withClass(card.Find("span"), rentPriceClassRe)
	})},
	{name: "price_class_paragraph", rentOnly: true, extract: firstElement(func(card *goquery.Selection) *goquery.Selection {
		return withClass(card.Find("p"), priceClassRe)
	})},
}

var areaStrategies = []strategy[float64]{
	{name: "offer_title", extract: func(card *goquery.Selection) (float64, bool) {
		return parseArea(offerTitle(card))
	}},
	{name: "own_text_div", extract: func(card *goquery.Selection) (float64, bool) {
		return parseArea(ownTextMatching(card.Find("div"), areaRe))
	}},
	{name: "card_text", extract: func(card *goquery.Selection) (float64, bool) {
		return parseArea(card.Text())
	}},
}

var roomsStrategies = []strategy[int]{
	{name: "own_text_div", extract: func(card *goquery.Selection) (int, bool) {
		return parseRooms(ownTextMatching(card.Find("div"), roomsLabelRe))
	}},
	{name: "offer_title", extract: func(card *goquery.Selection) (int, bool) {
		return parseRooms(offerTitle(card))
	}},
}

var addressStrategies = []strategy[string]{
	{name: "address_container", extract: func(card *goquery.Selection) (string, bool) {
		return nonEmpty(card.Find(`[data-name="AddressContainer"]`).First().Text())
	}},
	{name: "link_text", extract: func(card *goquery.Selection) (string, bool) {
		return nonEmpty(card.Find(`a[data-name="Link"]`).First().Text())
	}},
	{name: "geo_labels", extract: func(card *goquery.Selection) (string, bool) {
		var parts []string
		card.Find(`a[data-name="GeoLabel"]`).Each(func(_ int, s *goquery.Selection) {
			if text := strings.TrimSpace(s.Text()); text != "" {
				parts = append(parts, text)
			}
		})
		return nonEmpty(strings.Join(parts, ", "))
	}},
}

var urlStrategies = []strategy[string]{
	{name: "link", extract: func(card *goquery.Selection) (string, bool) {
		href, ok := card.Find(`a[data-name="Link"]`).First().Attr("href")
		return href, ok && href != ""
	}},
	{name: "listing_href", extract: func(card *goquery.Selection) (string, bool) {
		var found string
		card.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			href, _ := s.Attr("href")
			if listingHrefRe.MatchString(href) {
				found = href
				return false
			}
			return true
		})
		return found, found != ""
	}},
}

var floorStrategies = []strategy[string]{
	{name: "own_text_div", extract: func(card *goquery.Selection) (string, bool) {
		return nonEmpty(ownTextMatching(card.Find("div"), floorLabelRe))
	}},
	{name: "offer_title", extract: func(card *goquery.Selection) (string, bool) {
		return nonEmpty(floorRe.FindString(offerTitle(card)))
	}},
}

func firstElement(find func(card *goquery.Selection) *goquery.Selection) func(card *goquery.Selection) (*goquery.Selection, bool) {
	return func(card *goquery.Selection) (*goquery.Selection, bool) {
		sel := find(card).First()
		return sel, sel.Length() > 0
	}
}

// parsePrice берет часть до "/" (руб./мес) и оставляет только цифры.
func parsePrice(text string) (float64, bool) {
	head, _, _ := strings.Cut(text, "/")
	digits := nonDigitRe.ReplaceAllString(head, "")
	if digits == "" {
		return 0, false
	}
	price, err := strconv.ParseFloat(digits, 64)
	if err != nil || price <= 0 {
		return 0, false
	}
	return price, true
}

func parseArea(text string) (float64, bool) {
	m := areaRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	area, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
	if err != nil {
		return 0, false
	}
	return area, true
}

func parseRooms(text string) (int, bool) {
	if text == "" {
		return 0, false
	}
	low := strings.ToLower(text)
	if strings.Contains(low, "студия") || strings.Contains(low, "studio") {
		return 0, true
	}
	m := roomsRe.FindStringSubmatch(low)
	if m == nil {
		return 0, false
	}
	rooms, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return rooms, true
}

func offerTitle(card *goquery.Selection) string {
	return card.Find(`[data-mark="OfferTitle"], [data-mark="OfferSubtitle"]`).Text()
}

func withClass(sel *goquery.Selection, re *regexp.Regexp) *goquery.Selection {
	return sel.FilterFunction(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		return re.MatchString(class)
	})
}

// ownTextMatching возвращает собственный текст (без потомков) первого
// элемента, в котором он совпадает с re.
func ownTextMatching(sel *goquery.Selection, re *regexp.Regexp) string {
	var found string
	sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(ownText(s))
		if text != "" && re.MatchString(text) {
			found = text
			return false
		}
		return true
	})
	return found
}

func ownText(s *goquery.Selection) string {
	var b strings.Builder
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		if goquery.NodeName(c) == "#text" {
			b.WriteString(c.Text())
		}
	})
	return b.String()
}

func nonEmpty(s string) (string, bool) {
	s = strings.Join(strings.Fields(s), " ")
	return s, s != ""
}

// resolveURL делает ссылку абсолютной относительно адреса площадки.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// fieldStrategies - полный набор стратегий извлечения для одной площадки
type fieldStrategies struct {
	cards   []strategy[*goquery.Selection]
	price   []strategy[*goquery.Selection]
	area    []strategy[float64]
	rooms   []strategy[int]
	address []strategy[string]
	url     []strategy[string]
	floor   []strategy[string]
}

func defaultFieldStrategies() fieldStrategies {
	return fieldStrategies{
		cards:   cardStrategies,
		price:   priceStrategies,
		area:    areaStrategies,
		rooms:   roomsStrategies,
		address: addressStrategies,
		url:     urlStrategies,
		floor:   floorStrategies,
	}
}
