package cianfetcher

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"price-estimator-service/internal/contextkeys"
	"price-estimator-service/internal/core/domain"
	"price-estimator-service/internal/core/port"
	"strconv"
	"strings"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/extensions"
)

// Причины, по которым страница считается непригодной
const (
	ReasonCaptchaRedirect = "captcha_redirect"
	ReasonBlockedStatus   = "blocked_status"
	ReasonCaptchaMarkers  = "captcha_markers"
	ReasonFetchFailed     = "fetch_failed"
)

const searchPath = "/cat.php"

// browserHeaders дополняют User-Agent и Referer из расширений colly.
// Accept-Encoding не задаем: тогда net/http сам распакует gzip.
var browserHeaders = map[string]string{
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,image/apng,*/*;q=0.8",
	"Accept-Language":           "ru-RU,ru;q=0.9,en;q=0.8",
	"Upgrade-Insecure-Requests": "1",
	"Sec-Fetch-Dest":            "document",
	"Sec-Fetch-Mode":            "navigate",
	"Sec-Fetch-Site":            "none",
}

// blockMarkers ищутся в теле страницы без учета регистра.
// Голое "robot" не используем: оно есть в любом <meta name="robots">.
var blockMarkers = []string{
	"captcha",
	"капча",
	"проверка безопасности",
	"security check",
	"доступ ограничен",
	"подозрительная активность",
	"not a robot",
	"я не робот",
}

// BuildPageURL собирает адрес страницы выдачи для критериев.
func (a *CianFetcherAdapter) BuildPageURL(criteria domain.PageCriteria) string {
	params := url.Values{}
	params.Set("deal_type", criteria.DealType.String())
	params.Set("engine_version", "2")
	params.Set("offer_type", "flat")
	params.Set("region", criteria.LocationID)
	params.Set("p", strconv.Itoa(criteria.Page))

	switch {
	case criteria.Rooms <= 0:
		params.Set(a.cfg.StudioRoomParam, "1")
	case criteria.Rooms <= 3:
		params.Set("room"+strconv.Itoa(criteria.Rooms), "1")
	default:
		params.Set(a.cfg.MaxRoomParam, "1")
	}

	params.Set("mintarea", formatArea(criteria.MinArea))
	params.Set("maxtarea", formatArea(criteria.MaxArea))

	pageURL := *a.baseURL
	pageURL.Path = searchPath
	pageURL.RawQuery = params.Encode()
	return pageURL.String()
}

func formatArea(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FetchPage загружает страницу. Любая блокировка или сетевой сбой
// возвращается как непригодная страница, без ошибки.
func (a *CianFetcherAdapter) FetchPage(ctx context.Context, criteria domain.PageCriteria) domain.PageFetch {
	logger := contextkeys.LoggerFromContext(ctx)
	fetchLogger := logger.WithFields(port.Fields{
		"component": "CianFetcherAdapter(FetchPage)",
		"page":      criteria.Page,
	})

	if err := ctx.Err(); err != nil {
		return unusable(ReasonFetchFailed)
	}

	pageURL := a.BuildPageURL(criteria)

	collector := a.collector.Clone()
	extensions.RandomUserAgent(collector)
	extensions.Referer(collector)

	var result domain.PageFetch
	handled := false

	collector.OnRequest(func(r *colly.Request) {
		for name, value := range browserHeaders {
			r.Headers.Set(name, value)
		}
		fetchLogger.Debug("Making request to fetch listings page", port.Fields{"url": r.URL.String()})
	})

	collector.OnResponse(func(r *colly.Response) {
		handled = true
		if strings.Contains(strings.ToLower(r.Request.URL.String()), "captcha") {
			result = unusable(ReasonCaptchaRedirect)
			return
		}
		if looksBlocked(r.Body) {
			result = unusable(ReasonCaptchaMarkers)
			return
		}
		result = domain.PageFetch{Body: r.Body}
	})

	collector.OnError(func(r *colly.Response, err error) {
		handled = true
		result = unusable(classifyFailure(r.StatusCode, err))
	})

	if err := collector.Visit(pageURL); err != nil && !handled {
		handled = true
		result = unusable(classifyFailure(0, err))
	}
	collector.Wait()

	if !handled {
		result = unusable(ReasonFetchFailed)
	}

	if result.Unusable {
		fetchLogger.Warn("Listings page is unusable", port.Fields{"url": pageURL, "reason": result.Reason})
	} else {
		fetchLogger.Debug("Listings page fetched", port.Fields{"bytes": len(result.Body)})
	}
	return result
}

func unusable(reason string) domain.PageFetch {
	return domain.PageFetch{Unusable: true, Reason: reason}
}

func classifyFailure(status int, err error) string {
	if err != nil && (errors.Is(err, errCaptchaRedirect) || strings.Contains(strings.ToLower(err.Error()), "captcha")) {
		return ReasonCaptchaRedirect
	}
	if status == http.StatusForbidden || status == http.StatusTooManyRequests || status >= http.StatusInternalServerError {
		return ReasonBlockedStatus
	}
	return ReasonFetchFailed
}

// looksBlocked - пустая страница тоже считается блокировкой
func looksBlocked(body []byte) bool {
	if len(strings.TrimSpace(string(body))) == 0 {
		return true
	}
	low := strings.ToLower(string(body))
	for _, marker := range blockMarkers {
		if strings.Contains(low, marker) {
			return true
		}
	}
	return false
}
