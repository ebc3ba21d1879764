package cianfetcher

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

const maxRedirects = 10

var errCaptchaRedirect = errors.New("redirected to captcha")

type Config struct {
	BaseURL        string
	RequestTimeout time.Duration
	RandomDelay    time.Duration

	StudioRoomParam string
	MaxRoomParam    string
}

// CianFetcherAdapter загружает страницы выдачи Cian.
type CianFetcherAdapter struct {
	// родительский коллектор, клоны разделяют с ним лимиты и http-клиент
	collector *colly.Collector
	baseURL   *url.URL
	cfg       Config
}

func NewCianFetcherAdapter(cfg Config) (*CianFetcherAdapter, error) {
	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil || baseURL.Host == "" {
		return nil, fmt.Errorf("CianFetcherAdapter: invalid base URL %q", cfg.BaseURL)
	}
	if cfg.StudioRoomParam == "" || cfg.MaxRoomParam == "" {
		return nil, fmt.Errorf("CianFetcherAdapter: room params are required")
	}

	c := colly.NewCollector(colly.AllowedDomains(baseURL.Hostname()), colly.AllowURLRevisit())

	err = c.Limit(&colly.LimitRule{
		DomainGlob:  "*" + baseURL.Hostname() + "*",
		Parallelism: 1,
		RandomDelay: cfg.RandomDelay,
	})
	if err != nil {
		return nil, fmt.Errorf("CianFetcherAdapter: failed to set limit rule: %w", err)
	}

	if cfg.RequestTimeout > 0 {
		c.SetRequestTimeout(cfg.RequestTimeout)
	}

	// Редирект на капчу - признак блокировки, дальше не идем
	c.SetRedirectHandler(func(req *http.Request, via []*http.Request) error {
		if strings.Contains(strings.ToLower(req.URL.String()), "captcha") {
			return errCaptchaRedirect
		}
		if len(via) >= maxRedirects {
			return fmt.Errorf("stopped after %d redirects", maxRedirects)
		}
		return nil
	})

	return &CianFetcherAdapter{
		collector: c,
		baseURL:   baseURL,
		cfg:       cfg,
	}, nil
}
