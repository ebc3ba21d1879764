// comparables-probe собирает и ранжирует аналоги для одного запроса без модели,
// базы и брокера. Нужен для проверки селекторов на живой выдаче.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"price-estimator-service/internal/adapters/cianfetcher"
	"price-estimator-service/internal/adapters/locations"
	logger_adapter "price-estimator-service/internal/adapters/logger"
	"price-estimator-service/internal/contextkeys"
	"price-estimator-service/internal/core/domain"
	"price-estimator-service/internal/core/port"
	"price-estimator-service/internal/core/usecase"
	"syscall"
	"time"
)

type probeResult struct {
	City        string              `json:"city"`
	Region      string              `json:"region"`
	DealType    domain.DealType     `json:"deal_type"`
	Gathered    int                 `json:"gathered"`
	Median      float64             `json:"median"`
	Comparables []domain.Comparable `json:"comparables"`
}

func main() {
	city := flag.String("city", "Москва", "город или регион")
	deal := flag.String("deal", "sale", "sale или rent")
	rooms := flag.Int("rooms", 2, "число комнат, 0 - студия")
	area := flag.Float64("area", 54, "общая площадь, м²")
	baseURL := flag.String("base-url", "https://www.cian.ru", "адрес площадки")
	timeout := flag.Duration("timeout", 15*time.Second, "таймаут загрузки страницы")
	delay := flag.Duration("delay", 2*time.Second, "случайная задержка между запросами")
	logLevel := flag.String("log-level", "info", "debug, info, warn, error")
	flag.Parse()

	logger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Writer:   os.Stderr,
		Level:    logger_adapter.ParseLevel(*logLevel),
		UseColor: true,
	}).WithFields(port.Fields{"component": "comparables_probe"})

	dealType, err := domain.ParseDealType(*deal)
	if err != nil {
		log.Fatalf("Invalid -deal: %v", err)
	}

	directory, err := locations.Load(os.Getenv("REGIONS_PATH"), os.Getenv("LOCATION_IDS_PATH"))
	if err != nil {
		log.Fatalf("Failed to load location directory: %v", err)
	}
	location, err := usecase.ResolveLocation(directory, *city)
	if err != nil {
		log.Fatalf("Failed to resolve location: %v", err)
	}

	fetcher, err := cianfetcher.NewCianFetcherAdapter(cianfetcher.Config{
		BaseURL:         *baseURL,
		RequestTimeout:  *timeout,
		RandomDelay:     *delay,
		StudioRoomParam: "room9",
		MaxRoomParam:    "room4",
	})
	if err != nil {
		log.Fatalf("Failed to create fetcher: %v", err)
	}
	extractor, err := cianfetcher.NewCianListingExtractor(*baseURL)
	if err != nil {
		log.Fatalf("Failed to create extractor: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = contextkeys.ContextWithLogger(ctx, logger)

	query := domain.Query{City: location.City, DealType: dealType, Rooms: *rooms, Area: *area}
	gathered := usecase.NewCollectComparablesUseCase(fetcher, extractor, directory).Execute(ctx, query)
	shortlist := usecase.RankComparables(query, gathered, location.Region)

	profile := domain.ProfileFor(dealType)
	prices := usecase.FilterOutliersIQR(usecase.FilterPriceBand(domain.Prices(shortlist), profile.PriceBand))

	result := probeResult{
		City:        location.City,
		Region:      location.Region,
		DealType:    dealType,
		Gathered:    len(gathered),
		Median:      usecase.Median(prices),
		Comparables: shortlist,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Fatalf("Failed to write result: %v", err)
	}
}
