package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"spaloyalty/config"
	"spaloyalty/native/referral"
	"spaloyalty/observability"
	"spaloyalty/observability/logging"
	"spaloyalty/storage/configstore"
	"spaloyalty/storage/ledger"
)

const envVar = "SPALOYALTY_ENV"

func main() {
	configFile := flag.String("config", "./rewardd.toml", "Path to the configuration file")
	eventType := flag.String("event", "signup", "Referral event type: signup, first_purchase or milestone")
	milestone := flag.String("milestone", "", "Milestone key for milestone events")
	tenantID := flag.String("tenant", "", "Tenant identifier, empty for un-tenanted events")
	userTier := flag.String("tier", "bronze", "Referrer tier")
	purchase := flag.Float64("amount", 0, "Purchase amount for the event")
	referrerID := flag.String("referrer", "", "Referrer user identifier")
	referredID := flag.String("referred", "", "Referred user identifier")
	serveMetrics := flag.Bool("metrics", false, "Expose prometheus metrics while running")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv(envVar))
	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.ServiceName, env)

	ctx := context.Background()

	storeDSN, err := configstore.FileDSN(cfg.ConfigStorePath)
	if err != nil {
		logger.Error("resolve config store path", "error", err)
		os.Exit(1)
	}
	store, err := configstore.Open(storeDSN)
	if err != nil {
		logger.Error("open config store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if cfg.SeedFile != "" {
		seed, err := configstore.LoadSeed(cfg.SeedFile)
		if err != nil {
			logger.Error("load configuration seed", "error", err)
			os.Exit(1)
		}
		if err := store.SaveConfiguration(ctx, seed); err != nil {
			logger.Error("save configuration seed", "error", err)
			os.Exit(1)
		}
		logger.Info("configuration seed applied", "path", cfg.SeedFile)
	}

	ledgerDSN := cfg.LedgerDSN
	if !strings.HasPrefix(ledgerDSN, "postgres://") && !strings.HasPrefix(ledgerDSN, "postgresql://") {
		if ledgerDSN, err = configstore.FileDSN(cfg.LedgerDSN); err != nil {
			logger.Error("resolve ledger path", "error", err)
			os.Exit(1)
		}
	}
	book, err := ledger.Open(ledgerDSN)
	if err != nil {
		logger.Error("open ledger", "error", err)
		os.Exit(1)
	}
	defer book.Close()

	if *serveMetrics {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddress, nil); err != nil {
				logger.Error("metrics listener", "error", err)
			}
		}()
	}

	active, err := store.GetActiveConfiguration(ctx)
	if err != nil {
		logger.Error("load active configuration", "error", err)
		os.Exit(1)
	}

	evt := referral.Event{
		Type:           referral.EventType(strings.TrimSpace(*eventType)),
		Milestone:      strings.TrimSpace(*milestone),
		TenantID:       strings.TrimSpace(*tenantID),
		UserTier:       strings.TrimSpace(*userTier),
		PurchaseAmount: *purchase,
	}

	metrics := observability.Metrics()
	engine := referral.NewEngine()
	result, err := engine.ComputeReferralReward(active, evt, time.Now().UTC())
	if err != nil {
		metrics.ObserveComputation(string(evt.Type), "error")
		logger.Error("compute referral reward", "error", err)
		os.Exit(1)
	}
	metrics.ObserveComputation(string(evt.Type), "computed")
	metrics.ObservePoints(string(evt.Type), result.ReferrerPoints, result.ReferredPoints)
	logger.Info("reward computed",
		"eventType", evt.Type,
		"tenant", result.Tenant.TenantID,
		"referrerPoints", result.ReferrerPoints,
		"referredPoints", result.ReferredPoints,
		"finalMultiplier", result.Multipliers.Final,
	)

	eventID := referral.DeriveEventID(evt.TenantID, evt.Type, *referredID, evt.Milestone)
	outcome, err := book.TryRecordAccrual(ctx, eventID, ledger.AccrualRecord{
		TenantID:       evt.TenantID,
		EventType:      string(evt.Type),
		ReferrerUserID: strings.TrimSpace(*referrerID),
		ReferredUserID: strings.TrimSpace(*referredID),
		ReferrerPoints: result.ReferrerPoints,
		ReferredPoints: result.ReferredPoints,
	})
	if err != nil {
		logger.Error("record accrual", "error", err)
		os.Exit(1)
	}
	if outcome.Applied {
		metrics.ObserveAccrual("applied")
	} else {
		// A duplicate delivery is success-but-no-op, never an error.
		metrics.ObserveAccrual(outcome.Reason)
		logger.Debug("accrual already recorded", "eventId", eventID)
	}

	out := struct {
		*referral.RewardResult
		EventID string                `json:"eventId"`
		Accrual ledger.AccrualOutcome `json:"accrual"`
	}{result, eventID, outcome}
	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		logger.Error("encode result", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(encoded))
}
