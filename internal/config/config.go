package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	DBDSN       string
	LogFile     string
	TemplateDir string
	StaticDir   string
	Currency    string
	// ExpiredText is shown by the browser countdown once an offer lapses.
	ExpiredText string
	LockWindow  time.Duration
	OfferTTL    time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durenvs(key string, defSec int) time.Duration {
	sec, err := strconv.Atoi(os.Getenv(key))
	if err != nil || sec <= 0 {
		sec = defSec
	}
	return time.Duration(sec) * time.Second
}

func Load() Config {
	cfg := Config{
		Port:        getenv("PORT", "8080"),
		DBDSN:       getenv("DB_DSN", "offerbytes.db"), // sqlite file in project root
		LogFile:     getenv("LOG_FILE", "./offerbytes.log"),
		TemplateDir: getenv("TEMPLATE_DIR", "./web/templates"),
		StaticDir:   getenv("STATIC_DIR", "./web/static"),
		Currency:    getenv("CURRENCY", "USD"),
		ExpiredText: getenv("EXPIRED_TEXT", "Custom price expired"),
		LockWindow:  durenvs("PRICE_LOCK_SEC", 60),
		OfferTTL:    durenvs("OFFER_TTL_SEC", 60),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s CURRENCY=%s PRICE_LOCK=%s OFFER_TTL=%s",
		cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.Currency, cfg.LockWindow, cfg.OfferTTL)
	return cfg
}
