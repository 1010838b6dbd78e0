package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/gonbot/fisio-scheduler/internal/appointments"
	"github.com/gonbot/fisio-scheduler/internal/calendar"
	"github.com/gonbot/fisio-scheduler/internal/catalog"
	appconfig "github.com/gonbot/fisio-scheduler/internal/config"
	"github.com/gonbot/fisio-scheduler/internal/reports"
	"github.com/gonbot/fisio-scheduler/pkg/logging"
)

// Read-only reporting CLI. It loads the appointment collection and
// prints the daily agenda or the revenue summary without ever writing,
// so it is safe to run next to the API server.
func main() {
	_ = godotenv.Load()

	date := flag.String("date", "", "agenda date (YYYY-MM-DD), defaults to today")
	revenue := flag.Bool("revenue", false, "print the revenue summary instead of the daily agenda")
	flag.Parse()

	cfg := appconfig.Load()
	logger := logging.New("error")

	persistence := appointments.NewRedisPersistence(appointments.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		TLS:      cfg.RedisTLS,
		Key:      cfg.AppointmentsKey,
	})

	ctx := context.Background()
	store, err := appointments.Open(ctx, persistence, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	svc := reports.NewService(store, catalog.Default(), logger)

	var text string
	if *revenue {
		text, err = svc.RenderRevenue(ctx)
	} else {
		day := *date
		if day == "" {
			day = time.Now().UTC().Format(calendar.DateFormat)
		} else if _, perr := time.ParseInLocation(calendar.DateFormat, day, time.UTC); perr != nil {
			fmt.Fprintln(os.Stderr, "error: invalid date, want YYYY-MM-DD")
			os.Exit(1)
		}
		text, err = svc.RenderDaily(ctx, day)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(text)
}
