package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"townboard/backend/internal/logging"
	"townboard/backend/internal/models"
	"townboard/backend/internal/seo"
)

type previewInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Address     string `json:"address"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	EndDate     string `json:"endDate"`
	FeeRequired string `json:"feeRequired"`
}

type previewOutput struct {
	Slug             string   `json:"slug"`
	City             string   `json:"city"`
	State            string   `json:"state"`
	Country          string   `json:"country"`
	Price            *float64 `json:"price"`
	Currency         string   `json:"currency"`
	StartDatetime    string   `json:"startDatetime"`
	EndDatetime      string   `json:"endDatetime"`
	ShortDescription string   `json:"shortDescription"`
	MissingFields    []string `json:"missingFields"`
}

func main() {
	titleFlag := flag.String("title", "", "event title")
	descriptionFlag := flag.String("description", "", "event description")
	addressFlag := flag.String("address", "", "free-form address")
	dateFlag := flag.String("date", "", "start date, YYYY-MM-DD")
	startFlag := flag.String("start", "", "start time, HH:MM")
	endFlag := flag.String("end", "", "end time, HH:MM")
	endDateFlag := flag.String("end-date", "", "end date for multi-day events, YYYY-MM-DD")
	feeFlag := flag.String("fee", "", "fee text, e.g. \"$10\" or \"free\"")
	stdinFlag := flag.Bool("stdin", false, "read a JSON payload from stdin instead of flags")
	timeoutFlag := flag.Duration("timeout", 10*time.Second, "derivation timeout")
	flag.Parse()

	input := previewInput{
		Title:       strings.TrimSpace(*titleFlag),
		Description: *descriptionFlag,
		Address:     *addressFlag,
		Date:        *dateFlag,
		StartTime:   *startFlag,
		EndTime:     *endFlag,
		EndDate:     *endDateFlag,
		FeeRequired: *feeFlag,
	}
	if *stdinFlag {
		if err := json.NewDecoder(os.Stdin).Decode(&input); err != nil {
			fmt.Fprintf(os.Stderr, "decode stdin: %v\n", err)
			os.Exit(2)
		}
		input.Title = strings.TrimSpace(input.Title)
	}
	if input.Title == "" {
		fmt.Fprintln(os.Stderr, "usage: seo-preview -title \"<event title>\" [-address ...] [-date YYYY-MM-DD] [-start HH:MM]")
		fmt.Fprintln(os.Stderr, "       seo-preview -stdin < event.json")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFlag)
	defer cancel()

	// Warnings go to stderr; stdout stays clean JSON.
	logger := logging.NewCLI("warn")
	enricher := seo.NewEnricher(nil, logger)
	enriched, missing := enricher.Enrich(ctx, models.Event{
		Title:       input.Title,
		Description: input.Description,
		Address:     input.Address,
		Date:        input.Date,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		EndDate:     input.EndDate,
		FeeRequired: input.FeeRequired,
	})

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(previewOutput{
		Slug:             enriched.Slug,
		City:             enriched.City,
		State:            enriched.State,
		Country:          enriched.Country,
		Price:            enriched.Price,
		Currency:         enriched.Currency,
		StartDatetime:    enriched.StartDatetime,
		EndDatetime:      enriched.EndDatetime,
		ShortDescription: enriched.ShortDescription,
		MissingFields:    missing,
	})
}
