package models

import "time"

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Event struct {
	ID            int64  `json:"id"`
	CreatorUserID int64  `json:"creatorUserId"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Address       string `json:"address,omitempty"`
	Website       string `json:"website,omitempty"`
	SourceHost    string `json:"sourceHost,omitempty"`

	// Raw listing fields as submitted. Date and EndDate use YYYY-MM-DD,
	// StartTime and EndTime use HH:MM, FeeRequired is free text.
	Date        string `json:"date,omitempty"`
	StartTime   string `json:"startTime,omitempty"`
	EndTime     string `json:"endTime,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	FeeRequired string `json:"feeRequired,omitempty"`

	// Derived listing fields. Empty means not yet derived.
	Slug             string   `json:"slug,omitempty"`
	City             string   `json:"city,omitempty"`
	State            string   `json:"state,omitempty"`
	Country          string   `json:"country,omitempty"`
	Price            *float64 `json:"price,omitempty"`
	Currency         string   `json:"currency,omitempty"`
	StartDatetime    string   `json:"startDatetime,omitempty"`
	EndDatetime      string   `json:"endDatetime,omitempty"`
	ShortDescription string   `json:"shortDescription,omitempty"`

	IsHidden        bool      `json:"isHidden"`
	InterestedCount int       `json:"interestedCount"`
	ViewCount       int64     `json:"viewCount"`
	IsInterested    bool      `json:"isInterested,omitempty"`
	CreatorName     string    `json:"creatorName,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type SitemapEntry struct {
	Slug      string    `json:"slug"`
	UpdatedAt time.Time `json:"updatedAt"`
}
