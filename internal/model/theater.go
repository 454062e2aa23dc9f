package model

import (
	"fmt"
	"strings"
)

// Theater represents a row in the `theaters` table. Rows are owned by the
// data store; this site only reads them. Nullable columns are pointers.
//
// Fields:
//  Slug            – unique URL key.
//  Name            – display name.
//  City, State     – location as stored (State is a two-letter code).
//  YearEstablished – year the venue opened, if known.
//  Screens         – number of screens, if known.
//  IsNonprofit     – nonprofit flag, if known.
//  Website         – venue homepage, if known.
//  Description     – editorial blurb, may be empty.
type Theater struct {
	Slug            string  `json:"slug"`
	Name            string  `json:"name"`
	City            string  `json:"city"`
	State           string  `json:"state"`
	YearEstablished *int    `json:"year_established"`
	Screens         *int    `json:"screens"`
	IsNonprofit     *bool   `json:"is_nonprofit"`
	Website         *string `json:"website"`
	Description     *string `json:"description,omitempty"`
}

// Tags builds the badges shown on a theater card.
func (t Theater) Tags() []string {
	var tags []string
	if t.YearEstablished != nil && *t.YearEstablished > 0 {
		tags = append(tags, fmt.Sprintf("Est. %d", *t.YearEstablished))
	}
	if t.Screens != nil && *t.Screens > 0 {
		noun := "Screens"
		if *t.Screens == 1 {
			noun = "Screen"
		}
		tags = append(tags, fmt.Sprintf("%d %s", *t.Screens, noun))
	}
	if t.IsNonprofit != nil && *t.IsNonprofit {
		tags = append(tags, "Nonprofit")
	}
	return tags
}

// Blurb returns the description or "".
func (t Theater) Blurb() string {
	if t.Description == nil {
		return ""
	}
	return strings.TrimSpace(*t.Description)
}

// HasDescription reports whether the theater carries a non-empty description.
func (t Theater) HasDescription() bool {
	return t.Blurb() != ""
}

// WebsiteURL returns the website or "".
func (t Theater) WebsiteURL() string {
	if t.Website == nil {
		return ""
	}
	return *t.Website
}

// Location formats "City, ST".
func (t Theater) Location() string {
	return t.City + ", " + t.State
}
