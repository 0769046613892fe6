package filter

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/penwyp/go-vessel-trail/internal/core/constants"
)

var (
	ErrInvalidRange   = errors.New("dateFrom must not be after dateTo")
	ErrInvalidDate    = errors.New("invalid date")
	ErrUnknownCompany = errors.New("unknown company")
	ErrUnknownHullJob = errors.New("unknown hull job")
	ErrUnknownVessel  = errors.New("vessel does not belong to the selected company")
	ErrVesselScope    = errors.New("a vessel can only be chosen when exactly one company is selected")
)

// Criteria is the typed filter selection.
type Criteria struct {
	DateFrom   time.Time   `json:"dateFrom"`
	DateTo     time.Time   `json:"dateTo"`
	CompanyIDs []string    `json:"company"`
	VesselID   string      `json:"vessel,omitempty"`
	HullJobIDs []uuid.UUID `json:"hullJobs"`
}

// Defaults returns the criteria a fresh session starts with.
func Defaults(now time.Time) Criteria {
	day := truncateDay(now)
	return Criteria{
		DateFrom:   day.AddDate(-constants.FilterLookbackYears, 0, 0),
		DateTo:     day,
		CompanyIDs: []string{DefaultCompanyID},
		HullJobIDs: []uuid.UUID{},
	}
}

// Validate checks the selection against the catalog.
func (c Criteria) Validate() error {
	if c.DateFrom.After(c.DateTo) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidRange,
			c.DateFrom.Format(constants.DateLayout), c.DateTo.Format(constants.DateLayout))
	}
	for _, id := range c.CompanyIDs {
		if _, ok := CompanyByID(id); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownCompany, id)
		}
	}
	for _, id := range c.HullJobIDs {
		if _, ok := HullJobByRef(id.String()); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownHullJob, id)
		}
	}
	if c.VesselID != "" {
		vessels := VesselsFor(c.CompanyIDs)
		if vessels == nil {
			return ErrVesselScope
		}
		if !slices.Contains(vessels, c.VesselID) {
			return fmt.Errorf("%w: %s", ErrUnknownVessel, c.VesselID)
		}
	}
	return nil
}

// Vessels lists the vessels selectable under the current companies.
func (c Criteria) Vessels() []string {
	return VesselsFor(c.CompanyIDs)
}

// String summarises the criteria for status lines.
func (c Criteria) String() string {
	parts := []string{c.DateFrom.Format(constants.DateLayout) + ".." + c.DateTo.Format(constants.DateLayout)}

	labels := make([]string, 0, len(c.CompanyIDs))
	for _, id := range c.CompanyIDs {
		if co, ok := CompanyByID(id); ok {
			labels = append(labels, co.Label)
		} else {
			labels = append(labels, id)
		}
	}
	if len(labels) == 0 {
		labels = append(labels, "all companies")
	}
	parts = append(parts, strings.Join(labels, ", "))

	if c.VesselID != "" {
		parts = append(parts, c.VesselID)
	}
	if len(c.HullJobIDs) > 0 {
		codes := make([]string, 0, len(c.HullJobIDs))
		for _, id := range c.HullJobIDs {
			if j, ok := HullJobByRef(id.String()); ok {
				codes = append(codes, j.Code)
			}
		}
		parts = append(parts, strings.Join(codes, ","))
	}
	return strings.Join(parts, " | ")
}

// Raw is criteria as typed by a user: flag or query-string values.
type Raw struct {
	From     string
	To       string
	Company  []string
	Vessel   string
	HullJobs []string
}

// Parse turns raw values into validated criteria. Empty fields keep the
// value from Defaults(now). Company and hull job lists accept comma-separated
// entries; hull jobs may be given by UUID or short code.
func Parse(raw Raw, now time.Time) (Criteria, error) {
	c := Defaults(now)

	var err error
	if raw.From != "" {
		if c.DateFrom, err = parseDate(raw.From); err != nil {
			return Criteria{}, err
		}
	}
	if raw.To != "" {
		if c.DateTo, err = parseDate(raw.To); err != nil {
			return Criteria{}, err
		}
	}
	if companies := splitList(raw.Company); len(companies) > 0 {
		c.CompanyIDs = companies
	}
	c.VesselID = strings.TrimSpace(raw.Vessel)

	for _, ref := range splitList(raw.HullJobs) {
		job, ok := HullJobByRef(ref)
		if !ok {
			return Criteria{}, fmt.Errorf("%w: %s", ErrUnknownHullJob, ref)
		}
		if !slices.Contains(c.HullJobIDs, job.ID) {
			c.HullJobIDs = append(c.HullJobIDs, job.ID)
		}
	}

	if err := c.Validate(); err != nil {
		return Criteria{}, err
	}
	return c, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(constants.DateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: expected %s", ErrInvalidDate, s, constants.DateLayout)
	}
	return t, nil
}

// splitList flattens comma-separated values, trimming and dropping duplicates.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" && !slices.Contains(out, part) {
				out = append(out, part)
			}
		}
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
