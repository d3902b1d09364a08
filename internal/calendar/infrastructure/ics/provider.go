// Package ics reads busy events from iCalendar files and feeds.
package ics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	calendarApp "github.com/felixgeelhaar/slotwise/internal/calendar/application"
	slots "github.com/felixgeelhaar/slotwise/internal/slots/domain"
)

// Provider serves busy events from one .ics source: a local path or an
// http(s)/webcal URL. The source is read on every call.
type Provider struct {
	source string
	client *http.Client
	loc    *time.Location
	logger *slog.Logger
}

// NewProvider creates an ICS provider. loc resolves floating times; nil means UTC.
func NewProvider(source string, loc *time.Location, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Provider{
		source: source,
		client: &http.Client{Timeout: 15 * time.Second},
		loc:    loc,
		logger: logger,
	}
}

// WithHTTPClient replaces the client used for URL sources.
func (p *Provider) WithHTTPClient(client *http.Client) *Provider {
	if client != nil {
		p.client = client
	}
	return p
}

// BusyEvents reads the source and returns events overlapping [start, end).
func (p *Provider) BusyEvents(ctx context.Context, _ uuid.UUID, start, end time.Time) ([]slots.CalendarBusyEvent, error) {
	r, err := p.open(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	cals, err := Decode(r)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", p.source, err)
	}

	var events []slots.CalendarBusyEvent
	for _, cal := range cals {
		events = append(events, Expand(cal, start, end, p.loc)...)
	}
	p.logger.DebugContext(ctx, "ics events loaded", "source", p.source, "events", len(events))
	return events, nil
}

func (p *Provider) open(ctx context.Context) (io.ReadCloser, error) {
	source := p.source
	if strings.HasPrefix(source, "webcal://") {
		source = "https://" + strings.TrimPrefix(source, "webcal://")
	}
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open calendar file: %w", err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/calendar")
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("fetch calendar: status=%d body=%s", resp.StatusCode, string(body))
	}
	return resp.Body, nil
}

// Decode reads every VCALENDAR in r.
func Decode(r io.Reader) ([]*ical.Calendar, error) {
	dec := ical.NewDecoder(r)
	var cals []*ical.Calendar
	for {
		cal, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			return cals, nil
		}
		if err != nil {
			return nil, err
		}
		cals = append(cals, cal)
	}
}

var _ calendarApp.BusyEventProvider = (*Provider)(nil)
