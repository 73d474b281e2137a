package sheets

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Row is one parsed line of the wager feed
type Row struct {
	PlatformID  string
	WagerAmount float64
}

// Feed fetches the published wager spreadsheet
type Feed interface {
	Fetch(ctx context.Context) ([]Row, error)
}

// Client fetches a spreadsheet published as CSV over HTTP
// (e.g. a Google Sheets "publish to web" CSV export URL)
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a new spreadsheet feed client
func NewClient(url string) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Fetch downloads and parses the feed CSV
func (c *Client) Fetch(ctx context.Context) ([]Row, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build feed request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	return Parse(resp.Body)
}

// Parse reads feed CSV rows. The header row is matched loosely by column
// name; rows with a missing platform ID or an unparseable amount are
// skipped rather than failing the whole import.
func Parse(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read feed header: %w", err)
	}

	idIdx := findColumnIndex(header, []string{"Platform ID", "PlatformID", "Account", "Username"})
	amountIdx := findColumnIndex(header, []string{"Wager Amount", "Wagered", "Total Wager", "Amount"})
	if idIdx == -1 || amountIdx == -1 {
		return nil, fmt.Errorf("feed header missing platform ID or wager amount column")
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // Skip malformed rows
		}
		if idIdx >= len(record) || amountIdx >= len(record) {
			continue
		}

		platformID := strings.TrimSpace(record[idIdx])
		if platformID == "" {
			continue
		}

		amountStr := strings.ReplaceAll(strings.TrimSpace(record[amountIdx]), ",", "")
		amount, err := strconv.ParseFloat(amountStr, 64)
		if err != nil || amount < 0 {
			continue
		}

		rows = append(rows, Row{PlatformID: platformID, WagerAmount: amount})
	}
	return rows, nil
}

// findColumnIndex finds the first header cell matching any candidate name,
// case-insensitively
func findColumnIndex(header []string, candidates []string) int {
	for i, cell := range header {
		cell = strings.TrimSpace(cell)
		for _, candidate := range candidates {
			if strings.EqualFold(cell, candidate) {
				return i
			}
		}
	}
	return -1
}
