// Package notion implements store.RecordStore against the Notion REST
// API: synced records are pages in a database, dedup lookups are
// rich-text equality filters, and archiving is the pages PATCH endpoint.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jaehui/notisync/internal/models"
	"github.com/jaehui/notisync/internal/store"
)

// DefaultBaseURL is the public Notion API endpoint.
const DefaultBaseURL = "https://api.notion.com/v1"

// apiVersion is sent as the Notion-Version header on every request.
const apiVersion = "2022-06-28"

// PropertyNames maps the database's column names. Notion property names
// are user-defined, so they are configuration, not constants.
type PropertyNames struct {
	Title      string
	Date       string
	ExternalID string
}

// DefaultProperties returns the property names a fresh database uses.
func DefaultProperties() PropertyNames {
	return PropertyNames{Title: "Name", Date: "Date", ExternalID: "event_id"}
}

// Client is a Notion record store bound to one database.
type Client struct {
	BaseURL    string
	DatabaseID string
	Props      PropertyNames
	HTTP       *http.Client

	token string
}

var _ store.RecordStore = (*Client)(nil)

// New creates a Client for the given integration token and database.
// Zero-value property names fall back to the defaults.
func New(token, databaseID string, props PropertyNames) *Client {
	def := DefaultProperties()
	if props.Title == "" {
		props.Title = def.Title
	}
	if props.Date == "" {
		props.Date = def.Date
	}
	if props.ExternalID == "" {
		props.ExternalID = def.ExternalID
	}
	return &Client{
		BaseURL:    DefaultBaseURL,
		DatabaseID: databaseID,
		Props:      props,
		HTTP:       &http.Client{Timeout: 30 * time.Second},
		token:      token,
	}
}

/* -------- Wire types -------- */

type richText struct {
	PlainText string       `json:"plain_text,omitempty"`
	Text      *textContent `json:"text,omitempty"`
}

type textContent struct {
	Content string `json:"content"`
}

type dateValue struct {
	Start string `json:"start"`
	End   string `json:"end,omitempty"`
}

// property is the union of the property shapes this client touches.
type property struct {
	Title    []richText `json:"title,omitempty"`
	RichText []richText `json:"rich_text,omitempty"`
	Date     *dateValue `json:"date,omitempty"`
}

type queryRequest struct {
	Filter queryFilter `json:"filter"`
}

type queryFilter struct {
	Property string          `json:"property"`
	RichText equalsCondition `json:"rich_text"`
}

type equalsCondition struct {
	Equals string `json:"equals"`
}

type page struct {
	ID         string              `json:"id"`
	Archived   bool                `json:"archived"`
	Properties map[string]property `json:"properties"`
}

type queryResponse struct {
	Results []page `json:"results"`
}

type createRequest struct {
	Parent     pageParent          `json:"parent"`
	Properties map[string]property `json:"properties"`
}

type pageParent struct {
	DatabaseID string `json:"database_id"`
}

type archiveRequest struct {
	Archived bool `json:"archived"`
}

/* -------- RecordStore -------- */

// FindByExternalID queries the database for pages whose external id
// property equals id. Notion excludes archived pages from query results,
// so every hit is an active record.
func (c *Client) FindByExternalID(ctx context.Context, id string) ([]models.SyncedRecord, error) {
	reqBody := queryRequest{
		Filter: queryFilter{
			Property: c.Props.ExternalID,
			RichText: equalsCondition{Equals: id},
		},
	}
	var resp queryResponse
	url := fmt.Sprintf("%s/databases/%s/query", c.BaseURL, c.DatabaseID)
	if err := c.do(ctx, http.MethodPost, url, reqBody, &resp); err != nil {
		return nil, err
	}

	records := make([]models.SyncedRecord, 0, len(resp.Results))
	for _, p := range resp.Results {
		records = append(records, c.toRecord(p))
	}
	return records, nil
}

// Create inserts a page with the title, date range, and external id
// properties and returns the page id.
func (c *Client) Create(ctx context.Context, title string, dates models.DateRange, externalID string) (string, error) {
	date := &dateValue{Start: dates.Start.Format(models.ISODate)}
	if dates.HasEnd() {
		date.End = dates.End.Format(models.ISODate)
	}

	reqBody := createRequest{
		Parent: pageParent{DatabaseID: c.DatabaseID},
		Properties: map[string]property{
			c.Props.Title:      {Title: []richText{{Text: &textContent{Content: title}}}},
			c.Props.Date:       {Date: date},
			c.Props.ExternalID: {RichText: []richText{{Text: &textContent{Content: externalID}}}},
		},
	}
	var resp page
	if err := c.do(ctx, http.MethodPost, c.BaseURL+"/pages", reqBody, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// Archive marks the page archived. Notion keeps the page; it just stops
// showing up in database queries.
func (c *Client) Archive(ctx context.Context, internalID string) error {
	url := fmt.Sprintf("%s/pages/%s", c.BaseURL, internalID)
	return c.do(ctx, http.MethodPatch, url, archiveRequest{Archived: true}, nil)
}

/* -------- Plumbing -------- */

func (c *Client) do(ctx context.Context, method, url string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("notion: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("notion: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Notion-Version", apiVersion)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("notion: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("notion: read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("notion: %s %s failed: status=%d body=%s", method, url, resp.StatusCode, body)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("notion: decode response: %w", err)
	}
	return nil
}

// toRecord maps a page onto the domain record. Dates are best-effort:
// the reconciler keys everything on the ids, so a malformed date property
// degrades to a zero range instead of failing the lookup.
func (c *Client) toRecord(p page) models.SyncedRecord {
	rec := models.SyncedRecord{InternalID: p.ID, Archived: p.Archived}

	if tp, ok := p.Properties[c.Props.Title]; ok {
		rec.Title = plainText(tp.Title)
	}
	if ip, ok := p.Properties[c.Props.ExternalID]; ok {
		rec.ExternalID = plainText(ip.RichText)
	}
	if dp, ok := p.Properties[c.Props.Date]; ok && dp.Date != nil {
		if t, err := time.Parse(models.ISODate, dp.Date.Start); err == nil {
			rec.Dates.Start = t
		}
		if dp.Date.End != "" {
			if t, err := time.Parse(models.ISODate, dp.Date.End); err == nil {
				rec.Dates.End = t
			}
		}
	}
	return rec
}

func plainText(rt []richText) string {
	if len(rt) == 0 {
		return ""
	}
	if rt[0].PlainText != "" {
		return rt[0].PlainText
	}
	if rt[0].Text != nil {
		return rt[0].Text.Content
	}
	return ""
}
