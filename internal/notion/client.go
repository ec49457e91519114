// Package notion is a small client for the Notion REST API covering the
// database and page calls the sync needs.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go-gongkao-sync/internal/config"
)

// MaxPageSize is the largest page the query endpoint returns.
const MaxPageSize = 100

var ErrDatabaseNotFound = errors.New("notion database not found")

type Client struct {
	token      string
	version    string
	apiURL     string
	httpClient *http.Client
}

func NewClient(cfg config.NotionConfig) *Client {
	return &Client{
		token:      cfg.Token,
		version:    cfg.Version,
		apiURL:     strings.TrimRight(cfg.APIURL, "/"),
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
	}
}

// Properties is a property map ready to be written to a page.
type Properties map[string]any

type RichText struct {
	PlainText string `json:"plain_text"`
}

// PropertyValue is the read side of a page property.
type PropertyValue struct {
	Type     string     `json:"type"`
	Title    []RichText `json:"title,omitempty"`
	RichText []RichText `json:"rich_text,omitempty"`
	URL      *string    `json:"url,omitempty"`
	Date     *struct {
		Start string `json:"start"`
	} `json:"date,omitempty"`
	Select *struct {
		Name string `json:"name"`
	} `json:"select,omitempty"`
}

type Page struct {
	ID         string                   `json:"id"`
	Archived   bool                     `json:"archived"`
	Properties map[string]PropertyValue `json:"properties"`
}

type DatabaseProperty struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type Database struct {
	ID         string                      `json:"id"`
	Title      []RichText                  `json:"title"`
	Properties map[string]DatabaseProperty `json:"properties"`
}

// Name is the plain-text database title.
func (d *Database) Name() string {
	return plainText(d.Title)
}

type QueryRequest struct {
	Filter      any    `json:"filter,omitempty"`
	StartCursor string `json:"start_cursor,omitempty"`
	PageSize    int    `json:"page_size,omitempty"`
}

type QueryResponse struct {
	Results    []Page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

func (c *Client) QueryDatabase(ctx context.Context, databaseID string, req QueryRequest) (*QueryResponse, error) {
	var resp QueryResponse
	if err := c.do(ctx, http.MethodPost, "/databases/"+databaseID+"/query", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// QueryAll follows the cursor until the last page.
func (c *Client) QueryAll(ctx context.Context, databaseID string, filter any) ([]Page, error) {
	var pages []Page
	req := QueryRequest{Filter: filter, PageSize: MaxPageSize}
	for {
		resp, err := c.QueryDatabase(ctx, databaseID, req)
		if err != nil {
			return nil, err
		}
		pages = append(pages, resp.Results...)
		if !resp.HasMore || resp.NextCursor == "" {
			return pages, nil
		}
		req.StartCursor = resp.NextCursor
	}
}

func (c *Client) CreatePage(ctx context.Context, databaseID string, props Properties) (*Page, error) {
	body := map[string]any{
		"parent":     map[string]string{"database_id": databaseID},
		"properties": props,
	}
	var page Page
	if err := c.do(ctx, http.MethodPost, "/pages", body, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) UpdatePage(ctx context.Context, pageID string, props Properties) (*Page, error) {
	var page Page
	if err := c.do(ctx, http.MethodPatch, "/pages/"+pageID, map[string]any{"properties": props}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ArchivePage moves a page to the trash.
func (c *Client) ArchivePage(ctx context.Context, pageID string) error {
	return c.do(ctx, http.MethodPatch, "/pages/"+pageID, map[string]any{"archived": true}, nil)
}

func (c *Client) RetrieveDatabase(ctx context.Context, databaseID string) (*Database, error) {
	var db Database
	if err := c.do(ctx, http.MethodGet, "/databases/"+databaseID, nil, &db); err != nil {
		return nil, err
	}
	return &db, nil
}

// SearchDatabases returns every database shared with the integration that
// matches query.
func (c *Client) SearchDatabases(ctx context.Context, query string) ([]Database, error) {
	type searchResponse struct {
		Results    []Database `json:"results"`
		HasMore    bool       `json:"has_more"`
		NextCursor string     `json:"next_cursor"`
	}
	body := map[string]any{
		"query":     query,
		"filter":    map[string]string{"property": "object", "value": "database"},
		"page_size": MaxPageSize,
	}
	var dbs []Database
	for {
		var resp searchResponse
		if err := c.do(ctx, http.MethodPost, "/search", body, &resp); err != nil {
			return nil, err
		}
		dbs = append(dbs, resp.Results...)
		if !resp.HasMore || resp.NextCursor == "" {
			return dbs, nil
		}
		body["start_cursor"] = resp.NextCursor
	}
}

// ResolveDatabase retrieves the database by id, or when id is empty finds
// the one titled name, and checks its schema.
func (c *Client) ResolveDatabase(ctx context.Context, id, name string) (*Database, error) {
	var db *Database
	if id != "" {
		found, err := c.RetrieveDatabase(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("retrieve database %s: %w", id, err)
		}
		db = found
	} else {
		dbs, err := c.SearchDatabases(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("search database %q: %w", name, err)
		}
		for i := range dbs {
			if strings.TrimSpace(dbs[i].Name()) == strings.TrimSpace(name) {
				db = &dbs[i]
				break
			}
		}
		if db == nil {
			return nil, fmt.Errorf("%w: %q", ErrDatabaseNotFound, name)
		}
	}
	if err := CheckSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", path, err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create http request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", c.version)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	op := method + " " + path
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{}
		if err := json.Unmarshal(bodyBytes, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(bodyBytes))
		}
		apiErr.Status = resp.StatusCode
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", op, err)
	}
	return nil
}
