// Package obf talks to the Open Beauty Facts search API.
package obf

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/iismail06/Skincare-tracker-SKYN/config"
)

// product is one raw entry of the search response.
type product struct {
	ID              string `json:"_id"`
	ProductName     string `json:"product_name"`
	Brands          string `json:"brands"`
	Categories      string `json:"categories"`
	IngredientsText string `json:"ingredients_text"`
	GenericName     string `json:"generic_name"`
}

type searchResponse struct {
	Products []product `json:"products"`
}

// FetchedProduct is a cleaned-up search result ready to be saved.
type FetchedProduct struct {
	Name        string
	Brand       string
	ProductType string
	Ingredients string
	Description string
	ExternalID  string
}

type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURL: config.GetEnv("OBF_BASE_URL", "https://world.openbeautyfacts.org"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Search queries Open Beauty Facts for skincare products in the given
// category, sorted by popularity. Rows without a usable name are dropped and
// multi-brand strings are reduced to their first entry.
func (c *Client) Search(category string, limit int) ([]FetchedProduct, error) {
	params := url.Values{}
	params.Set("search_terms", category+" face skin care")
	params.Set("search_simple", "1")
	params.Set("action", "process")
	params.Set("json", "1")
	params.Set("page_size", strconv.Itoa(limit))
	params.Set("sort_by", "popularity")

	req, err := http.NewRequest("GET", c.baseURL+"/cgi/search.pl?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var search searchResponse
	if err := json.Unmarshal(body, &search); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	out := make([]FetchedProduct, 0, len(search.Products))
	for _, p := range search.Products {
		name := strings.TrimSpace(p.ProductName)
		if name == "" {
			continue
		}
		brand := strings.TrimSpace(p.Brands)
		if idx := strings.Index(brand, ","); idx >= 0 {
			brand = strings.TrimSpace(brand[:idx])
		}
		if brand == "" {
			brand = "Unknown Brand"
		}
		out = append(out, FetchedProduct{
			Name:        truncate(name, 200),
			Brand:       truncate(brand, 100),
			ProductType: MapCategory(p.Categories),
			Ingredients: p.IngredientsText,
			Description: p.GenericName,
			ExternalID:  p.ID,
		})
	}
	return out, nil
}

// truncate limits s to max characters. OBF names carry accents, so cut on
// rune boundaries rather than bytes.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
