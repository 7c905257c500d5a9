package stock

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

const requestTimeout = 30 * time.Second

// PartInfo is the subset of the stock service's piece record this service
// reads.
type PartInfo struct {
	PartID    string  `json:"part_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// Client talks to the stock service. Every method folds transport and
// timeout failures into a false/nil result: the stock path is fail-closed,
// callers treat false as "insufficient stock" and abort their workflow.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// Decrement reduces the stock of a part. False means the decrement did not
// happen, whether the service refused it or was unreachable.
func (c *Client) Decrement(ctx context.Context, partID string, quantity int) bool {
	body, err := json.Marshal(map[string]int{"quantity": quantity})
	if err != nil {
		return false
	}

	url := fmt.Sprintf("%s/api/stock/%s/decrement", c.baseURL, partID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("stock client: decrement failed part_id=%s err=%v", partID, err)
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// GetPartInfo returns nil when the part is unknown or the service is
// unreachable.
func (c *Client) GetPartInfo(ctx context.Context, partID string) *PartInfo {
	url := fmt.Sprintf("%s/api/stock/%s", c.baseURL, partID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("stock client: get part info failed part_id=%s err=%v", partID, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var info PartInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		log.Printf("stock client: decode part info failed part_id=%s err=%v", partID, err)
		return nil
	}
	return &info
}

// CheckAvailability reports whether at least the required quantity is in
// stock. Unknown part or unreachable service count as unavailable.
func (c *Client) CheckAvailability(ctx context.Context, partID string, required int) bool {
	info := c.GetPartInfo(ctx, partID)
	if info == nil {
		return false
	}
	return info.Quantity >= required
}
