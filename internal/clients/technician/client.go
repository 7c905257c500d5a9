package technician

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"
)

const requestTimeout = 30 * time.Second

type TechnicianInfo struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Specialty string `json:"specialty"`
}

// Client talks to the technician service. The failure defaults are
// deliberately asymmetric: CheckAvailability fails open (an unreachable
// directory must not block scheduling work), NotifyAssignment and GetInfo
// fail closed.
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

// CheckAvailability reports whether the technician is free at the given
// time. A transport or decode failure defaults to available; an explicit
// non-200 answer counts as unavailable.
func (c *Client) CheckAvailability(ctx context.Context, technicianID int, when time.Time) bool {
	endpoint := fmt.Sprintf("%s/api/techniciens/%d/availability?date=%s",
		c.baseURL, technicianID, url.QueryEscape(when.Format(time.RFC3339)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return true
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("technician client: availability check failed technician_id=%d err=%v, assuming available", technicianID, err)
		return true
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	var payload struct {
		Available bool `json:"available"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Printf("technician client: decode availability failed technician_id=%d err=%v, assuming available", technicianID, err)
		return true
	}
	return payload.Available
}

// NotifyAssignment tells the technician service about a new assignment.
func (c *Client) NotifyAssignment(ctx context.Context, technicianID int, interventionID string) bool {
	body, err := json.Marshal(map[string]string{"intervention_id": interventionID})
	if err != nil {
		return false
	}

	endpoint := fmt.Sprintf("%s/api/techniciens/%d/assign", c.baseURL, technicianID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("technician client: assignment notify failed technician_id=%d err=%v", technicianID, err)
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// GetInfo returns nil when the technician is unknown or the service is
// unreachable.
func (c *Client) GetInfo(ctx context.Context, technicianID int) *TechnicianInfo {
	endpoint := fmt.Sprintf("%s/api/techniciens/%d", c.baseURL, technicianID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("technician client: get info failed technician_id=%d err=%v", technicianID, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var info TechnicianInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil
	}
	return &info
}
