package sdconnector

import (
	"io"
	"net/http"
	"time"
)

// A response contains information relative to a completed request,
// including the time elapsed to fulfill the request and any errors.
type response struct {
	StatusCode int           `json:"status_code"`
	Status     string        `json:"status"`
	Payload    []byte        `json:"-"`
	Duration   time.Duration `json:"response_time"`
	Size       int           `json:"response_size"`
}

func doRequest(c *http.Client, req *http.Request) (response, error) {
	resp, duration, err := timeResponse(c, req)
	if err != nil {
		return response{Duration: duration}, err
	}
	defer resp.Body.Close()
	return analyzeResponse(resp, duration)
}

func timeResponse(c *http.Client, req *http.Request) (*http.Response, time.Duration, error) {
	start := time.Now()
	resp, err := c.Do(req)
	duration := time.Since(start) / time.Millisecond
	return resp, duration, err
}

func analyzeResponse(resp *http.Response, duration time.Duration) (response, error) {
	payload, err := io.ReadAll(resp.Body)
	return response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Payload:    payload,
		Duration:   duration,
		Size:       len(payload),
	}, err
}
