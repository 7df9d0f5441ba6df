package ctl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var httpClient = &http.Client{Timeout: 5 * time.Second}

// Prediction and planning involve TLE network fetches and per-second SGP4
// propagation, so those endpoints get a much longer timeout.
var slowClient = &http.Client{Timeout: 120 * time.Second}

// getJSON sends a GET request and decodes the JSON response into dst.
func getJSON(baseURL, path string, dst any) error {
	return getJSONWith(httpClient, baseURL, path, dst)
}

// getJSONSlow is getJSON with the long-timeout client.
func getJSONSlow(baseURL, path string, dst any) error {
	return getJSONWith(slowClient, baseURL, path, dst)
}

func getJSONWith(client *http.Client, baseURL, path string, dst any) error {
	url := strings.TrimRight(baseURL, "/") + path
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return httpError(resp, path)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

// getRaw sends a GET request and returns the raw response body.
func getRaw(baseURL, path string) (int, []byte, error) {
	url := strings.TrimRight(baseURL, "/") + path
	resp, err := httpClient.Get(url)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

// postJSON sends a POST request with a JSON body and decodes the response.
func postJSON(baseURL, path string, body, dst any) error {
	url := strings.TrimRight(baseURL, "/") + path
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(b)
	}
	resp, err := slowClient.Post(url, "application/json", reqBody)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return httpError(resp, path)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

// httpError reads an error message out of a non-200 response body. The
// daemon sends {"error": "..."} for most failures.
func httpError(resp *http.Response, path string) error {
	b, _ := io.ReadAll(resp.Body)

	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(b, &body); err == nil && body.Error != "" {
		return fmt.Errorf("HTTP %s: %s", resp.Status, body.Error)
	}

	msg := strings.TrimSpace(string(b))
	if msg != "" {
		return fmt.Errorf("HTTP %s: %s", resp.Status, msg)
	}
	return fmt.Errorf("HTTP %s from %s", resp.Status, path)
}

// printJSON prints v as indented JSON to stdout.
func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}
