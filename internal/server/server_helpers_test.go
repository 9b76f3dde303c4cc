package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
)

func doRequest(t *testing.T, ts *httptest.Server, method, path, token string, payload any) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() {
		_ = resp.Body.Close()
	})
	return resp
}

// postForm submits an urlencoded form and returns the response without
// following redirects.
func postForm(t *testing.T, ts *httptest.Server, path, token string, values url.Values) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, ts.URL+path, strings.NewReader(values.Encode()))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() {
		_ = resp.Body.Close()
	})
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func expectStatus(t *testing.T, resp *http.Response, status int) {
	t.Helper()
	if resp.StatusCode != status {
		t.Fatalf("%s %s: expected status %d, got %d", resp.Request.Method, resp.Request.URL.Path, status, resp.StatusCode)
	}
}

func expectError(t *testing.T, resp *http.Response, status int, message string) {
	t.Helper()
	expectStatus(t, resp, status)
	body := decodeBody(t, resp)
	if body["error"] != message {
		t.Fatalf("expected error %q, got %#v", message, body["error"])
	}
}

// expectRedirect checks a form response's Location path and message key.
func expectRedirect(t *testing.T, resp *http.Response, path, message string) {
	t.Helper()
	expectStatus(t, resp, http.StatusFound)
	location, err := url.Parse(resp.Header.Get("Location"))
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	if location.Path != path {
		t.Fatalf("expected redirect to %s, got %s", path, location.Path)
	}
	if got := location.Query().Get("message"); got != message {
		t.Fatalf("expected message %q, got %q", message, got)
	}
}

func claim(row, col int) map[string]any {
	return map[string]any{"action": "claim", "row": row, "col": col}
}

func release(row, col int) map[string]any {
	return map[string]any{"action": "release", "row": row, "col": col}
}

func gridCell(t *testing.T, body map[string]any, row, col int) map[string]any {
	t.Helper()
	grid, ok := body["grid"].([]any)
	if !ok || len(grid) != 10 {
		t.Fatalf("expected 10 grid rows, got %#v", body["grid"])
	}
	cells := grid[row].([]any)
	if cells[col] == nil {
		return nil
	}
	return cells[col].(map[string]any)
}

func formatFloatID(id float64) string {
	return strconv.Itoa(int(id))
}
