// Command ping probes the server's /healthz endpoint and exits non-zero when
// it is unreachable or reports the database down. Intended for Docker
// HEALTHCHECK:
//
//	HEALTHCHECK CMD ["/ping"]
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"
)

const (
	defaultPort          = 8080
	healthEndpoint       = "/healthz"
	expectedHealthStatus = "ok"
	requestTimeout       = 2 * time.Second
)

// exit codes
const (
	codeRequestFailed     = 2
	codeBadHTTPStatus     = 3
	codeDecodeError       = 4
	codeReportedUnhealthy = 5
)

// healthResp mirrors { "status": "ok" } or { "status": "down", "error": "..." }.
type healthResp struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// probeError carries the exit code for a failed probe.
type probeError struct {
	code int
	msg  string
}

func (e *probeError) Error() string { return e.msg }

func main() {
	port := detectPort()
	url := fmt.Sprintf("http://localhost:%d%s", port, healthEndpoint)

	if err := probe(&http.Client{Timeout: requestTimeout}, url); err != nil {
		log.Print(err)
		var pe *probeError
		if errors.As(err, &pe) {
			os.Exit(pe.code)
		}
		os.Exit(1)
	}

	log.Printf("service healthy on port %d", port)
}

func probe(client *http.Client, url string) error {
	resp, err := client.Get(url)
	if err != nil {
		return &probeError{codeRequestFailed, fmt.Sprintf("request failed: %v", err)}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("failed to close response body: %v", err)
		}
	}()

	var h healthResp
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil && !errors.Is(err, io.EOF) {
		return &probeError{codeDecodeError, fmt.Sprintf("decode error: %v", err)}
	}

	if h.Status != "" && h.Status != expectedHealthStatus {
		return &probeError{codeReportedUnhealthy, fmt.Sprintf("service reported %q: %s", h.Status, h.Error)}
	}
	if resp.StatusCode != http.StatusOK {
		return &probeError{codeBadHTTPStatus, fmt.Sprintf("unexpected HTTP status %d", resp.StatusCode)}
	}
	return nil
}

// detectPort parses APP_PORT and falls back to defaultPort.
func detectPort() int {
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 && p <= 65535 {
			return p
		}
	}
	return defaultPort
}
