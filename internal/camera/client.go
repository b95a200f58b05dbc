package camera

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	inCountParameter  = "inCountTotal"
	outCountParameter = "outCountTotal"

	resetBody = `<app name="personcount"><instance name="default"><parameter name="manualReset">true</parameter></instance></app>`
)

// Counts are the cumulative counters reported by a camera.
type Counts struct {
	Entered int
	Exited  int
}

// CurrentlyIn is Entered-Exited, not clamped.
func (c Counts) CurrentlyIn() int {
	return c.Entered - c.Exited
}

// Client talks to the person-count application of a single camera.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
}

// NewClient creates a client for the camera at ip (host or host:port).
func NewClient(ip, username, password string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    fmt.Sprintf("http://%s/iAPI/apps.cgi", ip),
		username:   username,
		password:   password,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ReadCounts fetches the current entered/exited totals.
func (c *Client) ReadCounts(ctx context.Context) (Counts, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?action=read&path=personcount.default", nil)
	if err != nil {
		return Counts{}, fmt.Errorf("failed to build request: %w", err)
	}

	body, err := c.do(req)
	if err != nil {
		return Counts{}, err
	}
	return ParseCounts(body)
}

// Reset asks the camera to zero its counters.
func (c *Client) Reset(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"?action=Update", strings.NewReader(resetBody))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml")

	_, err = c.do(req)
	return err
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", req.URL.Host, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", req.URL.Host, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("camera %s returned %s", req.URL.Host, resp.Status)
	}
	return body, nil
}

// ParseCounts extracts the totals from a person-count XML document. Some
// firmware prefixes the document with a "Content-Type: text/xml" line.
// A missing parameter counts as zero.
func ParseCounts(body []byte) (Counts, error) {
	body = bytes.TrimSpace(body)
	if bytes.HasPrefix(body, []byte("Content-Type: text/xml")) {
		if i := bytes.IndexByte(body, '\n'); i >= 0 {
			body = bytes.TrimSpace(body[i+1:])
		} else {
			body = nil
		}
	}
	if len(body) == 0 {
		return Counts{}, errors.New("empty person count response")
	}

	values := map[string]int{}
	sawElement := false
	dec := xml.NewDecoder(bytes.NewReader(body))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Counts{}, fmt.Errorf("failed to parse person count XML: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		sawElement = true
		if start.Name.Local != "parameter" {
			continue
		}

		name := attr(start, "name")
		if name != inCountParameter && name != outCountParameter {
			continue
		}
		var text string
		if err := dec.DecodeElement(&text, &start); err != nil {
			return Counts{}, fmt.Errorf("failed to read parameter %s: %w", name, err)
		}
		n, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			return Counts{}, fmt.Errorf("parameter %s is not a number: %q", name, text)
		}
		values[name] = n
	}

	if !sawElement {
		return Counts{}, errors.New("person count response has no XML elements")
	}
	return Counts{Entered: values[inCountParameter], Exited: values[outCountParameter]}, nil
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
