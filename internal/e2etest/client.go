package e2etest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

type Client struct {
	client *http.Client
	url    string
}

// NewClient creates an HTTP client for the server at url.
func NewClient(url string) *Client {
	return &Client{
		client: &http.Client{}, //nolint:exhaustruct // defaults are fine for tests.
		url:    url,
	}
}

// NewClientWithSecFetchSite creates a client that sends the given Sec-Fetch-Site header with every request, for
// example "cross-site" to simulate a request from another origin.
func NewClientWithSecFetchSite(url, secFetchSite string) *Client {
	return &Client{
		client: &http.Client{ //nolint:exhaustruct // defaults are fine for tests.
			Transport: headerTransport{
				base:   http.DefaultTransport,
				header: "Sec-Fetch-Site",
				value:  secFetchSite,
			},
		},
		url: url,
	}
}

type headerTransport struct {
	base   http.RoundTripper
	header string
	value  string
}

func (t headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set(t.header, t.value)
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("round trip: %w", err)
	}
	return resp, nil
}

// WaitForReady calls the specified endpoint until it gets a HTTP 200 Success
// response or until the context is cancelled or the 1-second timeout is reached.
func (c *Client) WaitForReady(ctx context.Context, urlPath string) error {
	timeout := 1 * time.Second
	startTime := time.Now()
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	for {
		if req, err = c.newRequestWithContext(ctx, http.MethodGet, urlPath, nil); err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		if resp, err = c.client.Do(req); err == nil {
			if err = resp.Body.Close(); err != nil {
				return fmt.Errorf("close response body: %w", err)
			}
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
			if time.Since(startTime) >= timeout {
				return errors.New("timeout waiting for endpoint to be ready")
			}
			time.Sleep(100 * time.Millisecond) //nolint:mnd // 100ms
		}
	}
}

// Get fetches a URL and returns the response.
func (c *Client) Get(ctx context.Context, urlPath string) (*http.Response, error) {
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	if req, err = c.newRequestWithContext(ctx, http.MethodGet, urlPath, nil); err != nil {
		return nil, fmt.Errorf("create request with context: %w", err)
	}
	if resp, err = c.client.Do(req); err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	return resp, nil
}

// GetDoc fetches a URL and returns a goquery document.
func (c *Client) GetDoc(ctx context.Context, urlPath string) (*goquery.Document, error) {
	var (
		err  error
		resp *http.Response
		doc  *goquery.Document
	)
	if resp, err = c.Get(ctx, urlPath); err != nil {
		return nil, fmt.Errorf("client get: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if http.StatusOK != resp.StatusCode {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	if doc, err = goquery.NewDocumentFromReader(resp.Body); err != nil {
		return nil, fmt.Errorf("create document from reader: %w", err)
	}
	doc.Url = resp.Request.URL
	return doc, nil
}

// GetJSON fetches a URL that must respond with 200 OK and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, urlPath string, out any) error {
	resp, err := c.Get(ctx, urlPath)
	if err != nil {
		return fmt.Errorf("client get: %w", err)
	}
	if http.StatusOK != resp.StatusCode {
		_ = resp.Body.Close()
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return DecodeJSON(resp, out)
}

// PostJSON posts body encoded as JSON. A nil body sends an empty request.
//
// The caller must close the response body, for example with [DecodeJSON].
func (c *Client) PostJSON(ctx context.Context, urlPath string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := c.newRequestWithContext(ctx, http.MethodPost, urlPath, reader)
	if err != nil {
		return nil, fmt.Errorf("new request with context: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	return resp, nil
}

// DecodeJSON decodes the body of resp into out and closes it.
func DecodeJSON(resp *http.Response, out any) error {
	defer func() {
		_ = resp.Body.Close()
	}()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// newRequestWithContext creates a new HTTP request to the server that respects the given context.
func (c *Client) newRequestWithContext(
	ctx context.Context,
	method, urlPath string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url+urlPath, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return req, nil
}

// SubmitForm submits a form in the doc identified with action formActionUrlPath and returns the response document.
// formFields is a map of label text to value. The function will find the input or select by label and set its value.
// Values for multiple selects are separated by commas.
func (c *Client) SubmitForm(
	ctx context.Context,
	doc *goquery.Document,
	formActionURLPath string,
	formFields map[string]string,
) (*goquery.Document, error) {
	form, err := FindForm(doc, formActionURLPath)
	if err != nil {
		return nil, fmt.Errorf("find form: %w", err)
	}

	formData := neturl.Values{}
	for labelText, value := range formFields {
		field, multiple, findErr := findFieldForLabel(form, labelText)
		if findErr != nil {
			return nil, findErr
		}

		name, exists := field.Attr("name")
		if !exists {
			return nil, fmt.Errorf("field has no name attribute (label: %s, form_action: %s)",
				labelText, formActionURLPath)
		}

		if !multiple {
			formData.Add(name, value)
			continue
		}
		for v := range strings.SplitSeq(value, ",") {
			formData.Add(name, strings.TrimSpace(v))
		}
	}

	data := strings.NewReader(formData.Encode())
	req, err := c.newRequestWithContext(ctx, http.MethodPost, formActionURLPath, data)
	if err != nil {
		return nil, fmt.Errorf("new request with context: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if http.StatusOK != resp.StatusCode {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	newDoc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("create document from reader: %w", err)
	}
	newDoc.Url = resp.Request.URL
	return newDoc, nil
}

func findFieldForLabel(form *goquery.Selection, labelText string) (*goquery.Selection, bool, error) {
	if input, err := FindInputForLabel(form, labelText); err == nil {
		return input, false, nil
	}
	selectElement, err := FindSelectForLabel(form, labelText)
	if err != nil {
		return nil, false, fmt.Errorf("find field for label: %w", err)
	}
	return selectElement, IsMultipleSelect(selectElement), nil
}
