package emailgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"user-registration/pkg/models"
)

// SendEmailPath is the fixed gateway endpoint
const SendEmailPath = "/api/send-email"

// Client defines the interface for interacting with the notification gateway
type Client interface {
	SendEmail(ctx context.Context, userID, email string) (*models.EmailServiceResponse, error)
}

// StatusError is returned when the gateway answers with a non-2xx status
type StatusError struct {
	StatusCode int
	StatusText string
	Body       string
}

func (e *StatusError) Error() string {
	return "Email service error: " + e.StatusText
}

// ResponseError is returned when a 2xx body cannot be parsed
type ResponseError struct {
	Err error
}

func (e *ResponseError) Error() string {
	return "Email service error: invalid response: " + e.Err.Error()
}

func (e *ResponseError) Unwrap() error {
	return e.Err
}

type clientImpl struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new gateway client. A nil httpClient uses transport defaults.
func NewClient(baseURL string, httpClient *http.Client) Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &clientImpl{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *clientImpl) SendEmail(ctx context.Context, userID, email string) (*models.EmailServiceResponse, error) {
	payload := map[string]string{
		"userId": userID,
		"email":  email,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error creating payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+SendEmailPath, bytes.NewReader(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Add("Content-Type", "application/json")

	// single attempt, no retry
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// the status alone decides; the body is kept only for diagnostics
		body, _ := io.ReadAll(resp.Body)
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			StatusText: statusText(resp),
			Body:       string(body),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	response := &models.EmailServiceResponse{}
	if len(bytes.TrimSpace(body)) == 0 {
		return response, nil
	}
	if err := json.Unmarshal(body, response); err != nil {
		return nil, &ResponseError{Err: err}
	}
	return response, nil
}

// statusText strips the numeric code from resp.Status ("500 Internal Server Error")
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
