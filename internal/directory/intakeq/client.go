// Package intakeq implements the directory.Directory interface against the
// IntakeQ practice management REST API.
package intakeq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/wolfman30/practice-voice-ai/internal/directory"
	"github.com/wolfman30/practice-voice-ai/pkg/logging"
)

const (
	defaultBaseURL = "https://intakeq.com/api/v1"
	defaultTimeout = 15 * time.Second
)

// Client is an IntakeQ API client. It is safe for concurrent use.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

var _ directory.Directory = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Tests point it at a local server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimSuffix(baseURL, "/")
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithLogger overrides the default logger.
func WithLogger(logger *logging.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates an IntakeQ client.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("intakeq: API key is required")
	}

	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SearchClients finds client records matching a free-text query.
// IntakeQ: GET /clients?search={query}
func (c *Client) SearchClients(ctx context.Context, query string) ([]directory.Client, error) {
	params := url.Values{}
	params.Set("search", query)

	var results []apiClient
	if err := c.doJSON(ctx, http.MethodGet, "/clients", params, nil, &results); err != nil {
		return nil, err
	}

	clients := make([]directory.Client, 0, len(results))
	for _, r := range results {
		clients = append(clients, r.toDirectory())
	}
	return clients, nil
}

// GetClientByEmail retrieves the client whose email matches exactly.
// IntakeQ has no direct lookup, so this searches by the address and filters
// for an exact, case-insensitive match. Returns (nil, nil) when absent.
func (c *Client) GetClientByEmail(ctx context.Context, email string) (*directory.Client, error) {
	clients, err := c.SearchClients(ctx, email)
	if err != nil {
		return nil, err
	}
	for i := range clients {
		if strings.EqualFold(clients[i].Email, email) {
			return &clients[i], nil
		}
	}
	return nil, nil
}

// ListAppointments retrieves appointments within an inclusive date range.
// IntakeQ: GET /appointments?startDate={d}&endDate={d}&status={s}
func (c *Client) ListAppointments(ctx context.Context, dateRange directory.DateRange, status string) ([]directory.Appointment, error) {
	params := url.Values{}
	params.Set("startDate", dateRange.StartDate)
	params.Set("endDate", dateRange.EndDate)
	if status != "" {
		params.Set("status", status)
	}

	var results []apiAppointment
	if err := c.doJSON(ctx, http.MethodGet, "/appointments", params, nil, &results); err != nil {
		return nil, err
	}

	appts := make([]directory.Appointment, 0, len(results))
	for _, r := range results {
		appts = append(appts, r.toDirectory())
	}
	return appts, nil
}

// GetAppointment retrieves a single appointment by ID. Returns (nil, nil)
// when IntakeQ does not know the ID.
// IntakeQ: GET /appointments/{id}
func (c *Client) GetAppointment(ctx context.Context, appointmentID string) (*directory.Appointment, error) {
	var result apiAppointment
	err := c.doJSON(ctx, http.MethodGet, "/appointments/"+url.PathEscape(appointmentID), nil, nil, &result)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	appt := result.toDirectory()
	return &appt, nil
}

// CreateAppointment books a new appointment.
// IntakeQ: POST /appointments
func (c *Client) CreateAppointment(ctx context.Context, req directory.CreateAppointmentRequest) (*directory.Appointment, error) {
	clientID, err := strconv.ParseInt(req.ClientID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("intakeq: invalid client id %q: %w", req.ClientID, err)
	}

	payload := createAppointmentPayload{
		ClientID:                    clientID,
		PractitionerID:              req.PractitionerID,
		ServiceID:                   req.ServiceID,
		LocationID:                  req.LocationID,
		UtcDateTime:                 req.UTCDateTime,
		Status:                      req.Status,
		SendClientEmailNotification: req.SendClientEmailNotification,
		ReminderType:                req.ReminderType,
	}

	var result apiAppointment
	if err := c.doJSON(ctx, http.MethodPost, "/appointments", nil, payload, &result); err != nil {
		return nil, err
	}
	appt := result.toDirectory()
	return &appt, nil
}

// CancelAppointment cancels an existing appointment.
// IntakeQ: POST /appointments/cancellation
func (c *Client) CancelAppointment(ctx context.Context, appointmentID, reason string) error {
	payload := cancelAppointmentPayload{AppointmentID: appointmentID, Reason: reason}
	return c.doJSON(ctx, http.MethodPost, "/appointments/cancellation", nil, payload, nil)
}

// GetSchedulingSettings retrieves practitioners, services, and locations.
// IntakeQ: GET /appointments/settings
func (c *Client) GetSchedulingSettings(ctx context.Context) (*directory.SchedulingSettings, error) {
	var result apiSettings
	if err := c.doJSON(ctx, http.MethodGet, "/appointments/settings", nil, nil, &result); err != nil {
		return nil, err
	}
	return result.toDirectory(), nil
}

// ListQuestionnaireTemplates retrieves the sendable questionnaire templates.
// IntakeQ: GET /questionnaires
func (c *Client) ListQuestionnaireTemplates(ctx context.Context) ([]directory.QuestionnaireTemplate, error) {
	var results []apiQuestionnaire
	if err := c.doJSON(ctx, http.MethodGet, "/questionnaires", nil, nil, &results); err != nil {
		return nil, err
	}

	templates := make([]directory.QuestionnaireTemplate, 0, len(results))
	for _, r := range results {
		templates = append(templates, directory.QuestionnaireTemplate{ID: r.ID, Name: r.Name})
	}
	return templates, nil
}

// ListQuestionnairePractitioners retrieves practitioners able to send
// questionnaires.
// IntakeQ: GET /practitioners
func (c *Client) ListQuestionnairePractitioners(ctx context.Context) ([]directory.QuestionnairePractitioner, error) {
	var results []apiPractitioner
	if err := c.doJSON(ctx, http.MethodGet, "/practitioners", nil, nil, &results); err != nil {
		return nil, err
	}

	practitioners := make([]directory.QuestionnairePractitioner, 0, len(results))
	for _, r := range results {
		practitioners = append(practitioners, directory.QuestionnairePractitioner{
			ID:    r.ID,
			Name:  r.displayName(),
			Email: r.Email,
		})
	}
	return practitioners, nil
}

// SendQuestionnaire sends an intake questionnaire to a client.
// IntakeQ: POST /questionnaires/send
func (c *Client) SendQuestionnaire(ctx context.Context, req directory.SendQuestionnaireRequest) (*directory.QuestionnaireSend, error) {
	payload := sendQuestionnairePayload{
		QuestionnaireID: req.QuestionnaireID,
		ClientName:      req.ClientName,
		ClientEmail:     req.ClientEmail,
		PractitionerID:  req.PractitionerID,
	}
	if req.ClientID != "" {
		clientID, err := strconv.ParseInt(req.ClientID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("intakeq: invalid client id %q: %w", req.ClientID, err)
		}
		payload.ClientID = clientID
	}

	var result apiQuestionnaireSend
	if err := c.doJSON(ctx, http.MethodPost, "/questionnaires/send", nil, payload, &result); err != nil {
		return nil, err
	}
	return &directory.QuestionnaireSend{
		ID:          result.ID,
		ClientEmail: result.ClientEmail,
		SentAt:      result.SentAt,
	}, nil
}

// apiError marks a non-2xx IntakeQ response so callers can branch on the
// status code.
type apiError struct {
	status int
	body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("intakeq: API error (status %d): %s", e.status, e.body)
}

func isNotFound(err error) bool {
	apiErr, ok := err.(*apiError)
	return ok && apiErr.status == http.StatusNotFound
}

// doJSON performs one authenticated request. A nil out skips decoding; a nil
// payload sends no body.
func (c *Client) doJSON(ctx context.Context, method, path string, params url.Values, payload, out any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("intakeq: failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("intakeq: failed to create request: %w", err)
	}
	req.Header.Set("X-Auth-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("intakeq request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("intakeq: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &apiError{status: resp.StatusCode, body: strings.TrimSpace(string(data))}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("intakeq: failed to decode response: %w", err)
	}
	return nil
}
