package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nekogravitycat/turn-booking/internal/booking"
	"github.com/nekogravitycat/turn-booking/internal/config"
)

// Remote is the authoritative booking store as seen from the client.
type Remote interface {
	List(ctx context.Context) ([]*booking.Booking, error)
	Reserve(ctx context.Context, c Candidate) (Outcome, error)
	Cancel(ctx context.Context, key booking.CancelKey) (Outcome, error)
}

// Outcome is the store's verdict on a mutation.
type Outcome struct {
	Result  booking.Result `json:"result"`
	Message string         `json:"message,omitempty"`
}

type bookingRow struct {
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Contact   string    `json:"contact"`
	CreatedAt time.Time `json:"created_at"`
}

type reserveBody struct {
	Name    string `json:"name"`
	Reason  string `json:"reason"`
	Contact string `json:"contact"`
	Date    string `json:"date"`
	Time    string `json:"time"`
}

type cancelBody struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Date    string `json:"date"`
	Time    string `json:"time"`
}

// execBody is the single-URL envelope spoken by legacy deployments.
type execBody struct {
	Action   string `json:"action"`
	Nombre   string `json:"nombre"`
	Motivo   string `json:"motivo,omitempty"`
	Contacto string `json:"contacto"`
	Fecha    string `json:"fecha"`
	Hora     string `json:"hora"`
}

// RemoteStore talks to the booking HTTP API. With PayloadStyleJSON the URL is
// the server base and resource paths are appended; with PayloadStyleLegacy the
// URL is the exec endpoint itself and every call goes there.
type RemoteStore struct {
	URL        string
	Style      string
	HTTPClient *http.Client
}

func NewRemoteStore(url, style string, timeout time.Duration) *RemoteStore {
	return &RemoteStore{
		URL:   url,
		Style: style,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (s *RemoteStore) List(ctx context.Context) ([]*booking.Booking, error) {
	path := "/v1/bookings"
	if s.Style == config.PayloadStyleLegacy {
		path = ""
	}

	status, body, err := s.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: list returned status %d", ErrTransport, status)
	}

	var rows []bookingRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("%w: decode booking list: %w", ErrTransport, err)
	}

	out := make([]*booking.Booking, len(rows))
	for i, r := range rows {
		out[i] = &booking.Booking{
			Date:      r.Date,
			Time:      r.Time,
			Contact:   r.Contact,
			CreatedAt: r.CreatedAt,
		}
	}
	return out, nil
}

func (s *RemoteStore) Reserve(ctx context.Context, c Candidate) (Outcome, error) {
	if s.Style == config.PayloadStyleLegacy {
		return s.mutate(ctx, "", execBody{
			Action:   "reserve",
			Nombre:   c.Name,
			Motivo:   c.Reason,
			Contacto: c.Contact,
			Fecha:    c.Date,
			Hora:     c.Time,
		})
	}
	return s.mutate(ctx, "/v1/bookings", reserveBody{
		Name:    c.Name,
		Reason:  c.Reason,
		Contact: c.Contact,
		Date:    c.Date,
		Time:    c.Time,
	})
}

func (s *RemoteStore) Cancel(ctx context.Context, key booking.CancelKey) (Outcome, error) {
	if s.Style == config.PayloadStyleLegacy {
		return s.mutate(ctx, "", execBody{
			Action:   "cancel",
			Nombre:   key.Name,
			Contacto: key.Contact,
			Fecha:    key.Date,
			Hora:     key.Time,
		})
	}
	return s.mutate(ctx, "/v1/bookings/cancel", cancelBody{
		Name:    key.Name,
		Contact: key.Contact,
		Date:    key.Date,
		Time:    key.Time,
	})
}

// mutate posts payload and decodes the {result,message} reply. A 4xx that
// still carries a result body is the store refusing the request, not a
// transport failure.
func (s *RemoteStore) mutate(ctx context.Context, path string, payload any) (Outcome, error) {
	status, body, err := s.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return Outcome{}, err
	}

	var out Outcome
	decodeErr := json.Unmarshal(body, &out)

	switch {
	case status >= 200 && status < 300:
		if decodeErr != nil || out.Result == "" {
			return Outcome{}, fmt.Errorf("%w: unreadable reply (status %d)", ErrTransport, status)
		}
		return out, nil
	case status >= 400 && status < 500 && decodeErr == nil && out.Result == booking.ResultError:
		return out, nil
	default:
		return Outcome{}, fmt.Errorf("%w: status %d", ErrTransport, status)
	}
}

func (s *RemoteStore) do(ctx context.Context, method, path string, payload any) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.URL+path, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read response body: %w", ErrTransport, err)
	}

	return resp.StatusCode, respBody, nil
}
