package meetlink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Client invokes the provisioning function service.
//
// The client sets no timeout of its own: the session-request workflow waits
// on the function's deadline behavior, so the zero-timeout http.Client is
// deliberate. Pass a custom *http.Client to override in tests.
type Client struct {
	baseURL   string
	authToken string
	hc        *http.Client
}

// NewClient constructs a Client for the function service at baseURL.
func NewClient(baseURL, authToken string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{baseURL: baseURL, authToken: authToken, hc: hc}
}

// CreateMeet calls createGoogleMeet. On a structured fault the returned
// error is a *Error carrying the fault code.
func (c *Client) CreateMeet(ctx context.Context, req CreateMeetRequest) (*CreateMeetResult, error) {
	var res CreateMeetResult
	if err := c.call(ctx, "createGoogleMeet", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// TestCalendar calls the diagnostic testGoogleCalendar function.
func (c *Client) TestCalendar(ctx context.Context) (*TestCalendarResult, error) {
	var res TestCalendarResult
	if err := c.call(ctx, "testGoogleCalendar", struct{}{}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) call(ctx context.Context, fn string, data, result any) error {
	body, err := json.Marshal(RequestEnvelope{Data: data})
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+fn, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return &Error{Code: CodeInternal, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var fault ErrorEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&fault); err != nil {
			return &Error{
				Code:    CodeInternal,
				Message: fmt.Sprintf("%s returned HTTP %d", fn, resp.StatusCode),
			}
		}
		return &Error{
			Code:    CodeFromStatus(fault.Error.Status),
			Message: fault.Error.Message,
		}
	}

	var env struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &Error{Code: CodeInternal, Message: "malformed response: " + err.Error()}
	}
	return json.Unmarshal(env.Result, result)
}
