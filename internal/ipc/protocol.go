package ipc

import (
	"encoding/json"

	"github.com/berrythewa/clipman-history/internal/types"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Request represents a command invoked by name with structured arguments.
type Request struct {
	Command string          `json:"command"`        // e.g. "list_history", "set_clipboard"
	Args    json.RawMessage `json:"args,omitempty"` // Command-specific arguments object
}

// Response represents a reply from the daemon.
type Response struct {
	Status  string          `json:"status"`            // "ok" or "error"
	Code    string          `json:"code,omitempty"`    // error code, see types.Code
	Message string          `json:"message,omitempty"` // Human-readable error
	Data    json.RawMessage `json:"data,omitempty"`    // Command-specific result
}

// Err converts an error response back into a coded error
func (r *Response) Err() error {
	if r.Status == StatusOK {
		return nil
	}
	code := r.Code
	if code == "" {
		code = types.CodeInternal
	}
	return types.NewErr(code, r.Message)
}

// NewRequest marshals args into a request
func NewRequest(command string, args interface{}) (*Request, error) {
	req := &Request{Command: command}
	if args != nil {
		raw, err := json.Marshal(args)
		if err != nil {
			return nil, err
		}
		req.Args = raw
	}
	return req, nil
}

func okResponse(data interface{}) *Response {
	resp := &Response{Status: StatusOK}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return errorResponse(err)
		}
		resp.Data = raw
	}
	return resp
}

func errorResponse(err error) *Response {
	return &Response{Status: StatusError, Code: types.Code(err), Message: err.Error()}
}

// Bind decodes request arguments into T. Missing arguments yield the zero value.
func Bind[T any](args json.RawMessage) (T, error) {
	var v T
	if len(args) == 0 || string(args) == "null" {
		return v, nil
	}
	if err := json.Unmarshal(args, &v); err != nil {
		return v, types.Wrapf(types.ErrInvalidArgument, "bad arguments: %v", err)
	}
	return v, nil
}
