package functions

import (
	"context"
	"errors"
	"fmt"
)

// Names of the remote backend functions the dashboard delegates to.
const (
	ScanStore          = "scanStore"
	ApplyFix           = "applyFix"
	OptimizeImage      = "optimizeImage"
	RunProductAnalysis = "runProductAnalysis"
	ImportReviews      = "importReviews"
	GetGeoLocation     = "getGeoLocation"
	ShopifyIntegration = "shopifyIntegration"
)

// Caller invokes a named remote function with a JSON payload and decodes the
// JSON answer into out.
type Caller interface {
	Call(ctx context.Context, name string, payload any, out any) error
}

// ErrRemote marks failures reported by (or while reaching) a remote function.
var ErrRemote = errors.New("remote function failed")

// RemoteError carries the function name and the message the remote side gave.
type RemoteError struct {
	Function   string
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Function, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Function, e.Message)
}

func (e *RemoteError) Unwrap() error { return ErrRemote }

// Envelope is the common success/error wrapper every remote function returns.
type Envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Failed converts an unsuccessful envelope into a RemoteError.
func (e Envelope) Failed(function string) error {
	if e.Success {
		return nil
	}
	msg := e.Error
	if msg == "" {
		msg = "unsuccessful result"
	}
	return &RemoteError{Function: function, Message: msg}
}
