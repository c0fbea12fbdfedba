package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// Failure codes reported by Fetch.
const (
	CodeNoAPIKey      = "no_api_key"
	CodeException     = "exception"
	CodeXMLParse      = "xml_parse"
	CodeMissingHeader = "missing_header"

	httpCodePrefix = "HTTP_"
	apiCodePrefix  = "API_ERROR_"
)

// ResultCodeNotApproved is the upstream code for a service key that is
// invalid or still waiting for approval.
const ResultCodeNotApproved = "12"

// Kind classifies a Failure.
type Kind string

const (
	KindNoCredential Kind = "no_credential"
	KindTransport    Kind = "transport"
	KindUpstream     Kind = "upstream"
	KindParse        Kind = "parse"
)

// ErrEmptyResult is returned when no fetched record qualifies for the working set.
var ErrEmptyResult = errors.New("no qualifying stories in catalog response")

// Failure is the error side of a catalog response.
type Failure struct {
	Code    string
	Message string
	// ResultCode is the raw upstream resultCode for API_ERROR failures.
	ResultCode string
	Err        error
}

func (f *Failure) Error() string {
	if f.Message == "" {
		return fmt.Sprintf("catalog %s", f.Code)
	}
	return fmt.Sprintf("catalog %s: %s", f.Code, f.Message)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Kind maps the failure code onto the error taxonomy.
func (f *Failure) Kind() Kind {
	switch {
	case f.Code == CodeNoAPIKey:
		return KindNoCredential
	case f.Code == CodeXMLParse, f.Code == CodeMissingHeader:
		return KindParse
	case strings.HasPrefix(f.Code, apiCodePrefix):
		return KindUpstream
	default:
		return KindTransport
	}
}

// AsFailure extracts a *Failure from err.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
