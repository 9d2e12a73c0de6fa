package weather

import "errors"

// Error codes carried by apperrors.AppError values returned from the service.
const (
	CodeInvalidInput   = "invalid_input"
	CodeInterpretation = "interpretation_failed"
	CodeRetrieval      = "retrieval_failed"
)

// ErrInvalidCoordinates is returned by weather clients when latitude or longitude is unusable.
var ErrInvalidCoordinates = errors.New("invalid coordinates")

// Extraction failure reasons.
const (
	ReasonNoJSONObject       = "no JSON object found"
	ReasonMalformedJSON      = "malformed JSON"
	ReasonMissingLocation    = "missing locationName"
	ReasonMissingRequestType = "missing requestType"
)

// ExtractionError is the failure branch of intent parsing. Raw holds the text that was
// being parsed when the failure occurred.
type ExtractionError struct {
	Reason string
	Raw    string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
