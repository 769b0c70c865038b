package respbuilder

type ErrKind int64

const (
	ErrUnhandled ErrKind = iota + 1
	ErrValidation
	ErrDuplicateEntries
	ErrResourceNotFound
	ErrOutOfRange
)

type Reason struct {
	Code    string
	Message string
}

func (r *Reason) Error() string {
	return r.Message
}

var ErrX = &Reason{Code: "", Message: ""}

var ReasonMap = map[ErrKind]Reason{
	ErrUnhandled:        {Code: "01", Message: "unhandled error"},
	ErrValidation:       {Code: "02", Message: "error validation"},
	ErrDuplicateEntries: {Code: "03", Message: "duplicate entries"},
	ErrResourceNotFound: {Code: "04", Message: "resource not found"},
	ErrOutOfRange:       {Code: "05", Message: "value out of range"},
}

// ErrorEntity contain code, message, debug (*if applicable) and trace id.
type ErrorEntity struct {
	Code    string `json:"error_code"`        // to handle by FE
	Message string `json:"error_description"` // to handle by FE (string version of the error code)
	Debug   string `json:"debug,omitempty"`   // technical error
	TraceID string `json:"trace_id"`
}

type HTTPError struct {
	Err ErrorEntity `json:"error"`
}

func (e HTTPError) Error() string {
	return e.Err.Message + ": " + e.Err.Debug
}

// HTTPSuccess success response always wrap in data key.
type HTTPSuccess struct {
	TraceID string      `json:"trace_id"`
	Data    interface{} `json:"data"`
}
