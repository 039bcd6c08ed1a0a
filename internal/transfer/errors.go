package transfer

// ImportErrorKind classifies why an import was rejected.
type ImportErrorKind string

const (
	KindParse      ImportErrorKind = "parse"
	KindSchema     ImportErrorKind = "schema"
	KindValidation ImportErrorKind = "validation"
	KindStorage    ImportErrorKind = "storage"
)

// MissingRequiredMessage is reported when an imported record lacks a name or email.
const MissingRequiredMessage = "Import validation error: name and email are required."

// ImportError is returned when an import is rejected. Message is the text shown to the
// user; nothing is committed when an ImportError is returned.
type ImportError struct {
	Kind    ImportErrorKind
	Message string
	Cause   error
}

func (e *ImportError) Error() string {
	return e.Message
}

func (e *ImportError) Unwrap() error {
	return e.Cause
}

func parseError(err error) *ImportError {
	return &ImportError{Kind: KindParse, Message: "Failed to import JSON: " + err.Error(), Cause: err}
}
