package errors

import (
	"encoding/json"
)

// ErrorResponse is the flat, serializable form of an error.
// The cause chain is left out; only code, message, classification and
// context are exposed.
type ErrorResponse struct {
	Code           string                 `json:"code" yaml:"code"`
	Message        string                 `json:"message" yaml:"message"`
	Classification string                 `json:"classification" yaml:"classification"`
	Context        map[string]interface{} `json:"context,omitempty" yaml:"context,omitempty"`
}

// ToJSON converts any error to an ErrorResponse.
// Returns nil if err is nil.
//
// Plain errors become CodeUnknown with their Error() text as message.
func ToJSON(err error) *ErrorResponse {
	if err == nil {
		return nil
	}

	message := err.Error()
	var context map[string]interface{}

	var storageErr StorageError
	if As(err, &storageErr) {
		message = storageErr.Message()
		context = storageErr.Context()
	}

	return &ErrorResponse{
		Code:           string(GetCode(err)),
		Message:        message,
		Classification: string(GetClassification(err)),
		Context:        context,
	}
}

// MarshalJSON implements json.Marshaler so a StorageError can be embedded
// directly in a response struct.
func (e *storageError) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(&ErrorResponse{
		Code:           string(e.code),
		Message:        e.message,
		Classification: string(e.classification),
		Context:        e.context,
	})
	if err != nil {
		return nil, Wrap(err, CodeInternal, "failed to marshal error response")
	}
	return data, nil
}
