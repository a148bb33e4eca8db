package errors

import (
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToJSON(t *testing.T) {
	err := New(CodeNotFound, "asset not found")
	resp := ToJSON(err)

	require.NotNil(t, resp)
	require.Equal(t, "NOT_FOUND", resp.Code)
	require.Equal(t, "asset not found", resp.Message)
	require.Equal(t, "PERMANENT", resp.Classification)
	require.Nil(t, resp.Context)
}

func TestToJSON_WithContext(t *testing.T) {
	err := WithContext(New(CodeUnableToMoveFile, "unable to move file"), "path", "a.txt")
	err = WithContext(err, "destination", "b.txt")

	resp := ToJSON(err)

	require.Equal(t, "UNABLE_TO_MOVE_FILE", resp.Code)
	require.Equal(t, "unable to move file", resp.Message)
	require.Equal(t, "a.txt", resp.Context["path"])
	require.Equal(t, "b.txt", resp.Context["destination"])
}

func TestToJSON_StandardError(t *testing.T) {
	resp := ToJSON(stderrors.New("something went wrong"))

	require.Equal(t, "UNKNOWN", resp.Code)
	require.Equal(t, "something went wrong", resp.Message)
	require.Equal(t, "PERMANENT", resp.Classification)
}

func TestToJSON_Nil(t *testing.T) {
	require.Nil(t, ToJSON(nil))
}

func TestMarshalJSON(t *testing.T) {
	err := WithContext(New(CodeRateLimit, "slow down"), "retry_after", 30)

	data, marshalErr := json.Marshal(err)
	require.NoError(t, marshalErr)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, "RATE_LIMIT_EXCEEDED", got["code"])
	require.Equal(t, "slow down", got["message"])
	require.Equal(t, "RETRYABLE", got["classification"])
	require.Equal(t, float64(30), got["context"].(map[string]interface{})["retry_after"])
}

func TestMarshalJSON_OmitsEmptyContext(t *testing.T) {
	data, err := json.Marshal(New(CodeInternal, "x"))
	require.NoError(t, err)
	require.NotContains(t, string(data), "context")
}
