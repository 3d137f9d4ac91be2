package api

import (
	"encoding/json"
	"net/http/httptest"
)

// unmarshalBody decodes a recorded JSON response body into v.
func unmarshalBody(rec *httptest.ResponseRecorder, v any) error {
	return json.Unmarshal(rec.Body.Bytes(), v)
}
