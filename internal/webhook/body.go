package webhook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime"
	"net/url"
	"strings"
)

// formPayloadKey is the field GitHub uses for application/x-www-form-urlencoded deliveries.
const formPayloadKey = "payload"

// parseBody decodes raw according to contentType. It always returns a usable
// (possibly empty) map; the error only reports why the body was degraded.
func parseBody(contentType string, raw []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}
	if isJSON(contentType) {
		return decodeObject(raw)
	}
	return decodeForm(raw)
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(contentType)
	}
	return strings.Contains(mediaType, "json")
}

func decodeObject(raw []byte) (map[string]any, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return map[string]any{}, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return map[string]any{}, fmt.Errorf("%w: top-level JSON is %T, want object", ErrMalformedBody, v)
	}
	return obj, nil
}

func decodeForm(raw []byte) (map[string]any, error) {
	values, err := url.ParseQuery(string(raw))
	if err != nil {
		return map[string]any{}, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if payload := values.Get(formPayloadKey); payload != "" {
		return decodeObject([]byte(payload))
	}

	out := make(map[string]any, len(values))
	for k, vs := range values {
		if len(vs) > 0 {
			out[k] = vs[0]
		}
	}
	return out, nil
}
