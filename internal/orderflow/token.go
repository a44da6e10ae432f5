package orderflow

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"storefront/internal/model"
)

const (
	trackingTokenLength = 256
	trackingTokenPad    = "_"
)

// TrackingRef is what a tracking token carries.
type TrackingRef struct {
	ID int64 `json:"id"`
}

// EncodeTrackingToken packs ref as base64 JSON right-padded with "_" to 256
// characters. Larger payloads are left unpadded.
func EncodeTrackingToken(ref TrackingRef) (string, error) {
	raw, err := json.Marshal(ref)
	if err != nil {
		return "", fmt.Errorf("failed to encode tracking token: %w", err)
	}

	token := base64.StdEncoding.EncodeToString(raw)
	if pad := trackingTokenLength - len(token); pad > 0 {
		token += strings.Repeat(trackingTokenPad, pad)
	}
	return token, nil
}

// DecodeTrackingToken reverses EncodeTrackingToken.
func DecodeTrackingToken(token string) (TrackingRef, error) {
	var ref TrackingRef

	cleaned := strings.TrimRight(strings.TrimSpace(token), trackingTokenPad)
	if cleaned == "" {
		return ref, model.ErrTrackingToken
	}

	raw, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return ref, fmt.Errorf("%w: %v", model.ErrTrackingToken, err)
	}

	if err := json.Unmarshal(raw, &ref); err != nil {
		return ref, fmt.Errorf("%w: %v", model.ErrTrackingToken, err)
	}

	if ref.ID <= 0 {
		return ref, model.ErrTrackingToken
	}

	return ref, nil
}
