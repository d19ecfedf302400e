package model

import (
	"fmt"
	"strings"
)

// FeatureMode switches whether the syncer may request new blocks from the adapter.
type FeatureMode string

var (
	// FeatureEnabled lets the syncer issue GetSuccessors requests.
	FeatureEnabled FeatureMode = "enabled"
	// FeaturePaused keeps processing responses but never issues new requests.
	FeaturePaused FeatureMode = "paused"
	// FeatureDisabled behaves like FeaturePaused for the syncer.
	FeatureDisabled FeatureMode = "disabled"
)

// ParseFeatureMode converts a case-insensitive name into a FeatureMode.
func ParseFeatureMode(value string) (FeatureMode, error) {
	switch FeatureMode(strings.ToLower(strings.TrimSpace(value))) {
	case FeatureEnabled:
		return FeatureEnabled, nil
	case FeaturePaused:
		return FeaturePaused, nil
	case FeatureDisabled:
		return FeatureDisabled, nil
	default:
		return "", fmt.Errorf("unknown feature mode %q", value)
	}
}
