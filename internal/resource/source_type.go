package resource

import (
	"errors"
	"fmt"
	"strings"
)

// SourceType tags which content collection a record came from.
type SourceType string

const (
	SourceMeditation SourceType = "meditation"
	SourceSacredText SourceType = "sacred_text"
	SourceStudy      SourceType = "study"
	SourceContent    SourceType = "content"
)

// ErrUnknownSourceType is returned when a value falls outside the closed set.
var ErrUnknownSourceType = errors.New("unknown source type")

// SourceTypes lists every known source type in catalog order.
func SourceTypes() []SourceType {
	return []SourceType{SourceMeditation, SourceSacredText, SourceStudy, SourceContent}
}

func (s SourceType) Valid() bool {
	switch s {
	case SourceMeditation, SourceSacredText, SourceStudy, SourceContent:
		return true
	default:
		return false
	}
}

func (s SourceType) String() string { return string(s) }

// ParseSourceType accepts the canonical names plus a few loose spellings
// ("sacred-text", "sacredtext", "meditations").
func ParseSourceType(s string) (SourceType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "meditation", "meditations":
		return SourceMeditation, nil
	case "sacred_text", "sacred-text", "sacredtext", "sacred_texts":
		return SourceSacredText, nil
	case "study", "studies":
		return SourceStudy, nil
	case "content", "contents":
		return SourceContent, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSourceType, s)
	}
}

// Key namespaces an id by its source type so ids from different
// collections never collide.
func Key(st SourceType, id string) string {
	return string(st) + ":" + id
}

// SplitKey reverses Key. A key without a known prefix is an error.
func SplitKey(key string) (SourceType, string, error) {
	prefix, id, ok := strings.Cut(key, ":")
	if !ok || id == "" {
		return "", "", fmt.Errorf("malformed resource key %q", key)
	}
	st := SourceType(prefix)
	if !st.Valid() {
		return "", "", fmt.Errorf("%w: %q", ErrUnknownSourceType, prefix)
	}
	return st, id, nil
}
