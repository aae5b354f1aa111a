package middleware

import (
	"errors"
	"strconv"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/capitalize-ai/rent-assistant/internal/model"
)

// MaxContentLength bounds message bodies.
const MaxContentLength = 100000

// ValidateMessageContent validates message content.
func ValidateMessageContent(content string) error {
	if len(content) == 0 {
		return errors.New("content cannot be empty")
	}
	if len(content) > MaxContentLength {
		return errors.New("content exceeds maximum length")
	}
	if !utf8.ValidString(content) {
		return errors.New("content must be valid UTF-8")
	}
	return nil
}

// ValidateRole accepts an empty role, meaning user, or a known role.
func ValidateRole(role model.Role) error {
	if role == "" || role.Valid() {
		return nil
	}
	return errors.New("invalid role")
}

// ValidateThreadID validates a thread ID.
func ValidateThreadID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New("invalid thread ID format")
	}
	return nil
}

// ParseTenantID parses a positive numeric tenant ID.
func ParseTenantID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid tenant ID")
	}
	return id, nil
}

// ValidateTitle validates a thread title.
func ValidateTitle(title string) error {
	if len(title) > 256 {
		return errors.New("title exceeds maximum length")
	}
	if !utf8.ValidString(title) {
		return errors.New("title must be valid UTF-8")
	}
	return nil
}

// ValidateMetadata rejects oversized metadata. A parent_id entry must be a
// thread ID.
func ValidateMetadata(md map[string]string) error {
	if len(md) > 32 {
		return errors.New("too many metadata entries")
	}
	if parent, ok := md[model.MetadataParentID]; ok {
		if err := ValidateThreadID(parent); err != nil {
			return errors.New("invalid parent thread ID format")
		}
	}
	for k, v := range md {
		if len(k) > 64 || len(v) > 1024 {
			return errors.New("metadata entry exceeds maximum length")
		}
	}
	return nil
}
