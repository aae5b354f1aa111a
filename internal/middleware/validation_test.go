package middleware

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/capitalize-ai/rent-assistant/internal/model"
)

func TestValidateMessageContent(t *testing.T) {
	assert.NoError(t, ValidateMessageContent("rent status 42"))
	assert.Error(t, ValidateMessageContent(""))
	assert.Error(t, ValidateMessageContent(strings.Repeat("a", MaxContentLength+1)))
	assert.Error(t, ValidateMessageContent("bad \xff byte"))
}

func TestValidateRole(t *testing.T) {
	for _, r := range []model.Role{"", model.RoleUser, model.RoleAssistant, model.RoleSystem} {
		assert.NoError(t, ValidateRole(r), r)
	}
	assert.Error(t, ValidateRole("tool"))
}

func TestValidateThreadID(t *testing.T) {
	assert.NoError(t, ValidateThreadID(uuid.NewString()))
	assert.Error(t, ValidateThreadID("42"))
}

func TestParseTenantID(t *testing.T) {
	id, err := ParseTenantID("42")
	assert.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, s := range []string{"", "0", "-3", "abc", "4.2"} {
		_, err := ParseTenantID(s)
		assert.Error(t, err, s)
	}
}

func TestValidateMetadata(t *testing.T) {
	assert.NoError(t, ValidateMetadata(nil))
	assert.NoError(t, ValidateMetadata(map[string]string{model.MetadataParentID: uuid.NewString()}))
	assert.Error(t, ValidateMetadata(map[string]string{model.MetadataParentID: "nope"}))
	assert.Error(t, ValidateMetadata(map[string]string{"k": strings.Repeat("v", 1025)}))
}
