package storage

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	before := time.Now().UnixMilli()
	key := ObjectKey("user123", "case456", "contract.pdf")

	assert.True(t, strings.HasPrefix(key, "files/user123/case456/"))
	assert.True(t, strings.HasSuffix(key, "-contract.pdf"))

	var ts int64
	var name string
	rest := strings.TrimPrefix(key, "files/user123/case456/")
	_, err := fmt.Sscanf(rest, "%d-%s", &ts, &name)
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, ts, before)
}

func TestObjectKey_SanitizesFilename(t *testing.T) {
	key := ObjectKey("u", "c", "my contract (final).pdf")
	assert.NotContains(t, key, " ")
	assert.NotContains(t, key, "(")
	assert.True(t, strings.HasSuffix(key, ".pdf"))
}

func TestObjectKey_StripsPathComponents(t *testing.T) {
	key := ObjectKey("u", "c", "../../etc/passwd")
	assert.NotContains(t, key, "..")
	assert.True(t, strings.HasSuffix(key, "-passwd"))
}

func TestSanitizeFilename_Empty(t *testing.T) {
	assert.Equal(t, "file", sanitizeFilename("!!!"))
}
