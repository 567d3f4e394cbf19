package objectstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdFromKeyStripsPrefixAndExtension(t *testing.T) {
	id := idFromKey("saves", "saves/abc-123.bin")

	assert.Equal(t, "abc-123", string(id))
}

func TestIdFromKeyHandlesBareKey(t *testing.T) {
	id := idFromKey("saves", "abc-123.bin")

	assert.Equal(t, "abc-123", string(id))
}
