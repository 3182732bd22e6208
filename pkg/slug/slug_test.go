package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	assert.Equal(t, "hello-world-2026", Make("Hello, World! 2026"))
	assert.Equal(t, "my-first-post", Make("  My First   Post  "))
	assert.Equal(t, "a-b-c", Make("a - b - c"))
	assert.Equal(t, "", Make("!!!"))
	assert.Equal(t, "trailing", Make("-trailing-"))
}
