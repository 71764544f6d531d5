package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenPassword(t *testing.T) {
	p1 := GenPassword(12)
	p2 := GenPassword(12)

	assert.Len(t, p1, 12)
	assert.Len(t, p2, 12)
	assert.NotEqual(t, p1, p2)
}
