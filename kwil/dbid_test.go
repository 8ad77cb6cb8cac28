package kwil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateDBID(t *testing.T) {
	t.Parallel()

	owner := []byte{0x04, 0x01, 0x02, 0x03}
	id := GenerateDBID("test_subsquid", owner)

	assert.Len(t, id, 1+56)
	assert.Equal(t, byte('x'), id[0])
	assert.Equal(t, id, GenerateDBID("TEST_Subsquid", owner), "name is case insensitive")
	assert.NotEqual(t, id, GenerateDBID("test_subsquid", []byte{0x05}))
	assert.NotEqual(t, id, GenerateDBID("other", owner))
}
