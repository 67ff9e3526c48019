package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStudent_FullName(t *testing.T) {
	assert.Equal(t, "Ada Obi", Student{FirstName: "Ada", LastName: "Obi"}.FullName())
	assert.Equal(t, "Ada N. Obi", Student{FirstName: "Ada", MiddleName: " N. ", LastName: "Obi"}.FullName())
}
