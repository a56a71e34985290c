// File: /models/connection_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalPair(t *testing.T) {
	a, b := CanonicalPair("user-b", "user-a")
	assert.Equal(t, "user-a", a)
	assert.Equal(t, "user-b", b)

	a, b = CanonicalPair("user-a", "user-b")
	assert.Equal(t, "user-a", a)
	assert.Equal(t, "user-b", b)
}

func TestOtherUserID(t *testing.T) {
	conn := Connection{UserAID: "user-a", UserBID: "user-b"}

	assert.Equal(t, "user-b", conn.OtherUserID("user-a"))
	assert.Equal(t, "user-a", conn.OtherUserID("user-b"))
}
