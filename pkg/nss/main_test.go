package nss

import (
	"testing"

	"go.uber.org/goleak"
)

// Lookups build and tear down their own transport; nothing may outlive them.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
