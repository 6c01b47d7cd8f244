package memory

import (
	"testing"

	"github.com/code-payments/transfer-hook/pkg/data/extraaccountmetas/tests"
)

func TestExtraAccountMetasMemoryStore(t *testing.T) {
	testStore := New()
	teardown := func() {
		testStore.(*store).reset()
	}
	tests.RunTests(t, testStore, teardown)
}
