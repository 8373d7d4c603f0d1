package service_test

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/zimstream/stream-ops-service/internal/store"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func storeMemory() *store.Memory {
	return store.NewMemory()
}
