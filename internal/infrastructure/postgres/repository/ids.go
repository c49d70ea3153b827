package repository

import (
	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
)

var nanoID = mustNanoID()

func mustNanoID() func() string {
	generate, err := nanoid.Standard(21)
	if err != nil {
		panic(err)
	}
	return generate
}

func ensureNanoID(id *string) {
	if *id == "" {
		*id = nanoID()
	}
}

func ensureUUID(id *string) {
	if *id == "" {
		*id = uuid.New().String()
	}
}
