/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mock_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/suparena/virtualstore/datastore/memory"
	"github.com/suparena/virtualstore/datastore/mock"
	"github.com/suparena/virtualstore/errors"
	"github.com/suparena/virtualstore/storagemodels"
)

func TestMockDataStore(t *testing.T) {
	t.Run("PassThrough", func(t *testing.T) {
		inner := memory.New("inner")
		mockStore := mock.New(inner)

		if mockStore.Name() != "inner" {
			t.Fatalf("Expected wrapped name, got %q", mockStore.Name())
		}

		saved, err := mockStore.Save("Product", storagemodels.Record{"name": storagemodels.String("Test")})
		if err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		id, _ := saved.ID()

		retrieved, err := inner.Load("Product", id)
		if err != nil || retrieved == nil {
			t.Fatalf("Record not stored in wrapped store: %v, %v", retrieved, err)
		}

		if err := mockStore.Delete("Product", id); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if mockStore.Counts()["Product"] != 0 {
			t.Fatalf("Expected empty partition after delete")
		}
	})

	t.Run("ErrorSimulation", func(t *testing.T) {
		mockStore := mock.New(nil)

		saveErr := errors.NewValidationError("name", "required")
		mockStore.WithSaveError(saveErr)
		if _, err := mockStore.Save("Product", storagemodels.Record{}); err != saveErr {
			t.Fatalf("Expected save error, got: %v", err)
		}

		loadErr := errors.NewStoreNotFoundError("gone")
		mockStore.WithLoadError(loadErr)
		if _, err := mockStore.LoadAll("Product"); err != loadErr {
			t.Fatalf("Expected load error, got: %v", err)
		}
		if _, err := mockStore.Load("Product", uuid.New()); err != loadErr {
			t.Fatalf("Expected load error, got: %v", err)
		}

		deleteErr := errors.NewValidationError("id", "locked")
		mockStore.WithDeleteError(deleteErr)
		if err := mockStore.Delete("Product", uuid.New()); err != deleteErr {
			t.Fatalf("Expected delete error, got: %v", err)
		}

		updateErr := errors.NewValidationError("id", "stale")
		mockStore.WithUpdateError(updateErr)
		_, err := mockStore.Update("Product", uuid.New(), func(r storagemodels.Record) storagemodels.Record { return r })
		if err != updateErr {
			t.Fatalf("Expected update error, got: %v", err)
		}

		mockStore.Reset()
		if _, err := mockStore.Save("Product", storagemodels.Record{}); err != nil {
			t.Fatalf("Expected save to succeed after reset, got: %v", err)
		}
	})

	t.Run("SaveErrorAfter", func(t *testing.T) {
		boom := errors.NewValidationError("row", "rejected")
		mockStore := mock.New(nil).WithSaveErrorAfter(2, boom)

		for i := 0; i < 4; i++ {
			_, err := mockStore.Save("Product", storagemodels.Record{})
			if i < 2 && err != nil {
				t.Fatalf("Save %d should succeed, got: %v", i, err)
			}
			if i >= 2 && err != boom {
				t.Fatalf("Save %d should fail, got: %v", i, err)
			}
		}

		if mockStore.Saves() != 4 {
			t.Fatalf("Expected 4 save calls, got %d", mockStore.Saves())
		}
		if mockStore.Counts()["Product"] != 2 {
			t.Fatalf("Expected 2 committed records, got %d", mockStore.Counts()["Product"])
		}
	})
}
