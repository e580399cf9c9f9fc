/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/suparena/virtualstore"
	"github.com/suparena/virtualstore/errors"
	"github.com/suparena/virtualstore/storagemodels"
)

type createStoreRequest struct {
	Name string `json:"name"`
}

type definitionRequest struct {
	EntityName           string                     `json:"entityName"`
	Properties           map[string]json.RawMessage `json:"properties"`
	PrimaryKeyProperties []string                   `json:"primaryKeyProperties"`
}

type propertyRequest struct {
	Type     storagemodels.FieldType `json:"type"`
	Nullable *bool                   `json:"nullable"`
}

type importURLRequest struct {
	URL string `json:"url"`
}

type importTableRequest struct {
	Table    string `json:"table"`
	PageSize int32  `json:"pageSize"`
	MaxItems int    `json:"maxItems"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Stores  int    `json:"stores"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "UP",
		Version: virtualstore.Version,
		Stores:  len(s.svc.Manager().StoreNames()),
	})
}

func (s *Server) handleRegistryStatistics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.RegistryStatistics(r.Context()))
}

func (s *Server) handleCreateStore(w http.ResponseWriter, r *http.Request) {
	var req createStoreRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	summary, err := s.svc.CreateStore(r.Context(), req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, summary)
}

func (s *Server) handleListStores(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.ListStores(r.Context()))
}

func (s *Server) handleDeleteStore(w http.ResponseWriter, r *http.Request) {
	store := mux.Vars(r)["store"]
	if err := s.svc.DeleteStore(r.Context(), store); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: fmt.Sprintf("store %s deleted", store)})
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Statistics(r.Context(), mux.Vars(r)["store"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleAggregate(w http.ResponseWriter, r *http.Request) {
	var params storagemodels.AggregateParams
	if err := s.decodeBody(w, r, &params); err != nil {
		s.writeError(w, r, err)
		return
	}
	rows, err := s.svc.Aggregate(r.Context(), mux.Vars(r)["store"], params)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if s.metrics != nil {
		s.metrics.RecordAggregation(len(rows))
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleRegisterDefinition(w http.ResponseWriter, r *http.Request) {
	var req definitionRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	store := mux.Vars(r)["store"]
	def, err := buildDefinition(store, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	stored, err := s.svc.RegisterDefinition(r.Context(), store, def)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

// buildDefinition accepts each property either as a bare type name or as an
// object with type and nullable. Properties default to nullable.
func buildDefinition(store string, req definitionRequest) (*storagemodels.Definition, error) {
	def := storagemodels.NewDefinition(store, req.EntityName)
	for name, raw := range req.Properties {
		var typ storagemodels.FieldType
		nullable := true

		trimmed := bytes.TrimSpace(raw)
		switch {
		case len(trimmed) > 0 && trimmed[0] == '"':
			if err := json.Unmarshal(trimmed, &typ); err != nil {
				return nil, errors.NewValidationError("properties."+name, err.Error())
			}
		case len(trimmed) > 0 && trimmed[0] == '{':
			var p propertyRequest
			if err := json.Unmarshal(trimmed, &p); err != nil {
				return nil, errors.NewValidationError("properties."+name, err.Error())
			}
			typ = p.Type
			if p.Nullable != nil {
				nullable = *p.Nullable
			}
		default:
			return nil, errors.NewValidationError("properties."+name, "expected a type name or an object")
		}

		if !validFieldType(typ) {
			return nil, errors.NewValidationError("properties."+name, fmt.Sprintf("unknown type %q", typ))
		}
		def.AddProperty(name, typ, nullable)
	}
	for _, pk := range req.PrimaryKeyProperties {
		def.AddPrimaryKeyProperty(pk)
	}
	return def, nil
}

func validFieldType(t storagemodels.FieldType) bool {
	switch t {
	case storagemodels.FieldTypeString, storagemodels.FieldTypeInteger, storagemodels.FieldTypeDecimal,
		storagemodels.FieldTypeBoolean, storagemodels.FieldTypeTimestamp, storagemodels.FieldTypeJSON:
		return true
	}
	return false
}

func (s *Server) handleListDefinitions(w http.ResponseWriter, r *http.Request) {
	defs, err := s.svc.ListDefinitions(r.Context(), mux.Vars(r)["store"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, defs)
}

func (s *Server) handleGetDefinition(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	def, err := s.svc.GetDefinition(r.Context(), vars["store"], vars["entity"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, def)
}

func (s *Server) handleDeleteDefinition(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := s.svc.DeleteDefinition(r.Context(), vars["store"], vars["entity"]); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: fmt.Sprintf("definition %s deleted", vars["entity"])})
}

// handleCreateData stores one object, or every object of an array.
func (s *Server) handleCreateData(w http.ResponseWriter, r *http.Request) {
	body, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	vars := mux.Vars(r)

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var rows []storagemodels.Record
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			s.writeError(w, r, errors.NewValidationError("body", fmt.Sprintf("invalid JSON: %v", err)))
			return
		}
		n, err := s.svc.BulkCreate(r.Context(), vars["store"], vars["entity"], rows)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, storagemodels.ImportResult{
			Message:    "Imported successfully",
			StoreName:  vars["store"],
			EntityName: vars["entity"],
			Imported:   n,
		})
		return
	}

	var data storagemodels.Record
	if err := json.Unmarshal(trimmed, &data); err != nil || data == nil {
		s.writeError(w, r, errors.NewValidationError("body", "expected a JSON object"))
		return
	}
	saved, err := s.svc.CreateEntity(r.Context(), vars["store"], vars["entity"], data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleListData(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	rows, err := s.svc.LoadAll(r.Context(), vars["store"], vars["entity"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleGetData(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	rec, err := s.svc.Load(r.Context(), vars["store"], vars["entity"], vars["id"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleUpdateData(w http.ResponseWriter, r *http.Request) {
	var patch storagemodels.Record
	if err := s.decodeBody(w, r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	vars := mux.Vars(r)
	rec, err := s.svc.Update(r.Context(), vars["store"], vars["entity"], vars["id"], patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteData(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := s.svc.Delete(r.Context(), vars["store"], vars["entity"], vars["id"]); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var filters storagemodels.Record
	body, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &filters); err != nil {
			s.writeError(w, r, errors.NewValidationError("body", fmt.Sprintf("invalid JSON: %v", err)))
			return
		}
	}
	vars := mux.Vars(r)
	rows, err := s.svc.Query(r.Context(), vars["store"], vars["entity"], filters)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleImportJSON(w http.ResponseWriter, r *http.Request) {
	body, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	vars := mux.Vars(r)
	result, err := s.importer.FromJSON(r.Context(), vars["store"], vars["entity"], body)
	s.writeImport(w, r, result, err)
}

func (s *Server) handleImportURL(w http.ResponseWriter, r *http.Request) {
	var req importURLRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	vars := mux.Vars(r)
	result, err := s.importer.FromURL(r.Context(), vars["store"], vars["entity"], req.URL)
	s.writeImport(w, r, result, err)
}

func (s *Server) handleImportDynamoDB(w http.ResponseWriter, r *http.Request) {
	var req importTableRequest
	if err := s.decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	var opts []storagemodels.ImportOption
	if req.PageSize > 0 {
		opts = append(opts, storagemodels.WithPageSize(req.PageSize))
	}
	if req.MaxItems > 0 {
		opts = append(opts, storagemodels.WithMaxItems(req.MaxItems))
	}
	vars := mux.Vars(r)
	result, err := s.importer.FromTable(r.Context(), vars["store"], vars["entity"], req.Table, opts...)
	s.writeImport(w, r, result, err)
}

// writeImport reports a failed import as an error even when some rows were
// committed; the committed count is logged.
func (s *Server) writeImport(w http.ResponseWriter, r *http.Request, result *storagemodels.ImportResult, err error) {
	if err != nil {
		if result != nil && result.Imported > 0 {
			s.logger.WithError(err).WithField("imported", result.Imported).Warn("import stopped after partial commit")
		}
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
