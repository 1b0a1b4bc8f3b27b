package restserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/chrissnell/paleoprofile/internal/log"
	"github.com/chrissnell/paleoprofile/internal/telemetry"
	"github.com/chrissnell/paleoprofile/pkg/catalog"
	"github.com/chrissnell/paleoprofile/pkg/config"
	"github.com/chrissnell/paleoprofile/pkg/profile"
	"github.com/chrissnell/paleoprofile/pkg/responseformat"
	"github.com/chrissnell/paleoprofile/pkg/trend"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
	}
}

// sendJSON sends a JSON response
func (h *Handlers) sendJSON(w http.ResponseWriter, data interface{}) {
	h.sendJSONWithStatus(w, http.StatusOK, data)
}

// sendJSONWithStatus sends a JSON response with a specific status code
func (h *Handlers) sendJSONWithStatus(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.controller.logger.Errorw("failed to encode response", "error", err)
	}
}

// sendError sends a standardized error response
func (h *Handlers) sendError(w http.ResponseWriter, statusCode int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := map[string]interface{}{
		"error":     message,
		"status":    statusCode,
		"timestamp": time.Now().Unix(),
	}

	if err != nil {
		errorResponse["details"] = err.Error()
	}

	json.NewEncoder(w).Encode(errorResponse)
}

// sendGenerationError maps a failed generation onto a status code.
func (h *Handlers) sendGenerationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, profile.ErrInvalidRequest):
		h.sendError(w, http.StatusBadRequest, "invalid profile request", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.sendError(w, http.StatusServiceUnavailable, "generation cancelled", err)
	default:
		h.controller.logger.Errorw("profile generation failed", "error", err)
		h.sendError(w, http.StatusInternalServerError, "profile generation failed", err)
	}
}

// decode reads a size-limited JSON body into v, rejecting unknown fields.
func (h *Handlers) decode(w http.ResponseWriter, req *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// Health reports liveness and the current catalog version.
func (h *Handlers) Health(w http.ResponseWriter, req *http.Request) {
	h.sendJSON(w, map[string]interface{}{
		"status":          "ok",
		"catalog_version": h.controller.catalog.Overrides().Version(),
	})
}

// GetParameters lists parameters, trends and geology names.
func (h *Handlers) GetParameters(w http.ResponseWriter, req *http.Request) {
	resp := ParametersResponse{
		Parameters: make([]catalog.Info, 0, len(catalog.Parameters)),
		Triples:    catalog.Triples,
		Trends:     make([]TrendInfo, 0, len(trend.Kinds)),
		BaseTypes:  catalog.BaseTypes,
		EnvTypes:   catalog.EnvTypes,
	}
	for _, p := range catalog.Parameters {
		resp.Parameters = append(resp.Parameters, p.Info())
	}
	for _, k := range trend.Kinds {
		resp.Trends = append(resp.Trends, TrendInfo{Code: k, Description: k.Description()})
	}

	if err := h.formatter.WriteResponse(w, req, resp, nil); err != nil {
		h.sendError(w, http.StatusNotAcceptable, "unsupported format", err)
	}
}

// GetRanges returns the effective ranges for ?zone=&zones=&base=&env=.
// zone defaults to 1 and zones to the configured zone count.
func (h *Handlers) GetRanges(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()

	zone, err := intParam(q.Get("zone"), 1)
	if err != nil || zone < 1 {
		h.sendError(w, http.StatusBadRequest, "zone must be a positive integer", err)
		return
	}
	zoneCount, err := intParam(q.Get("zones"), max(zone, h.controller.generation.DefaultZones))
	if err != nil || zoneCount < zone {
		h.sendError(w, http.StatusBadRequest, "zones must be an integer no smaller than zone", err)
		return
	}
	geo, err := catalog.ParseGeology(q.Get("base"), q.Get("env"))
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid geology", err)
		return
	}

	view := h.controller.catalog.View()
	resp := RangesResponse{
		Zone:           zone,
		ZoneCount:      zoneCount,
		Geology:        geo,
		CatalogVersion: view.Version(),
		Ranges:         view.RangesFor(catalog.Query{Zone: zone, ZoneCount: zoneCount, Geology: geo}),
	}
	if err := h.formatter.WriteResponse(w, req, resp, nil); err != nil {
		h.sendError(w, http.StatusNotAcceptable, "unsupported format", err)
	}
}

// ListOverrides returns every stored override.
func (h *Handlers) ListOverrides(w http.ResponseWriter, req *http.Request) {
	store := h.controller.catalog.Overrides()
	h.sendJSON(w, OverridesResponse{
		CatalogVersion: store.Version(),
		Overrides:      store.List(),
	})
}

// PutOverride stores custom ranges for one zone and geology.
func (h *Handlers) PutOverride(w http.ResponseWriter, req *http.Request) {
	var body config.RangeOverrideData
	if err := h.decode(w, req, &body); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	override, err := body.Override()
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid override", err)
		return
	}

	version, err := h.controller.catalog.Overrides().Set(override.Key, override.Ranges)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid override", err)
		return
	}

	h.controller.logger.Infow("range override stored", "key", override.Key.String(), "catalog_version", version)
	h.sendJSON(w, OverrideResult{Key: override.Key, CatalogVersion: version})
}

// DeleteOverride removes the override named by ?zone=&base=&env=.
func (h *Handlers) DeleteOverride(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()

	zone, err := strconv.Atoi(q.Get("zone"))
	if err != nil || zone < 1 {
		h.sendError(w, http.StatusBadRequest, "zone must be a positive integer", err)
		return
	}
	geo, err := catalog.ParseGeology(q.Get("base"), q.Get("env"))
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid geology", err)
		return
	}

	key := catalog.Key{Zone: zone, Base: geo.Base, Env: geo.Env}
	store := h.controller.catalog.Overrides()
	if !store.Delete(key) {
		h.sendError(w, http.StatusNotFound, "override not found", nil)
		return
	}

	version := store.Version()
	h.controller.logger.Infow("range override deleted", "key", key.String(), "catalog_version", version)
	h.sendJSON(w, OverrideResult{Key: key, CatalogVersion: version})
}

// GenerateProfile generates one profile and writes it as JSON, MessagePack
// or CSV.
func (h *Handlers) GenerateProfile(w http.ResponseWriter, req *http.Request) {
	var body ProfileRequest
	if err := h.decode(w, req, &body); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	prof, err := h.generate(req.Context(), body)
	if err != nil {
		h.sendGenerationError(w, err)
		return
	}

	headers := map[string]string{
		runIDHeader: prof.RunID.String(),
		seedHeader:  strconv.FormatUint(prof.Seed, 10),
	}
	if err := h.formatter.WriteResponse(w, req, newProfileResponse(prof, body.Summary), headers); err != nil {
		h.controller.logger.Errorw("failed to write profile", "run_id", prof.RunID, "error", err)
	}
}

func (h *Handlers) generate(ctx context.Context, body ProfileRequest) (*profile.Profile, error) {
	_, span := telemetry.Tracer().Start(ctx, "profile.generate")
	defer span.End()

	plan, err := body.plan(h.controller.generation)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	r, err := plan.Request()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	prof, err := h.controller.assembler.Generate(r)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("profile.run_id", prof.RunID.String()),
		attribute.Int64("profile.seed", int64(prof.Seed)),
		attribute.Int("profile.depths", len(prof.Rows)),
		attribute.Int("profile.zones", len(prof.Zones)),
		attribute.Int("profile.fallbacks", prof.Diagnostics.Fallbacks),
		attribute.Int("profile.unassigned", prof.Diagnostics.Unassigned),
	)
	return prof, nil
}

// GenerateBatch generates up to the configured number of profiles
// concurrently. CSV is not offered for batches.
func (h *Handlers) GenerateBatch(w http.ResponseWriter, req *http.Request) {
	if responseformat.Negotiate(req) == responseformat.CSV {
		h.sendError(w, http.StatusNotAcceptable, "csv is not available for batches", responseformat.ErrUnsupportedFormat)
		return
	}

	var body BatchRequest
	if err := h.decode(w, req, &body); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if len(body.Requests) == 0 {
		h.sendError(w, http.StatusBadRequest, "batch contains no requests", nil)
		return
	}
	if limit := h.controller.generation.MaxBatchSize; len(body.Requests) > limit {
		h.sendError(w, http.StatusBadRequest, "batch too large", fmt.Errorf("%d requests exceed the limit of %d", len(body.Requests), limit))
		return
	}

	ctx, span := telemetry.Tracer().Start(req.Context(), "profile.generate_batch")
	defer span.End()
	span.SetAttributes(attribute.Int("batch.size", len(body.Requests)))

	reqs := make([]profile.Request, len(body.Requests))
	for i, b := range body.Requests {
		plan, err := b.plan(h.controller.generation)
		if err == nil {
			reqs[i], err = plan.Request()
		}
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			h.sendGenerationError(w, fmt.Errorf("request %d: %w", i, err))
			return
		}
	}

	profiles, err := h.controller.assembler.GenerateBatch(ctx, reqs)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		h.sendGenerationError(w, err)
		return
	}

	resp := BatchResponse{Profiles: make([]ProfileResponse, len(profiles))}
	for i, p := range profiles {
		resp.Profiles[i] = newProfileResponse(p, body.Requests[i].Summary)
	}
	if err := h.formatter.WriteResponse(w, req, resp, nil); err != nil {
		h.controller.logger.Errorw("failed to write batch", "error", err)
	}
}

// GetHTTPLogs returns the most recent served requests. ?limit= keeps only
// the newest entries.
func (h *Handlers) GetHTTPLogs(w http.ResponseWriter, req *http.Request) {
	entries := log.GetHTTPLogBuffer().GetEntries()

	if raw := req.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			h.sendError(w, http.StatusBadRequest, "limit must be a non-negative integer", err)
			return
		}
		if limit < len(entries) {
			entries = entries[len(entries)-limit:]
		}
	}

	h.sendJSON(w, HTTPLogsResponse{Entries: entries})
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
