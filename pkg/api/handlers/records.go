package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/marmos91/sysauth/internal/logger"
	"github.com/marmos91/sysauth/internal/telemetry"
	"github.com/marmos91/sysauth/pkg/apiclient"
	"github.com/marmos91/sysauth/pkg/identity"
)

// ResultCodeNotFound is the result code sent when no record matches.
const ResultCodeNotFound int32 = 1

// RecordHandler answers the identity record endpoints of the wire protocol.
//
// A lookup that matches nothing is still a 200 response; the envelope's
// result code carries the "not found". Non-200 statuses are reserved for
// requests the service cannot interpret.
type RecordHandler struct {
	store identity.Store
}

// NewRecordHandler creates a handler serving records from store.
func NewRecordHandler(store identity.Store) *RecordHandler {
	return &RecordHandler{store: store}
}

// ByUID handles POST /identity/record/uid/{hostname}/{uid}.
func (h *RecordHandler) ByUID(w http.ResponseWriter, r *http.Request) {
	hostname, ok := pathParam(w, r, "hostname")
	if !ok {
		return
	}
	raw, ok := pathParam(w, r, "uid")
	if !ok {
		return
	}

	uid, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		BadRequest(w, "Invalid uid")
		return
	}

	var body apiclient.LookupByUIDRequest
	if !decodeOptionalBody(w, r, &body) {
		return
	}

	ctx, span := telemetry.StartLookupSpan(r.Context(), "uid", hostname, raw)
	defer span.End()

	p, err := h.store.GetByUID(hostname, uint32(uid))
	h.respond(w, r.WithContext(ctx), p, err, logger.UID(uint32(uid)))
}

// ByName handles POST /identity/record/name/{hostname}/{name}.
func (h *RecordHandler) ByName(w http.ResponseWriter, r *http.Request) {
	hostname, ok := pathParam(w, r, "hostname")
	if !ok {
		return
	}
	name, ok := pathParam(w, r, "name")
	if !ok {
		return
	}

	var body apiclient.LookupByNameRequest
	if !decodeOptionalBody(w, r, &body) {
		return
	}

	ctx, span := telemetry.StartLookupSpan(r.Context(), "name", hostname, name)
	defer span.End()

	p, err := h.store.GetByName(hostname, name)
	r = r.WithContext(ctx)
	h.respond(w, r, p, err, logger.Username(name))
}

func (h *RecordHandler) respond(w http.ResponseWriter, r *http.Request, p *identity.Passwd, err error, key any) {
	ctx := r.Context()

	switch {
	case err == nil:
		telemetry.SetAttributes(ctx, telemetry.ResultCode(0), telemetry.UID(p.UID), telemetry.Username(p.Name))
		writeJSON(w, http.StatusOK, apiclient.FoundEnvelope(p))
	case errors.Is(err, identity.ErrUserNotFound):
		telemetry.SetAttributes(ctx, telemetry.ResultCode(ResultCodeNotFound))
		logger.Debug("Record not found", key, logger.URL(r.URL.Path))
		writeJSON(w, http.StatusOK, apiclient.NotFoundEnvelope(ResultCodeNotFound, err.Error()))
	default:
		telemetry.RecordError(ctx, err)
		logger.Error("Record lookup failed", key, logger.Err(err))
		InternalServerError(w, "Failed to look up record")
	}
}

// pathParam returns the unescaped URL parameter, writing 400 when it is
// empty or badly escaped. chi matches against the raw path when the request
// carries escaped slashes, so only then is the value still escaped.
func pathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	value := chi.URLParam(r, name)

	var err error
	if r.URL.RawPath != "" {
		value, err = url.PathUnescape(value)
	}
	if err != nil || value == "" {
		BadRequest(w, "Invalid "+name)
		return "", false
	}
	return value, true
}

// decodeOptionalBody decodes a JSON body into v. An empty body is accepted
// since the path carries everything needed. Returns false after writing a
// 400 response when the body is not valid JSON.
func decodeOptionalBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil {
		return true
	}
	err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		BadRequest(w, "Invalid request body")
		return false
	}
	return true
}
