package server

import (
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-vessel-trail/internal/core/model"
	"github.com/penwyp/go-vessel-trail/internal/presentation/formatter"
	"github.com/penwyp/go-vessel-trail/internal/util"
)

// Content types written by the API.
const (
	ContentTypeJSON    = "application/json"
	ContentTypeMsgPack = "application/x-msgpack"
	ContentTypeGeoJSON = "application/geo+json"
)

type errorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

// writeResponse encodes data as JSON, or as MessagePack when format=msgpack.
func writeResponse(w http.ResponseWriter, req *http.Request, status int, data any) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if req.URL.Query().Get("format") == model.FormatMsgPack {
		w.Header().Set("Content-Type", ContentTypeMsgPack)
		w.WriteHeader(status)
		if err := formatter.EncodeMsgPack(w, data); err != nil {
			util.LogCtx(req.Context()).Error("Failed to write msgpack response", util.F("error", err.Error()))
		}
		return
	}
	writeJSON(w, req, status, ContentTypeJSON, data)
}

func writeJSON(w http.ResponseWriter, req *http.Request, status int, contentType string, data any) {
	body, err := sonic.Marshal(data)
	if err != nil {
		util.LogCtx(req.Context()).Error("Failed to encode response", util.F("error", err.Error()))
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		util.LogCtx(req.Context()).Debug("Failed to write response", util.F("error", err.Error()))
	}
}

func writeError(w http.ResponseWriter, req *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		util.LogCtx(req.Context()).Error("Request failed", util.F("path", req.URL.Path), util.F("error", err.Error()))
	}
	writeResponse(w, req, status, errorBody{Error: err.Error(), RequestID: util.RequestIDFrom(req.Context())})
}
