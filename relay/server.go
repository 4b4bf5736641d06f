package relay

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	log "github.com/harlequix/hamrelay/log"
)

// Server exposes one POST route per traffic class. Request bodies are JSON
// documents; what the relay carries on the simulated channel is the
// document serialized with the configured payload format.
type Server struct {
	relay   *Relay
	routes  map[string]string
	maxBody int64
	logger  *log.Logger
}

func NewServer(relay *Relay) *Server {
	routes := make(map[string]string)
	for _, name := range relay.ClassNames() {
		c, _ := relay.Class(name)
		if c.Route != "" {
			routes[c.Route] = name
		}
	}
	return &Server{
		relay:   relay,
		routes:  routes,
		maxBody: int64(relay.config.MaxPayload),
		logger:  log.NewLogger("Server"),
	}
}

type response struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

func (self *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	class, ok := self.routes[r.URL.Path]
	if !ok {
		writeJSON(w, http.StatusNotFound, &response{Status: "error", Error: "unknown route"})
		return
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, &response{Status: "error", Error: "method not allowed"})
		return
	}
	logger := self.logger.WithField("class", class)

	body := r.Body
	if self.maxBody > 0 {
		body = http.MaxBytesReader(w, r.Body, self.maxBody)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		logger.WithError(err).Debug("Reading request body failed")
		writeJSON(w, status, &response{Status: "error", Error: err.Error()})
		return
	}
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		logger.WithError(err).Debug("Rejected request body")
		writeJSON(w, http.StatusBadRequest, &response{Status: "error", Error: "invalid json: " + err.Error()})
		return
	}
	logger.WithField("document", doc).Trace("Received JSON")

	result, err := self.relay.TransmitDocument(r.Context(), class, doc)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrUnknownClass) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, &response{Status: "error", Error: err.Error()})
		return
	}

	switch result.Outcome {
	case Delivered:
		writeJSON(w, http.StatusOK, &response{Status: "success", Data: result.Document})
	case DeliveryFailed:
		logger.WithError(result.Err).Warn("Forwarding failed")
		writeJSON(w, http.StatusOK, &response{Status: "delivery_failed", Data: result.Document})
	default:
		// a lost or unreadable message gets no answer
		writeJSON(w, http.StatusOK, nil)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
