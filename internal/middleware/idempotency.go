package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"quickcart/internal/cache"
	"quickcart/internal/model"

	"github.com/rs/zerolog"
)

// IdempotencyHeader carries the client-chosen key for a replayable request.
const IdempotencyHeader = "Idempotency-Key"

type idempotencyRecord struct {
	Status      int    `json:"status"`
	Body        string `json:"body"`
	ContentType string `json:"content_type,omitempty"`
	RequestHash string `json:"request_hash"`
}

// Idempotency replays the stored response when a request repeats an
// Idempotency-Key already seen for the same user and route. Requests without
// the header pass straight through. Server errors are not stored, so a
// retry after a 5xx runs the handler again. A nil store disables the middleware.
func Idempotency(store cache.IdempotencyStore, ttl time.Duration, logger zerolog.Logger) func(http.Handler) http.Handler {
	logger = logger.With().Str("component", "idempotency").Logger()

	return func(next http.Handler) http.Handler {
		if store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientKey := strings.TrimSpace(r.Header.Get(IdempotencyHeader))
			if clientKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "failed to read request body")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			requestHash := hashBody(body)
			key := store.IdempotencyKey(buildScope(r), clientKey)

			stored, err := store.Get(r.Context(), key)
			if err != nil {
				logger.Error().Err(err).Str("key", key).Msg("failed to read idempotency record")
				writeError(w, http.StatusServiceUnavailable, model.ErrCodeInternalError, "idempotency store unavailable")
				return
			}

			if stored != "" {
				var record idempotencyRecord
				if err := json.Unmarshal([]byte(stored), &record); err != nil {
					logger.Error().Err(err).Str("key", key).Msg("failed to decode idempotency record")
					writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error")
					return
				}
				if record.RequestHash != requestHash {
					writeError(w, http.StatusUnprocessableEntity, model.ErrCodeIdempotencyReused,
						"Idempotency-Key was already used with a different request body")
					return
				}
				logger.Debug().Str("key", key).Int("status", record.Status).Msg("replaying stored response")
				writeStoredResponse(w, &record)
				return
			}

			rec := &responseCapture{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			status := rec.statusCode()
			if status >= http.StatusInternalServerError {
				return
			}

			payload, err := json.Marshal(idempotencyRecord{
				Status:      status,
				Body:        base64.StdEncoding.EncodeToString(rec.body.Bytes()),
				ContentType: rec.Header().Get("Content-Type"),
				RequestHash: requestHash,
			})
			if err != nil {
				logger.Error().Err(err).Msg("failed to encode idempotency record")
				return
			}

			if _, err := store.SetNX(r.Context(), key, string(payload), ttl); err != nil {
				logger.Error().Err(err).Str("key", key).Msg("failed to store idempotency record")
			}
		})
	}
}

func buildScope(r *http.Request) string {
	return strings.Join([]string{UserIDFromContext(r.Context()).String(), r.Method, r.URL.Path}, "|")
}

func writeStoredResponse(w http.ResponseWriter, record *idempotencyRecord) {
	if record.ContentType != "" {
		w.Header().Set("Content-Type", record.ContentType)
	}
	w.Header().Set("Idempotent-Replayed", "true")
	w.WriteHeader(record.Status)
	if decoded, err := base64.StdEncoding.DecodeString(record.Body); err == nil {
		_, _ = w.Write(decoded)
	}
}

func hashBody(payload []byte) string {
	sum := sha256.Sum256(payload)
	return base64.StdEncoding.EncodeToString(sum[:])
}

// responseCapture tees the response body so it can be stored.
type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (r *responseCapture) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseCapture) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseCapture) statusCode() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}
