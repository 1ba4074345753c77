package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const requestLogTimeFormat = "2006-01-02 15:04:05,000"

// RequestLog appends one line per request to a file that stays open for the
// process lifetime. Every line is fsynced before the request continues.
// Write failures go to the application logger and never fail the request.
type RequestLog struct {
	file   *os.File
	logger *logrus.Logger
}

// OpenRequestLog opens (or creates) path for appending.
func OpenRequestLog(path string, errLog *slog.Logger) (*RequestLog, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open request log: %w", err)
	}

	if errLog == nil {
		errLog = slog.Default()
	}

	logger := logrus.New()
	logger.SetOutput(&syncWriter{file: f, errLog: errLog.With("component", "request_log", "path", path)})
	logger.SetFormatter(lineFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	return &RequestLog{file: f, logger: logger}, nil
}

// Middleware logs the request URL before handing off to next. A nil
// RequestLog passes requests through untouched.
func (l *RequestLog) Middleware(next http.Handler) http.Handler {
	if l == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chimw.GetReqID(r.Context())
		if id == "" {
			id = uuid.NewString()
		}
		l.logger.WithField("request_id", id).Infof("%s %s", r.Method, r.URL.RequestURI())
		next.ServeHTTP(w, r)
	})
}

// Close releases the underlying file.
func (l *RequestLog) Close() error {
	if l == nil {
		return nil
	}
	return l.file.Close()
}

// syncWriter forces every write to stable storage. logrus serialises calls
// to Write under its own mutex.
type syncWriter struct {
	file   *os.File
	errLog *slog.Logger
}

func (w *syncWriter) Write(p []byte) (int, error) {
	n, err := w.file.Write(p)
	if err == nil {
		err = w.file.Sync()
	}
	if err != nil {
		w.errLog.Warn("request log write failed", "error", err)
	}
	return n, err
}

// lineFormatter renders "<timestamp> - <LEVEL> - <message> k=v ...".
type lineFormatter struct{}

func (lineFormatter) Format(e *logrus.Entry) ([]byte, error) {
	var b strings.Builder
	b.WriteString(e.Time.Format(requestLogTimeFormat))
	b.WriteString(" - ")
	b.WriteString(strings.ToUpper(e.Level.String()))
	b.WriteString(" - ")
	b.WriteString(e.Message)

	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Data[k])
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}
