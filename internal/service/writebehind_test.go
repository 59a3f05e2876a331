package service_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interviewpartner/backend/internal/domain/feedback"
	interviewsession "github.com/interviewpartner/backend/internal/domain/interview_session"
	"github.com/interviewpartner/backend/internal/service"
	"github.com/interviewpartner/backend/internal/store"
)

func TestWriteBehindLogsFailuresAsPersistenceWarnings(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r, err := loadCatalog(t).Get("backend_engineer")
	require.NoError(t, err)
	snap := interviewsession.New(r, interviewsession.ModeChat, time.Now())

	w := service.NewWriteBehind(failingStore{store.NewMemory()}, 1, 4, logger)
	w.SaveSession(snap)
	w.SaveFeedback(&feedback.Report{SessionID: snap.ID})
	w.Close()

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	for _, line := range lines {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(line, &entry))
		assert.Equal(t, "WARN", entry["level"])
		assert.Equal(t, "persistence_warning", entry["kind"])
		assert.Equal(t, snap.ID, entry["session_id"])
		assert.Equal(t, "persistence warning: disk full", entry["error"])
	}
}
