package schedule

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportReadExport(t *testing.T) {
	created := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
	schedules := []*Schedule{testSchedule("a", created), testSchedule("b", created)}

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, schedules, created))
	assert.Contains(t, buf.String(), "version: 1")
	assert.Contains(t, buf.String(), "0 0 2 * * ?")

	doc, err := ReadExport(&buf)
	require.NoError(t, err)
	require.Len(t, doc.Schedules, 2)
	assert.Equal(t, *schedules[0], doc.Schedules[0])
	assert.True(t, created.Equal(doc.ExportedAt))
}

func TestReadExportRejectsVersion(t *testing.T) {
	_, err := ReadExport(strings.NewReader("version: 9\nschedules: []\n"))
	assert.Error(t, err)

	_, err = ReadExport(strings.NewReader("{not yaml"))
	assert.Error(t, err)
}
