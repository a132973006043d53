package gpu

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogrusSinkLevels(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	sink := LogrusSink{Log: logger}

	for _, tc := range []struct {
		severity Severity
		level    logrus.Level
	}{
		{SeverityError, logrus.ErrorLevel},
		{SeverityWarning, logrus.WarnLevel},
		{SeverityInfo, logrus.InfoLevel},
		{SeverityVerbose, logrus.DebugLevel},
	} {
		hook.Reset()
		sink.Diagnostic(tc.severity, "validation", "message for "+tc.severity.String())

		entry := hook.LastEntry()
		require.NotNil(t, entry, tc.severity.String())
		assert.Equal(t, tc.level, entry.Level)
		assert.Equal(t, "message for "+tc.severity.String(), entry.Message)
		assert.Equal(t, "validation", entry.Data["kind"])
	}
}
