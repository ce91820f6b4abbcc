package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/weberc2/ecsfs/pkg/config"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, &config.Config{
		LogLevel:  "info",
		LogFormat: config.LogFormatJSON,
	})
	if err != nil {
		t.Fatalf("New(): unexpected err: %v", err)
	}
	logger.Debug("dropped")
	logger.WithField("mount", "abc").Info("mounted")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshaling log line `%s`: %v", buf.Bytes(), err)
	}
	if entry["msg"] != "mounted" || entry["mount"] != "abc" {
		t.Fatalf("New(): wanted `mounted` with mount `abc`; found `%v`", entry)
	}
}

func TestNew_Level(t *testing.T) {
	logger, err := New(&bytes.Buffer{}, &config.Config{
		LogLevel:  "warn",
		LogFormat: config.LogFormatText,
	})
	if err != nil {
		t.Fatalf("New(): unexpected err: %v", err)
	}
	if logger.GetLevel() != logrus.WarnLevel {
		t.Fatalf(
			"GetLevel(): wanted `%s`; found `%s`",
			logrus.WarnLevel,
			logger.GetLevel(),
		)
	}
}

func TestNew_Errors(t *testing.T) {
	for _, c := range []config.Config{
		{LogLevel: "loud", LogFormat: config.LogFormatText},
		{LogLevel: "info", LogFormat: "xml"},
	} {
		if _, err := New(&bytes.Buffer{}, &c); err == nil {
			t.Fatalf("New(%+v): wanted error; found `nil`", c)
		}
	}
}
