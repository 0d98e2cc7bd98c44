package logrus_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"todo/internal/log"
	loglogrus "todo/internal/log/logrus"
)

func TestLogrusWithValues(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.Out = &buf
	l.SetFormatter(&logrus.JSONFormatter{})

	logger := loglogrus.NewLogrus(logrus.NewEntry(l)).WithValues(log.Kv{"svc": "test"})
	logger.Infof("hello %s", "world")

	assert.Contains(t, buf.String(), `"msg":"hello world"`)
	assert.Contains(t, buf.String(), `"svc":"test"`)
}

func TestLogrusWithCtxValues(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.Out = &buf
	l.SetFormatter(&logrus.JSONFormatter{})

	logger := loglogrus.NewLogrus(logrus.NewEntry(l))
	ctx := logger.SetValuesOnCtx(context.Background(), log.Kv{"op": "list"})
	logger.WithCtxValues(ctx).Warningf("careful")

	assert.Contains(t, buf.String(), `"op":"list"`)
	assert.Contains(t, buf.String(), `"level":"warning"`)
}
