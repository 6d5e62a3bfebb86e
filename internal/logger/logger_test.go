package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func contextWithBuffer() (context.Context, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	l := zerolog.New(buf)
	return l.WithContext(context.Background()), buf
}

func TestErrorLogAttachesError(t *testing.T) {
	ctx, buf := contextWithBuffer()

	ErrorLog(ctx, "report failed", errors.New("broken template"))

	assert.Contains(t, buf.String(), `"message":"report failed"`)
	assert.Contains(t, buf.String(), `"error":"broken template"`)
}

func TestErrorLogNilError(t *testing.T) {
	ctx, buf := contextWithBuffer()

	ErrorLog(ctx, "report failed", nil)

	assert.Contains(t, buf.String(), `"message":"report failed"`)
	assert.NotContains(t, buf.String(), `"error"`)
}

func TestInfoLogFormatsMessage(t *testing.T) {
	ctx, buf := contextWithBuffer()

	InfoLog(ctx, "compiling table %s", "proteins.tsv")

	assert.Contains(t, buf.String(), `"message":"compiling table proteins.tsv"`)
}
