package logsvc

import (
	"bytes"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KS-2006-TD/LMS/core"
	"github.com/KS-2006-TD/LMS/core/user"
)

func TestRollbarLogger_print(t *testing.T) {
	buf := new(bytes.Buffer)
	l := NewRollbarLogger(log.New(buf, "", 0), &core.Config{Env: "TEST"})

	l.Error("boom", errors.New("disk full"), user.Profile{ID: "u1", Name: "Ann"})

	out := buf.String()
	assert.Contains(t, out, "[ERROR] boom")
	assert.Contains(t, out, "disk full")
}

func TestRollbarLogger_prepare(t *testing.T) {
	l := RollbarLogger{}
	args := l.prepare("msg", []interface{}{user.Profile{ID: "u1"}, "extra", user.Profile{ID: "u2"}})
	assert.Equal(t, []interface{}{"msg", "extra"}, args)
}
