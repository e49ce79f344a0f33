package logsvc

import (
	"bytes"
	"log"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/dashboard/core"
	"github.com/trezcool/dashboard/core/user"
)

func TestRollbarLogger(t *testing.T) {
	var buf bytes.Buffer
	conf := core.NewTestConfig()
	conf.RollbarToken = "token"
	l := NewRollbarLogger(log.New(&buf, "", 0), conf)
	assert.False(t, l.enabled, "reporting is off in tests")

	usr := user.User{ID: "42", Name: "Bob", Email: "bob@example.com"}
	l.Error("saving room", errors.New("boom"), map[string]interface{}{"room_id": "7"}, usr)

	out := buf.String()
	assert.Contains(t, out, "ERROR: saving room")
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "map[room_id:7]")
	assert.Contains(t, out, "user: 42 <bob@example.com>")
}

func TestRollbarLogger_Prepare(t *testing.T) {
	l := &RollbarLogger{std: log.New(&bytes.Buffer{}, "", 0)}
	usr := user.User{ID: "42"}
	other := user.User{ID: "43"}
	err := errors.New("boom")

	args := l.prepare("msg", []interface{}{usr, err, other})
	assert.Equal(t, []interface{}{"msg", err}, args, "users are not reported as extras")
}
