package service_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo/internal/service"
)

func TestIDJSON(t *testing.T) {
	tests := map[string]struct {
		in       string
		expID    service.ID
		expOut   string
		expErr   bool
		expEmpty bool
	}{
		"Numeric ids should keep their number form": {
			in:     `{"id":1,"text":"buy milk"}`,
			expID:  service.NumericID(1),
			expOut: `{"id":1,"text":"buy milk"}`,
		},
		"String ids should keep their string form": {
			in:     `{"id":"01J9ZK","text":"buy milk"}`,
			expID:  service.StringID("01J9ZK"),
			expOut: `{"id":"01J9ZK","text":"buy milk"}`,
		},
		"A string that looks like a number should stay a string": {
			in:     `{"id":"7","text":"x"}`,
			expID:  service.StringID("7"),
			expOut: `{"id":"7","text":"x"}`,
		},
		"A missing id should be zero": {
			in:       `{"text":"x"}`,
			expEmpty: true,
			expOut:   `{"id":"","text":"x"}`,
		},
		"A boolean id should fail": {
			in:     `{"id":true,"text":"x"}`,
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			var task service.Task
			err := json.Unmarshal([]byte(test.in), &task)
			if test.expErr {
				assert.Error(err)
				return
			}
			require.NoError(err)

			if test.expEmpty {
				assert.True(task.ID.IsZero())
			} else {
				assert.Equal(test.expID, task.ID)
			}

			out, err := json.Marshal(task)
			require.NoError(err)
			assert.JSONEq(test.expOut, string(out))
		})
	}
}

func TestIDString(t *testing.T) {
	assert.Equal(t, "42", service.NumericID(42).String())
	assert.Equal(t, "abc", service.StringID("abc").String())
	assert.True(t, service.ID{}.IsZero())
}
