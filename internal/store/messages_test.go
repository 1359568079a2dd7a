package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampLimit(t *testing.T) {
	cases := []struct {
		name  string
		limit int64
		want  int64
	}{
		{"zero falls back to default", 0, 50},
		{"negative falls back to default", -1, 50},
		{"over cap falls back to default", 500, 50},
		{"cap itself passes through", 200, 200},
		{"in range passes through", 10, 10},
		{"one passes through", 1, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, clampLimit(tc.limit))
		})
	}
}
