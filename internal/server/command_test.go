package server

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCommand(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Command
		wantErr error
	}{
		{name: "move", in: `{"action":"move","x":1.5,"z":-2}`, want: Command{Action: ActionMove, X: 1.5, Z: -2}},
		{name: "stop", in: `{"action":"stop"}`, want: Command{Action: ActionStop}},
		{name: "cycle", in: `{"action":"cycle"}`, want: Command{Action: ActionCycle}},
		{name: "select", in: `{"action":"select","index":2}`, want: Command{Action: ActionSelect, Index: 2}},
		{name: "perform", in: `{"action":"perform","name":"cast","duration":1.5}`, want: Command{Action: ActionPerform, Name: "cast", Duration: 1.5}},
		{name: "perform without name", in: `{"action":"perform","duration":1}`, wantErr: ErrInvalidMessage},
		{name: "perform without duration", in: `{"action":"perform","name":"cast"}`, wantErr: ErrInvalidMessage},
		{name: "perform negative duration", in: `{"action":"perform","name":"cast","duration":-2}`, wantErr: ErrInvalidMessage},
		{name: "unknown action", in: `{"action":"jump"}`, wantErr: ErrUnknownCommand},
		{name: "missing action", in: `{}`, wantErr: ErrUnknownCommand},
		{name: "malformed", in: `{"action":`, wantErr: ErrInvalidMessage},
		{name: "wrong type", in: `{"action":"move","x":"far"}`, wantErr: ErrInvalidMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeCommand([]byte(tt.in))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommandQueueDrainsInOrder(t *testing.T) {
	var q CommandQueue
	require.NoError(t, q.Push(Command{Action: ActionCycle}))
	require.NoError(t, q.Push(Command{Action: ActionSelect, Index: 1}))
	require.NoError(t, q.Push(Command{Action: ActionStop}))
	assert.Equal(t, 3, q.Len())

	got := q.Drain()
	require.Len(t, got, 3)
	assert.Equal(t, ActionCycle, got[0].Action)
	assert.Equal(t, ActionSelect, got[1].Action)
	assert.Equal(t, ActionStop, got[2].Action)
	assert.Equal(t, 0, q.Len())
	assert.Empty(t, q.Drain())
}

func TestCommandQueueCap(t *testing.T) {
	q := NewCommandQueue(2)
	require.NoError(t, q.Push(Command{Action: ActionCycle}))
	require.NoError(t, q.Push(Command{Action: ActionStop}))
	assert.ErrorIs(t, q.Push(Command{Action: ActionCycle}), ErrQueueFull)
	assert.Equal(t, 2, q.Len())

	require.Len(t, q.Drain(), 2)
	assert.NoError(t, q.Push(Command{Action: ActionCycle}), "draining frees room")
}

func TestTokenAuth(t *testing.T) {
	open := TokenAuth{}
	assert.NoError(t, open.Authorize(httptest.NewRequest("GET", "/ws", nil)))

	auth := TokenAuth{Token: "s3cret"}
	assert.ErrorIs(t, auth.Authorize(httptest.NewRequest("GET", "/ws", nil)), ErrUnauthorized)
	assert.ErrorIs(t, auth.Authorize(httptest.NewRequest("GET", "/ws?token=nope", nil)), ErrUnauthorized)
	assert.NoError(t, auth.Authorize(httptest.NewRequest("GET", "/ws?token=s3cret", nil)))

	r := httptest.NewRequest("GET", "/ws", nil)
	r.Header.Set("Authorization", "Bearer s3cret")
	assert.NoError(t, auth.Authorize(r))

	r = httptest.NewRequest("GET", "/ws", nil)
	r.Header.Set("Authorization", "s3cret")
	assert.ErrorIs(t, auth.Authorize(r), ErrUnauthorized, "the bearer scheme is required")

	r = httptest.NewRequest("GET", "/ws", nil)
	r.Header.Set("Authorization", "Bearer nope")
	assert.ErrorIs(t, auth.Authorize(r), ErrUnauthorized)
}
