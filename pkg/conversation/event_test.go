package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePayload(t *testing.T) {
	tests := []struct {
		payload string
		want    Event
		wantErr bool
	}{
		{payload: "CANCEL", want: Event{Kind: EventCancel}},
		{payload: "CONFIRM", want: Event{Kind: EventConfirm}},
		{payload: "GENRE:Pop", want: Event{Kind: EventSelect, State: Genre, Value: "Pop"}},
		{payload: "ERA:2020s", want: Event{Kind: EventSelect, State: Era, Value: "2020s"}},
		{payload: "MOOD:a:b", want: Event{Kind: EventSelect, State: Mood, Value: "a:b"}},
		{payload: "GENRE", wantErr: true},
		{payload: "GENRE:", wantErr: true},
		{payload: "DESCRIPTION:x", wantErr: true},
		{payload: "CONFIRM:x", wantErr: true},
		{payload: "genre:Pop", wantErr: true},
		{payload: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.payload, func(t *testing.T) {
			got, err := ParsePayload(tt.payload)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStateOrder(t *testing.T) {
	var got []string
	for s := Genre; s != Terminated; s = s.Next() {
		got = append(got, s.String()+"/"+s.Field())
	}
	assert.Equal(t, []string{
		"GENRE/genre",
		"MOOD/mood",
		"TEMPO/tempo",
		"INSTRUMENT/instrument",
		"LANGUAGE/language",
		"ERA/era",
		"DESCRIPTION/description",
		"CONFIRM/",
	}, got)
	assert.False(t, Idle.Active())
	assert.False(t, Terminated.Active())
	assert.Equal(t, Terminated, Idle.Next())
	assert.Equal(t, "UNKNOWN", State(99).String())
}
