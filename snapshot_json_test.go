// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lincheck_test

import (
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"testing"

	"code.hybscloud.com/lincheck"
)

func TestSnapshotJSONRoundTrip(t *testing.T) {
	for _, corrupt := range []bool{false, true} {
		snap := simulate(lincheck.Queue, 3, 3, 20, 11, corrupt)
		// A trailing pending call survives the round trip.
		log := lincheck.NewLog(snap.Len() + 1)
		for _, op := range snap.Operations() {
			h := log.RecordCall(op.Thread, op.Call)
			log.RecordReturn(h, op.Result)
		}
		log.RecordCall(7, lincheck.TryDequeue())
		snap = log.Snapshot()

		data, err := json.Marshal(snap)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		var decoded lincheck.Snapshot
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}

		if !slices.Equal(decoded.Entries(), snap.Entries()) {
			t.Fatal("entries differ after round trip")
		}
		if decoded.Pending() != 1 {
			t.Fatalf("Pending: got %d, want 1", decoded.Pending())
		}
		a := check(snap, lincheck.Queue, 3)
		b := check(&decoded, lincheck.Queue, 3)
		if a.Outcome() != b.Outcome() {
			t.Fatalf("outcome changed: %s vs %s", a.Outcome(), b.Outcome())
		}
	}
}

func TestSnapshotJSONFormat(t *testing.T) {
	snap := newRecorder().op(2, lincheck.TryPop(), lincheck.Ok(4)).snapshot()
	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"entries":[` +
		`{"seq":0,"thread":2,"kind":"try_pop","match":1},` +
		`{"seq":1,"thread":2,"return":true,"kind":"try_pop","ok":true,"value":4,"match":0}]}`
	if string(data) != want {
		t.Fatalf("got  %s\nwant %s", data, want)
	}
}

func TestSnapshotJSONInvalid(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{"syntax", `{"entries":[`, "unexpected end"},
		{"unknown kind", `{"entries":[{"seq":0,"thread":0,"kind":"try_peek","match":-1}]}`, "unknown kind"},
		{"return without call", `{"entries":[{"seq":0,"thread":0,"return":true,"kind":"try_pop","match":-1}]}`, "return without call"},
		{"match out of range", `{"entries":[{"seq":0,"thread":0,"kind":"try_pop","match":5}]}`, "out of range"},
		{"seq order", `{"entries":[` +
			`{"seq":1,"thread":0,"kind":"try_pop","match":-1},` +
			`{"seq":1,"thread":0,"kind":"try_pop","match":-1}]}`,
			"strictly increasing"},
		{"thread mismatch", `{"entries":[` +
			`{"seq":0,"thread":0,"kind":"try_pop","match":1},` +
			`{"seq":1,"thread":1,"return":true,"kind":"try_pop","match":0}]}`,
			"different threads"},
		{"call links to call", `{"entries":[` +
			`{"seq":0,"thread":0,"kind":"try_pop","match":1},` +
			`{"seq":1,"thread":0,"kind":"try_pop","match":-1}]}`,
			"do not reference each other"},
		{"two calls share a return", `{"entries":[` +
			`{"seq":0,"thread":0,"kind":"try_push","arg":1,"match":2},` +
			`{"seq":1,"thread":1,"kind":"try_pop","match":2},` +
			`{"seq":2,"thread":1,"return":true,"kind":"try_pop","match":1}]}`,
			"do not reference each other"},
		{"return carries another call", `{"entries":[` +
			`{"seq":0,"thread":0,"kind":"try_push","arg":1,"match":1},` +
			`{"seq":1,"thread":0,"return":true,"kind":"try_push","arg":2,"ok":true,"match":0}]}`,
			"different call"},
		{"missing kind", `{"entries":[{"seq":0,"thread":0,"match":-1}]}`, "unknown operation kind"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s lincheck.Snapshot
			err := json.Unmarshal([]byte(tt.json), &s)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q, want %q", err, tt.want)
			}
		})
	}

	var s lincheck.Snapshot
	err := json.Unmarshal([]byte(`{"entries":[{"seq":0,"thread":0,"return":true,"kind":"try_pop","match":-1}]}`), &s)
	if err == nil || !strings.Contains(err.Error(), "lincheck: invalid history") {
		t.Fatalf("error: %v", err)
	}
	var syntax *json.SyntaxError
	if errors.As(err, &syntax) {
		t.Fatal("validation error reported as syntax error")
	}
}
