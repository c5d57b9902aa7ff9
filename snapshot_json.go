// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lincheck

import (
	"encoding/json"
	"fmt"
)

// MarshalText encodes k by name.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("lincheck: unknown kind %d", k)
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(text []byte) error {
	for i, name := range kindNames {
		if i > 0 && name == string(text) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("lincheck: unknown kind %q", text)
}

type entryJSON struct {
	Seq    uint64 `json:"seq"`
	Thread int    `json:"thread"`
	Return bool   `json:"return,omitempty"`
	Kind   Kind   `json:"kind"`
	Arg    Value  `json:"arg,omitempty"`
	OK     bool   `json:"ok,omitempty"`
	Value  Value  `json:"value,omitempty"`
	Match  int    `json:"match"`
}

type snapshotJSON struct {
	Entries []entryJSON `json:"entries"`
}

// MarshalJSON encodes the entries of s.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	out := snapshotJSON{Entries: make([]entryJSON, len(s.entries))}
	for i, e := range s.entries {
		out.Entries[i] = entryJSON{
			Seq:    e.Seq,
			Thread: e.Thread,
			Return: e.IsReturn,
			Kind:   e.Call.Kind,
			Arg:    e.Call.Value,
			OK:     e.Result.OK,
			Value:  e.Result.Value,
			Match:  e.Match,
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes entries produced by MarshalJSON and validates
// the call/return links.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var in snapshotJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	entries := make([]Entry, len(in.Entries))
	for i, e := range in.Entries {
		entries[i] = Entry{
			Seq:      e.Seq,
			Thread:   e.Thread,
			IsReturn: e.Return,
			Call:     Call{Kind: e.Kind, Value: e.Arg},
			Result:   Return{OK: e.OK, Value: e.Value},
			Match:    e.Match,
		}
	}
	decoded, err := newSnapshot(entries)
	if err != nil {
		return fmt.Errorf("lincheck: invalid history: %w", err)
	}
	*s = *decoded
	return nil
}
