// Package snapshot encodes the tracker state as a canonical JSON document
// guarded by a SHA-256 checksum, and verifies such documents on the way back in.
//
// A document has the form
//
//	{"profile":{...},"records":[...],"checksum":"<hex sha256>"}
//
// The checksum covers the bytes of {"profile":...,"records":...} exactly as
// they appear in the document. Those bytes are produced by a fixed encoder,
// so the same state always yields the same document.
package snapshot

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/rpggio/watertrack/internal/domain/intake"
	"github.com/rpggio/watertrack/internal/domain/profile"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	fieldProfile  = "profile"
	fieldRecords  = "records"
	fieldChecksum = "checksum"

	// TimestampLayout is the fixed-width UTC layout used for record timestamps.
	TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// State is the complete tracker state carried by a document.
type State struct {
	Profile *profile.Profile
	Records []intake.Record
}

// Encode returns the canonical document for st, checksum included and
// terminated by a newline.
func Encode(st State) ([]byte, error) {
	payload, err := canonicalPayload(st)
	if err != nil {
		return nil, err
	}
	doc, err := sjson.SetBytes(payload, fieldChecksum, Checksum(payload))
	if err != nil {
		return nil, fmt.Errorf("attaching checksum: %w", err)
	}
	return append(doc, '\n'), nil
}

// Decode verifies a document and returns the state it carries. Malformed JSON
// or invalid content yields ErrParse; a missing or mismatched checksum yields
// ErrIntegrity.
func Decode(data []byte) (State, error) {
	if !gjson.ValidBytes(data) {
		return State{}, fmt.Errorf("%w: document is not valid JSON", ErrParse)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return State{}, fmt.Errorf("%w: document is not a JSON object", ErrParse)
	}

	sum := doc.Get(fieldChecksum)
	if !sum.Exists() {
		return State{}, fmt.Errorf("%w: checksum is missing", ErrIntegrity)
	}
	if sum.Type != gjson.String {
		return State{}, fmt.Errorf("%w: checksum is not a string", ErrIntegrity)
	}

	payload := payloadBytes(doc)
	if !checksumMatches(payload, sum.Str) {
		return State{}, fmt.Errorf("%w: checksum mismatch", ErrIntegrity)
	}

	st, err := decodePayload(doc)
	if err != nil {
		return State{}, err
	}

	// A matching checksum over bytes this encoder would not produce means the
	// document was assembled by hand; reject it rather than guess.
	canonical, err := canonicalPayload(st)
	if err != nil {
		return State{}, err
	}
	if string(canonical) != string(payload) {
		return State{}, fmt.Errorf("%w: payload is not in canonical form", ErrParse)
	}

	return st, nil
}

// Checksum returns the lowercase hex SHA-256 digest of payload.
func Checksum(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func checksumMatches(payload []byte, expected string) bool {
	want, err := hex.DecodeString(expected)
	if err != nil || len(want) != sha256.Size {
		return false
	}
	got := sha256.Sum256(payload)
	return subtle.ConstantTimeCompare(got[:], want) == 1
}

// payloadBytes rebuilds the hashed portion of a document from the raw bytes
// of its profile and records members.
func payloadBytes(doc gjson.Result) []byte {
	buf := []byte{'{'}
	prof := doc.Get(fieldProfile)
	if prof.Exists() {
		buf = append(buf, `"`+fieldProfile+`":`...)
		buf = append(buf, prof.Raw...)
	}
	recs := doc.Get(fieldRecords)
	if recs.Exists() {
		if prof.Exists() {
			buf = append(buf, ',')
		}
		buf = append(buf, `"`+fieldRecords+`":`...)
		buf = append(buf, recs.Raw...)
	}
	return append(buf, '}')
}

func canonicalPayload(st State) ([]byte, error) {
	profileRaw := []byte("null")
	if st.Profile != nil {
		var err error
		profileRaw, err = encodeProfile(*st.Profile)
		if err != nil {
			return nil, err
		}
	}

	doc, err := sjson.SetRawBytes([]byte("{}"), fieldProfile, profileRaw)
	if err != nil {
		return nil, fmt.Errorf("encoding profile: %w", err)
	}
	doc, err = sjson.SetRawBytes(doc, fieldRecords, []byte("[]"))
	if err != nil {
		return nil, fmt.Errorf("encoding records: %w", err)
	}
	for i, rec := range st.Records {
		raw, err := encodeRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("encoding record %d: %w", i, err)
		}
		doc, err = sjson.SetRawBytes(doc, fieldRecords+".-1", raw)
		if err != nil {
			return nil, fmt.Errorf("encoding record %d: %w", i, err)
		}
	}
	return doc, nil
}

type field struct {
	key   string
	value any
	raw   bool
}

func encodeObject(fields []field) ([]byte, error) {
	obj := []byte("{}")
	for _, f := range fields {
		var err error
		if f.raw {
			obj, err = sjson.SetRawBytes(obj, f.key, []byte(f.value.(string)))
		} else {
			obj, err = sjson.SetBytes(obj, f.key, f.value)
		}
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", f.key, err)
		}
	}
	return obj, nil
}

func encodeProfile(p profile.Profile) ([]byte, error) {
	return encodeObject([]field{
		{key: "name", value: p.Name},
		{key: "unit", value: string(p.Unit)},
		{key: "target_ml", value: p.TargetML},
		{key: "height_cm", value: p.HeightCM},
		{key: "weight_kg", value: p.WeightKG.String(), raw: true},
		{key: "age_years", value: p.AgeYears},
		{key: "gender", value: string(p.Gender)},
	})
}

func encodeRecord(rec intake.Record) ([]byte, error) {
	if err := intake.ValidateTimestamp(rec.Timestamp); err != nil {
		return nil, fmt.Errorf("record %s: %w", rec.ID, err)
	}
	return encodeObject([]field{
		{key: "id", value: rec.ID},
		{key: "timestamp", value: rec.Timestamp.UTC().Format(TimestampLayout)},
		{key: "volume_ml", value: rec.VolumeML},
		{key: "note", value: rec.Note},
	})
}

func decodePayload(doc gjson.Result) (State, error) {
	var st State

	prof := doc.Get(fieldProfile)
	switch {
	case !prof.Exists():
		return State{}, fmt.Errorf("%w: profile is missing", ErrParse)
	case prof.Type == gjson.Null:
	case prof.IsObject():
		p, err := decodeProfile(prof)
		if err != nil {
			return State{}, err
		}
		st.Profile = p
	default:
		return State{}, fmt.Errorf("%w: profile must be an object or null", ErrParse)
	}

	recs := doc.Get(fieldRecords)
	if !recs.IsArray() {
		return State{}, fmt.Errorf("%w: records must be an array", ErrParse)
	}
	items := recs.Array()
	st.Records = make([]intake.Record, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		rec, err := decodeRecord(item)
		if err != nil {
			return State{}, fmt.Errorf("record %d: %w", i, err)
		}
		if _, dup := seen[rec.ID]; dup {
			return State{}, fmt.Errorf("%w: record %d: duplicate id %s", ErrParse, i, rec.ID)
		}
		seen[rec.ID] = struct{}{}
		st.Records = append(st.Records, rec)
	}

	return st, nil
}

func decodeProfile(obj gjson.Result) (*profile.Profile, error) {
	var (
		p   profile.Profile
		err error
	)
	if p.Name, err = stringField(obj, "name"); err != nil {
		return nil, err
	}
	unit, err := stringField(obj, "unit")
	if err != nil {
		return nil, err
	}
	p.Unit = profile.Unit(unit)
	if p.TargetML, err = intField(obj, "target_ml"); err != nil {
		return nil, err
	}
	if p.HeightCM, err = intField(obj, "height_cm"); err != nil {
		return nil, err
	}
	weight := obj.Get("weight_kg")
	if weight.Type != gjson.Number {
		return nil, fmt.Errorf("%w: profile.weight_kg must be a number", ErrParse)
	}
	if p.WeightKG, err = decimal.NewFromString(weight.Raw); err != nil {
		return nil, fmt.Errorf("%w: profile.weight_kg: %v", ErrParse, err)
	}
	if p.AgeYears, err = intField(obj, "age_years"); err != nil {
		return nil, err
	}
	gender, err := stringField(obj, "gender")
	if err != nil {
		return nil, err
	}
	p.Gender = profile.Gender(gender)

	if err := profile.Validate(p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return &p, nil
}

func decodeRecord(obj gjson.Result) (intake.Record, error) {
	var (
		rec intake.Record
		err error
	)
	if !obj.IsObject() {
		return rec, fmt.Errorf("%w: record must be an object", ErrParse)
	}
	if rec.ID, err = stringField(obj, "id"); err != nil {
		return rec, err
	}
	ts, err := stringField(obj, "timestamp")
	if err != nil {
		return rec, err
	}
	if rec.Timestamp, err = time.Parse(TimestampLayout, ts); err != nil {
		return rec, fmt.Errorf("%w: timestamp %q: %v", ErrParse, ts, err)
	}
	rec.Timestamp = intake.NormalizeTimestamp(rec.Timestamp)
	if rec.VolumeML, err = intField(obj, "volume_ml"); err != nil {
		return rec, err
	}
	if rec.Note, err = stringField(obj, "note"); err != nil {
		return rec, err
	}

	if err := intake.Validate(rec); err != nil {
		return rec, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return rec, nil
}

func stringField(obj gjson.Result, key string) (string, error) {
	v := obj.Get(key)
	if v.Type != gjson.String {
		return "", fmt.Errorf("%w: %s must be a string", ErrParse, key)
	}
	return v.Str, nil
}

func intField(obj gjson.Result, key string) (int, error) {
	v := obj.Get(key)
	if v.Type != gjson.Number {
		return 0, fmt.Errorf("%w: %s must be a number", ErrParse, key)
	}
	n, err := strconv.Atoi(v.Raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", ErrParse, key)
	}
	return n, nil
}
