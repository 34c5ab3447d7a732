package journal

import (
	"testing"
	"time"
)

func TestDecodeFSDJump(t *testing.T) {
	t.Parallel()
	line := []byte(`{"timestamp":"2026-07-31T12:00:00Z","event":"FSDJump","StarSystem":"Sol","SystemAddress":10477373803,"StarPos":[0,0,0],"StarClass":"G","FuelUsed":1.2,"FuelLevel":30.5}`)

	ev, err := Decode(line)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if ev.Tag != TagFSDJump {
		t.Fatalf("Tag = %q, want %q", ev.Tag, TagFSDJump)
	}
	if ev.FSDJump == nil {
		t.Fatal("FSDJump payload is nil")
	}
	if ev.FSDJump.StarSystem != "Sol" {
		t.Errorf("StarSystem = %q, want Sol", ev.FSDJump.StarSystem)
	}
	if ev.FSDJump.SystemAddress != 10477373803 {
		t.Errorf("SystemAddress = %d, want 10477373803", ev.FSDJump.SystemAddress)
	}
	wantTS, _ := time.Parse(time.RFC3339, "2026-07-31T12:00:00Z")
	if !ev.Timestamp.Equal(wantTS) {
		t.Errorf("Timestamp = %v, want %v", ev.Timestamp, wantTS)
	}
}

func TestDecodeScanPlanet(t *testing.T) {
	t.Parallel()
	line := []byte(`{"timestamp":"2026-07-31T12:01:00Z","event":"Scan","ScanType":"Detailed","BodyName":"Sys A 1","BodyID":1,"Parents":[{"Star":0}],"PlanetClass":"Earthlike body","MassEM":1.0,"WasDiscovered":false,"TerraformState":""}`)

	ev, err := Decode(line)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if ev.Scan == nil {
		t.Fatal("Scan payload is nil")
	}
	if ev.Scan.PlanetClass != "Earthlike body" {
		t.Errorf("PlanetClass = %q, want Earthlike body", ev.Scan.PlanetClass)
	}
	if len(ev.Scan.Parents) != 1 || ev.Scan.Parents[0].StarID == nil || *ev.Scan.Parents[0].StarID != 0 {
		t.Errorf("Parents = %+v, want [{Star:0}]", ev.Scan.Parents)
	}
}

func TestDecodeUnrecognisedTagIgnored(t *testing.T) {
	t.Parallel()
	line := []byte(`{"timestamp":"2026-07-31T12:02:00Z","event":"Music","MusicTrack":"Exploration"}`)

	ev, err := Decode(line)
	if err != nil {
		t.Fatalf("Decode() error = %v, want nil for unrecognised tag", err)
	}
	if ev.Tag != "Music" {
		t.Errorf("Tag = %q, want Music", ev.Tag)
	}
	if ev.FSDJump != nil || ev.Scan != nil {
		t.Error("unrecognised tag should decode with no payload set")
	}
}

func TestDecodeMissingTimestamp(t *testing.T) {
	t.Parallel()
	_, err := Decode([]byte(`{"event":"FSDJump"}`))
	if err == nil {
		t.Fatal("Decode() with no timestamp should error")
	}
}

func TestDecodeMalformedJSON(t *testing.T) {
	t.Parallel()
	_, err := Decode([]byte(`{"timestamp":"2026-07-31T12:00:00Z","event":"FSDJump", not json`))
	if err == nil {
		t.Fatal("Decode() with malformed JSON should error")
	}
}

func TestDecodeLineSkipsMalformed(t *testing.T) {
	t.Parallel()
	_, ok := DecodeLine([]byte(`not json at all`))
	if ok {
		t.Fatal("DecodeLine() should return ok=false for malformed input")
	}
}

func TestDecodeNavRouteClear(t *testing.T) {
	t.Parallel()
	ev, err := Decode([]byte(`{"timestamp":"2026-07-31T12:03:00Z","event":"NavRouteClear"}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if ev.NavRouteClear == nil {
		t.Fatal("NavRouteClear payload is nil")
	}
}

func TestExcerptBoundedLength(t *testing.T) {
	t.Parallel()
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'x'
	}
	got := excerpt(long)
	if len(got) != 43 { // 40 chars + "..."
		t.Errorf("excerpt() length = %d, want 43", len(got))
	}
}
