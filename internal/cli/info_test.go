package cli

import (
	"encoding/json"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/surflabel/pkg/errors"
)

func TestInfoJSON(t *testing.T) {
	f := newFixture(t)
	got, err := f.run(t, "info", f.surface, f.labels, "--json")
	if err != nil {
		t.Fatalf("info: %v", err)
	}

	var info surfaceInfo
	if err := json.Unmarshal([]byte(got), &info); err != nil {
		t.Fatalf("decode %q: %v", got, err)
	}
	if info.Vertices != 9 || info.Triangles != 7 || info.Components != 1 || info.Isolated != 0 {
		t.Errorf("info = %+v", info)
	}
	// Seven triangles of base 1 and height 1.
	if math.Abs(info.Area-3.5) > 1e-9 {
		t.Errorf("area = %v, want 3.5", info.Area)
	}
	if info.Labels == nil || len(info.Labels.Columns) != 2 {
		t.Fatalf("labels = %+v", info.Labels)
	}
	roi := info.Labels.Columns[0]
	if roi.Name != "roi" || roi.Assigned != 2 || roi.Distinct != 2 {
		t.Errorf("roi = %+v", roi)
	}
	if info.Labels.Columns[1].Assigned != 0 {
		t.Errorf("empty = %+v", info.Labels.Columns[1])
	}
}

func TestInfoReport(t *testing.T) {
	f := newFixture(t)
	got, err := f.run(t, "info", f.surface, f.labels)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	for _, want := range []string{"Vertices", "9", "Components", "roi", "22.2%"} {
		if !strings.Contains(got, want) {
			t.Errorf("report missing %q:\n%s", want, got)
		}
	}

	surfaceOnly, err := f.run(t, "info", f.surface)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(surfaceOnly, "Label table") {
		t.Errorf("surface-only report shows label data:\n%s", surfaceOnly)
	}
}

func TestInfoIsolatedVertices(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(f.dir, "iso.json")
	writeTestFile(t, path, `{"vertices": [[0,0,0],[1,0,0],[0,1,0],[5,5,5]], "triangles": [[0,1,2]]}`)

	got, err := f.run(t, "info", path, "--json")
	if err != nil {
		t.Fatal(err)
	}
	var info surfaceInfo
	if err := json.Unmarshal([]byte(got), &info); err != nil {
		t.Fatal(err)
	}
	if info.Components != 1 || info.Isolated != 1 {
		t.Errorf("components = %d isolated = %d, want 1 and 1", info.Components, info.Isolated)
	}
}

func TestInfoVertexMismatch(t *testing.T) {
	f := newFixture(t)
	short := filepath.Join(f.dir, "short.json")
	writeTestFile(t, short, `{"columns": [{"name": "x", "keys": [1]}]}`)

	if _, err := f.run(t, "info", f.surface, short); !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("error = %v, want INVALID_ARGUMENT", err)
	}
}
