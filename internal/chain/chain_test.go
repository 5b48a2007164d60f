package chain

import (
	"path/filepath"
	"testing"

	"github.com/hlop3z/oraddl/internal/alerr"
	"github.com/hlop3z/oraddl/internal/sqlgen"
)

var texts = []string{
	"DECLARE\n    i NUMBER;\nBEGIN\n    NULL;\nEND;",
	"BEGIN\n    NULL;\nEND;",
	"DROP TABLE \"T\";",
}

func TestComputeChecksum(t *testing.T) {
	content := []byte("BEGIN NULL; END;")

	checksum1 := computeChecksum(content, GenesisChecksum)
	checksum2 := computeChecksum(content, GenesisChecksum)
	if checksum1 != checksum2 {
		t.Errorf("same input should produce same checksum")
	}
	if checksum1 == computeChecksum([]byte("BEGIN NULL;  END;"), GenesisChecksum) {
		t.Errorf("different content should produce different checksum")
	}
	if checksum1 == computeChecksum(content, "different_prev") {
		t.Errorf("different prev should produce different checksum")
	}
}

func TestComputeLinksChain(t *testing.T) {
	c, err := ComputeTexts(texts)
	if err != nil {
		t.Fatalf("ComputeTexts() error = %v", err)
	}
	if len(c.Links) != 3 {
		t.Fatalf("got %d links, want 3", len(c.Links))
	}
	if c.Links[0].PrevChecksum != GenesisChecksum {
		t.Errorf("first prev = %q, want genesis", c.Links[0].PrevChecksum)
	}
	for i := 1; i < len(c.Links); i++ {
		if c.Links[i].PrevChecksum != c.Links[i-1].Checksum {
			t.Errorf("link %d prev = %q, want %q", i, c.Links[i].PrevChecksum, c.Links[i-1].Checksum)
		}
	}
	if c.LastChecksum() != c.Links[2].Checksum {
		t.Errorf("LastChecksum() = %q", c.LastChecksum())
	}
	if len(c.Root) != 64 || len(c.ShortRoot()) != 12 {
		t.Errorf("Root = %q, ShortRoot = %q", c.Root, c.ShortRoot())
	}
}

func TestComputeKeepsKinds(t *testing.T) {
	cmds := []sqlgen.Command{{Text: texts[0], Op: 0, Kind: "CreateTable"}, {Text: texts[1], Op: 1, Kind: "AlterTable"}}
	c, err := Compute(cmds)
	if err != nil {
		t.Fatal(err)
	}
	if c.Links[1].Kind != "AlterTable" {
		t.Errorf("Kind = %q, want AlterTable", c.Links[1].Kind)
	}

	same, _ := ComputeTexts(texts[:2])
	if same.Root != c.Root {
		t.Errorf("root depends on kinds: %q != %q", same.Root, c.Root)
	}
}

func TestRootIsOrderSensitive(t *testing.T) {
	a, _ := ComputeTexts([]string{"A", "B"})
	b, _ := ComputeTexts([]string{"B", "A"})
	if a.Root == b.Root {
		t.Error("swapping commands kept the root")
	}

	empty, err := ComputeTexts(nil)
	if err != nil {
		t.Fatal(err)
	}
	if empty.Root != emptyHash() || empty.LastChecksum() != GenesisChecksum {
		t.Errorf("empty chain = %+v", empty)
	}
}

// -----------------------------------------------------------------------------
// Lock and Verify
// -----------------------------------------------------------------------------

func TestLockRoundTrip(t *testing.T) {
	c, _ := Compute([]sqlgen.Command{{Text: "A", Kind: "DropTable"}})
	path := LockPath(filepath.Join(t.TempDir(), "out.sql"))

	if err := WriteLock(path, c.Lock("build/out.sql")); err != nil {
		t.Fatalf("WriteLock() error = %v", err)
	}
	l, err := ReadLock(path)
	if err != nil {
		t.Fatalf("ReadLock() error = %v", err)
	}
	if l.Script != "out.sql" || l.Root != c.Root || len(l.Commands) != 1 || l.Commands[0].Kind != "DropTable" {
		t.Errorf("ReadLock() = %+v", l)
	}

	missing, err := ReadLock(filepath.Join(t.TempDir(), "none.lock"))
	if err != nil || missing != nil {
		t.Errorf("ReadLock(missing) = %v, %v; want nil, nil", missing, err)
	}
}

func TestVerify(t *testing.T) {
	orig, _ := ComputeTexts(texts)
	lock := orig.Lock("out.sql")

	tests := []struct {
		name     string
		texts    []string
		valid    bool
		verified int
		errType  ErrorType
		index    int
	}{
		{"unchanged", texts, true, 3, 0, 0},
		{"edited middle", []string{texts[0], "BEGIN NULL; END;", texts[2]}, false, 1, ErrorTampered, 1},
		{"dropped last", texts[:2], false, 2, ErrorMissing, 2},
		{"appended", append(append([]string{}, texts...), "X"), false, 3, ErrorExtra, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := ComputeTexts(tt.texts)
			r := c.Verify(lock)
			if r.Valid != tt.valid {
				t.Fatalf("Valid = %v, want %v (errors %+v)", r.Valid, tt.valid, r.Errors)
			}
			if r.Verified != tt.verified {
				t.Errorf("Verified = %d, want %d", r.Verified, tt.verified)
			}
			if tt.valid {
				if r.Err() != nil {
					t.Errorf("Err() = %v, want nil", r.Err())
				}
				return
			}
			if r.Errors[0].Type != tt.errType || r.Errors[0].Index != tt.index {
				t.Errorf("first error = %+v, want %s at %d", r.Errors[0], tt.errType, tt.index)
			}
			if !alerr.Is(r.Err(), alerr.ErrScriptChecksum) {
				t.Errorf("Err() = %v, want %s", r.Err(), alerr.ErrScriptChecksum)
			}
		})
	}
}

func TestVerifyRootMismatch(t *testing.T) {
	c, _ := ComputeTexts(texts)
	lock := c.Lock("out.sql")
	lock.Root = "deadbeef"

	r := c.Verify(lock)
	if r.Valid || len(r.Errors) != 1 || r.Errors[0].Index != -1 {
		t.Errorf("Verify() = %+v, want a root mismatch", r)
	}
}
