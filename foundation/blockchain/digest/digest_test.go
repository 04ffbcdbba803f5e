package digest_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/digest"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

func Test_Sum(t *testing.T) {
	type table struct {
		name   string
		fields map[string]string
		hash   string
	}

	tt := []table{
		{
			name:   "single",
			fields: map[string]string{"foo": "data"},
			hash:   "0x403ddf7b8ee78743e1eecf3474f6e4c9e71b5ce4611dfb475f27ab58deab1b9c",
		},
		{
			name:   "empty-block",
			fields: digest.Fields(time.Unix(0, 0), nil, "", 0, 0),
			hash:   "0xf988175e528096e2ce8d7997a6d973f98033f871d17bbe38102a8ae7ce6b5315",
		},
	}

	t.Log("Given the need to produce a known digest for a set of fields.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen handling fields %q.", testID, digest.Canonical(tst.fields))
				{
					h := digest.Sum(tst.fields)
					if h.String() != tst.hash {
						t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, h)
						t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.hash)
						t.Fatalf("\t%s\tTest %d:\tShould get back the right digest.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get back the right digest.", success, testID)

					if again := digest.Sum(tst.fields); again != h {
						t.Fatalf("\t%s\tTest %d:\tShould get back the same digest twice.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get back the same digest twice.", success, testID)
				}
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_Canonical(t *testing.T) {
	fields := digest.Fields(time.Unix(0, 0), nil, "", 0, 0)

	const exp = "| data: | difficulty:0 | last_hash: | nonce:0 | timestamp:0 |"
	if got := digest.Canonical(fields); got != exp {
		t.Logf("got: %s", got)
		t.Logf("exp: %s", exp)
		t.Fatalf("Should get back the canonical form sorted by key.")
	}

	ts := time.Unix(1, 5)
	got := digest.Canonical(digest.Fields(ts, []byte{0xab, 0x01}, "raccoons", 7, 9))
	const exp2 = "| data:raccoons | difficulty:9 | last_hash:ab01 | nonce:7 | timestamp:1000000005 |"
	if got != exp2 {
		t.Logf("got: %s", got)
		t.Logf("exp: %s", exp2)
		t.Fatalf("Should format every field the same way.")
	}
}

func Test_Hash(t *testing.T) {
	ts := time.Date(2022, time.March, 14, 10, 0, 0, 42, time.UTC)

	h1 := digest.Hash(ts, digest.Ones.Bytes(), "some data", 12, 8)
	h2 := digest.Hash(ts.In(time.FixedZone("EST", -5*3600)), digest.Ones.Bytes(), "some data", 12, 8)
	if h1 != h2 {
		t.Fatalf("Should get the same digest regardless of the timestamp location.")
	}

	variants := []digest.Digest{
		digest.Hash(ts.Add(time.Nanosecond), digest.Ones.Bytes(), "some data", 12, 8),
		digest.Hash(ts, digest.Zero.Bytes(), "some data", 12, 8),
		digest.Hash(ts, digest.Ones.Bytes(), "some date", 12, 8),
		digest.Hash(ts, digest.Ones.Bytes(), "some data", 13, 8),
		digest.Hash(ts, digest.Ones.Bytes(), "some data", 12, 9),
	}
	for i, v := range variants {
		if v == h1 {
			t.Fatalf("Should get a different digest when field %d changes.", i)
		}
	}
}

func Test_IsValid(t *testing.T) {
	type table struct {
		name       string
		hash       []byte
		difficulty uint
		valid      bool
	}

	valid := make([]byte, digest.Width)
	for i := range valid {
		valid[i] = 0xff
	}
	valid[0] = 0
	valid[1] = 127

	insufficient := make([]byte, digest.Width)
	insufficient[1] = 128

	tt := []table{
		{name: "valid", hash: valid, difficulty: 9, valid: true},
		{name: "exact-byte", hash: valid, difficulty: 8, valid: true},
		{name: "one-too-many", hash: valid, difficulty: 10, valid: false},
		{name: "wrong-length", hash: make([]byte, 31), difficulty: 0, valid: false},
		{name: "nil", hash: nil, difficulty: 0, valid: false},
		{name: "insufficient", hash: insufficient, difficulty: 9, valid: false},
		{name: "zero-difficulty", hash: digest.Ones.Bytes(), difficulty: 0, valid: true},
		{name: "all-zero", hash: digest.Zero.Bytes(), difficulty: 256, valid: true},
		{name: "beyond-width", hash: digest.Zero.Bytes(), difficulty: 257, valid: false},
	}

	t.Log("Given the need to check a digest against a difficulty.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				got := digest.IsValid(tst.hash, tst.difficulty)
				if got != tst.valid {
					t.Logf("\t%s\tTest %d:\tgot: %v", failed, testID, got)
					t.Logf("\t%s\tTest %d:\texp: %v", failed, testID, tst.valid)
					t.Fatalf("\t%s\tTest %d:\tShould get back the right answer.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould get back the right answer.", success, testID)
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_LeadingZeros(t *testing.T) {
	tt := []struct {
		b   []byte
		exp int
	}{
		{b: []byte{}, exp: 0},
		{b: []byte{0x80}, exp: 0},
		{b: []byte{0x01}, exp: 7},
		{b: []byte{0x00, 0x0f}, exp: 12},
		{b: []byte{0x00, 0x00}, exp: 16},
		{b: digest.Zero.Bytes(), exp: 256},
	}

	for _, tst := range tt {
		if got := digest.LeadingZeros(tst.b); got != tst.exp {
			t.Errorf("LeadingZeros(%x): got %d, exp %d", tst.b, got, tst.exp)
		}
	}
}

func Test_TextForm(t *testing.T) {
	h := digest.Hash(time.Unix(0, 0), nil, "", 0, 0)

	data, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("Should be able to marshal a digest: %s", err)
	}

	exp := `"` + h.String() + `"`
	if string(data) != exp {
		t.Logf("got: %s", data)
		t.Logf("exp: %s", exp)
		t.Fatalf("Should marshal as a quoted hex string.")
	}

	var back digest.Digest
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Should be able to unmarshal a digest: %s", err)
	}
	if back != h {
		t.Fatalf("Should get back the same digest.")
	}

	if _, err := digest.Parse("0xabcd"); !errors.Is(err, digest.ErrInvalidWidth) {
		t.Fatalf("Should reject a digest of the wrong width: %v", err)
	}

	if _, err := digest.Parse("nothex"); err == nil {
		t.Fatalf("Should reject a value that is not hex.")
	}
}
