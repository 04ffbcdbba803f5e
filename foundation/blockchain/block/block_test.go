package block_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/block"
	"github.com/ardanlabs/powledger/foundation/blockchain/digest"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

func Test_Genesis(t *testing.T) {
	gen := block.Genesis()

	if !gen.TimeStamp.Equal(time.Unix(0, 0)) {
		t.Fatalf("Should have the epoch as timestamp, got %s", gen.TimeStamp)
	}
	if gen.PrevHash != digest.Zero {
		t.Fatalf("Should have the zero digest as previous hash, got %s", gen.PrevHash)
	}
	if gen.Hash != digest.Ones {
		t.Fatalf("Should have the ones digest as hash, got %s", gen.Hash)
	}
	if gen.Data != block.GenesisData {
		t.Fatalf("Should have the genesis data, got %q", gen.Data)
	}
	if gen.Nonce != 0 || gen.Difficulty != block.GenesisDifficulty {
		t.Fatalf("Should have nonce 0 and difficulty %d, got %d/%d", block.GenesisDifficulty, gen.Nonce, gen.Difficulty)
	}
	if !gen.Equal(block.Genesis()) || !gen.IsGenesis() {
		t.Fatalf("Should be equal to another genesis block.")
	}
}

func Test_Mine(t *testing.T) {
	t.Log("Given the need to mine a block on top of the genesis block.")
	{
		prev := block.Genesis()
		const data = "some data"

		var events int
		ev := func(v string, args ...any) { events++ }

		blk := block.Mine(prev, data, ev)

		if blk.PrevHash != prev.Hash {
			t.Fatalf("\t%s\tShould set the previous hash to the parent's hash.", failed)
		}
		t.Logf("\t%s\tShould set the previous hash to the parent's hash.", success)

		if blk.Data != data {
			t.Fatalf("\t%s\tShould set the data field.", failed)
		}
		t.Logf("\t%s\tShould set the data field.", success)

		if !block.IsValidDifficulty(prev.Difficulty, blk.Difficulty) {
			t.Fatalf("\t%s\tShould set a valid new difficulty: parent %d, block %d", failed, prev.Difficulty, blk.Difficulty)
		}
		t.Logf("\t%s\tShould set a valid new difficulty.", success)

		exp := digest.Hash(blk.TimeStamp, prev.Hash.Bytes(), data, blk.Nonce, blk.Difficulty)
		if blk.Hash != exp || blk.ComputeHash() != exp {
			t.Logf("\t%s\tgot: %s", failed, blk.Hash)
			t.Logf("\t%s\texp: %s", failed, exp)
			t.Fatalf("\t%s\tShould set the hash based on the block fields.", failed)
		}
		t.Logf("\t%s\tShould set the hash based on the block fields.", success)

		if !digest.IsValid(blk.Hash.Bytes(), blk.Difficulty) {
			t.Fatalf("\t%s\tShould produce a hash that satisfies the difficulty.", failed)
		}
		t.Logf("\t%s\tShould produce a hash that satisfies the difficulty.", success)

		if blk.Nonce == 0 {
			t.Fatalf("\t%s\tShould start the nonce search at 1.", failed)
		}
		t.Logf("\t%s\tShould start the nonce search at 1.", success)

		if events < 2 {
			t.Fatalf("\t%s\tShould report mining events, got %d.", failed, events)
		}
		t.Logf("\t%s\tShould report mining events.", success)

		if err := blk.Validate(prev.Hash, prev.Difficulty); err != nil {
			t.Fatalf("\t%s\tShould produce a block that validates: %s", failed, err)
		}
		t.Logf("\t%s\tShould produce a block that validates.", success)

		next := block.Mine(blk, "more data", nil)
		if !block.IsValidBlock(next, blk.Hash, blk.Difficulty) {
			t.Fatalf("\t%s\tShould be able to mine without an event handler.", failed)
		}
		t.Logf("\t%s\tShould be able to mine without an event handler.", success)
	}
}

func Test_AdjustDifficulty(t *testing.T) {
	now := time.Now().UTC()

	type table struct {
		name       string
		difficulty uint
		newTime    time.Time
		exp        uint
	}

	tt := []table{
		{name: "fast", difficulty: 10, newTime: now.Add(block.MineRate - 100*time.Millisecond), exp: 11},
		{name: "slow", difficulty: 10, newTime: now.Add(block.MineRate + 100*time.Millisecond), exp: 9},
		{name: "exact-rate", difficulty: 10, newTime: now.Add(block.MineRate), exp: 9},
		{name: "negative", difficulty: 10, newTime: now.Add(-block.MineRate), exp: 11},
		{name: "same-time", difficulty: 10, newTime: now, exp: 11},
		{name: "lower-limit", difficulty: block.DifficultyMin, newTime: now.Add(block.MineRate + 100*time.Millisecond), exp: block.DifficultyMin},
		{name: "upper-limit", difficulty: block.DifficultyMax, newTime: now.Add(block.MineRate - 100*time.Millisecond), exp: block.DifficultyMax},
		{name: "below-bounds", difficulty: 0, newTime: now, exp: block.DifficultyMin},
		{name: "above-bounds", difficulty: math.MaxUint, newTime: now, exp: block.DifficultyMax},
	}

	t.Log("Given the need to adjust the difficulty based on mining time.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				got := block.AdjustDifficulty(tst.difficulty, now, tst.newTime)
				if got != tst.exp {
					t.Logf("\t%s\tTest %d:\tgot: %d", failed, testID, got)
					t.Logf("\t%s\tTest %d:\texp: %d", failed, testID, tst.exp)
					t.Fatalf("\t%s\tTest %d:\tShould get back the right difficulty.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould get back the right difficulty.", success, testID)
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_IsValidDifficulty(t *testing.T) {
	const (
		lo = block.DifficultyMin
		hi = block.DifficultyMax
	)

	type table struct {
		name  string
		last  uint
		next  uint
		valid bool
	}

	tt := []table{
		{name: "up-by-one", last: 8, next: 9, valid: true},
		{name: "down-by-one", last: 12, next: 11, valid: true},
		{name: "below-min", last: lo, next: lo - 1, valid: false},
		{name: "both-below-min", last: lo - 1, next: lo - 2, valid: false},
		{name: "above-max", last: hi, next: hi + 1, valid: false},
		{name: "equal-inside", last: 12, next: 12, valid: false},
		{name: "equal-below", last: lo - 1, next: lo - 1, valid: false},
		{name: "equal-above", last: hi + 1, next: hi + 1, valid: false},
		{name: "equal-min", last: lo, next: lo, valid: true},
		{name: "equal-max", last: hi, next: hi, valid: true},
		{name: "jump", last: 24, next: 26, valid: false},
		{name: "jump-below", last: 25, next: lo - 1, valid: false},
		{name: "jump-above", last: 25, next: hi + 1, valid: false},
		{name: "both-out", last: lo - 1, next: hi + 1, valid: false},
		{name: "heal-min", last: 0, next: lo, valid: true},
		{name: "heal-max", last: hi + 4, next: hi, valid: true},
		{name: "heal-wrong-bound", last: 0, next: hi, valid: false},
		{name: "heal-wrong-bound-max", last: hi + 1, next: lo, valid: false},
		{name: "heal-inside", last: 0, next: 12, valid: false},
		{name: "jump-to-min", last: 25, next: lo, valid: false},
	}

	t.Log("Given the need to validate a difficulty transition.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				got := block.IsValidDifficulty(tst.last, tst.next)
				if got != tst.valid {
					t.Logf("\t%s\tTest %d:\tlast %d next %d got: %v", failed, testID, tst.last, tst.next, got)
					t.Fatalf("\t%s\tTest %d:\tShould get back the right answer.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould get back the right answer.", success, testID)
			}

			t.Run(tst.name, f)
		}
	}
}

// Test_DifficultySymmetry checks every difficulty AdjustDifficulty can produce
// is accepted by IsValidDifficulty and every other difficulty is rejected.
func Test_DifficultySymmetry(t *testing.T) {
	base := time.Unix(1_000_000, 0)
	deltas := []time.Duration{
		-time.Hour,
		-time.Nanosecond,
		0,
		block.MineRate - time.Nanosecond,
		block.MineRate,
		time.Hour,
	}

	for last := uint(0); last <= block.DifficultyMax+3; last++ {
		reachable := make(map[uint]bool)
		for _, d := range deltas {
			next := block.AdjustDifficulty(last, base, base.Add(d))
			if next < block.DifficultyMin || next > block.DifficultyMax {
				t.Fatalf("last %d delta %v: difficulty %d outside bounds", last, d, next)
			}
			reachable[next] = true
		}

		for next := uint(0); next <= block.DifficultyMax+3; next++ {
			if got := block.IsValidDifficulty(last, next); got != reachable[next] {
				t.Fatalf("last %d next %d: got %v, exp %v", last, next, got, reachable[next])
			}
		}
	}
}

func Test_ValidateBlock(t *testing.T) {
	prev := block.Mine(block.Genesis(), "dummy data 1", nil)
	good := block.Mine(prev, "dummy data 2", nil)

	if err := good.Validate(prev.Hash, prev.Difficulty); err != nil {
		t.Fatalf("Should validate a freshly mined block: %s", err)
	}

	// unsolved produces a block whose hash is consistent with its fields but
	// does not satisfy its difficulty.
	unsolved := func() block.Block {
		b := block.Block{
			TimeStamp:  time.Now().UTC(),
			PrevHash:   prev.Hash,
			Data:       "dummy data 2",
			Difficulty: prev.Difficulty + 1,
		}
		for {
			b.Hash = b.ComputeHash()
			if !digest.IsValid(b.Hash.Bytes(), b.Difficulty) {
				return b
			}
			b.Nonce++
		}
	}

	type table struct {
		name       string
		blk        block.Block
		prevHash   digest.Digest
		difficulty uint
		err        error
	}

	tt := []table{
		{
			name:       "tampered-parent-hash",
			blk:        good,
			prevHash:   digest.Hash(time.Now(), nil, "tampered hash", 0, 0),
			difficulty: prev.Difficulty,
			err:        block.ErrPrevHashMismatch,
		},
		{
			name:       "jumped-parent-difficulty",
			blk:        good,
			prevHash:   prev.Hash,
			difficulty: 20,
			err:        block.ErrInvalidDifficulty,
		},
		{
			name: "tampered-data",
			blk: func() block.Block {
				b := good
				b.Data = "tampered data"
				return b
			}(),
			prevHash:   prev.Hash,
			difficulty: prev.Difficulty,
			err:        block.ErrHashMismatch,
		},
		{
			name:       "unsolved",
			blk:        unsolved(),
			prevHash:   prev.Hash,
			difficulty: prev.Difficulty,
			err:        block.ErrHashNotSolved,
		},
	}

	t.Log("Given the need to reject invalid blocks.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				err := tst.blk.Validate(tst.prevHash, tst.difficulty)
				if !errors.Is(err, tst.err) {
					t.Logf("\t%s\tTest %d:\tgot: %v", failed, testID, err)
					t.Logf("\t%s\tTest %d:\texp: %v", failed, testID, tst.err)
					t.Fatalf("\t%s\tTest %d:\tShould get back the right error.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould get back the right error.", success, testID)

				if block.IsValidBlock(tst.blk, tst.prevHash, tst.difficulty) {
					t.Fatalf("\t%s\tTest %d:\tShould not report the block as valid.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould not report the block as valid.", success, testID)
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_TamperDetection(t *testing.T) {
	prev := block.Mine(block.Genesis(), "parent", nil)
	good := block.Mine(prev, "child", nil)

	tamper := map[string]func(b *block.Block){
		"timestamp":  func(b *block.Block) { b.TimeStamp = b.TimeStamp.Add(time.Nanosecond) },
		"prev_hash":  func(b *block.Block) { b.PrevHash[0] ^= 0x01 },
		"hash":       func(b *block.Block) { b.Hash[digest.Width-1] ^= 0x01 },
		"data":       func(b *block.Block) { b.Data += "!" },
		"nonce":      func(b *block.Block) { b.Nonce++ },
		"difficulty": func(b *block.Block) { b.Difficulty++ },
	}

	for field, fn := range tamper {
		b := good
		fn(&b)

		if block.IsValidBlock(b, prev.Hash, prev.Difficulty) {
			t.Errorf("\t%s\tShould detect a change to the %s field.", failed, field)
			continue
		}
		t.Logf("\t%s\tShould detect a change to the %s field.", success, field)
	}
}
