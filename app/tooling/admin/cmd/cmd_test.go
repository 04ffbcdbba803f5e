package cmd_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardanlabs/powledger/app/tooling/admin/cmd"
	"github.com/pterm/pterm"
	"go.uber.org/zap/zaptest"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// run executes the admin command with the arguments and returns what was
// written to stdout.
func run(t *testing.T, args ...string) (string, error) {
	root := cmd.NewRootCmd("test", zaptest.NewLogger(t).Sugar())

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func Test_Commands(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	for _, kind := range []string{"disk", "leveldb"} {
		f := func(t *testing.T) {
			db := filepath.Join(t.TempDir(), "blocks")

			t.Logf("Given the need to administer %s block storage.", kind)
			{
				testID := 0
				t.Logf("\tTest %d:\tWhen mining blocks.", testID)
				{
					for _, data := range []string{"Raccoons are cool", "Skunks smell bad"} {
						out, err := run(t, "--db", db, "--storage", kind, "mine", "--data", data)
						if err != nil {
							t.Fatalf("\t%s\tTest %d:\tShould be able to mine a block: %s", failed, testID, err)
						}
						if !strings.Contains(out, data) {
							t.Fatalf("\t%s\tTest %d:\tShould print the mined block holding %q:\n%s", failed, testID, data, out)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould be able to mine blocks.", success, testID)
				}

				testID = 1
				t.Logf("\tTest %d:\tWhen listing the blocks.", testID)
				{
					out, err := run(t, "--db", db, "--storage", kind, "list")
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to list the blocks: %s", failed, testID, err)
					}
					for _, exp := range []string{"genesis block", "Raccoons are cool", "Skunks smell bad"} {
						if !strings.Contains(out, exp) {
							t.Fatalf("\t%s\tTest %d:\tShould list the block holding %q:\n%s", failed, testID, exp, out)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould list every block.", success, testID)
				}

				testID = 2
				t.Logf("\tTest %d:\tWhen verifying the chain.", testID)
				{
					out, err := run(t, "--db", db, "--storage", kind, "verify")
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould verify the chain: %s", failed, testID, err)
					}
					if !strings.Contains(out, "chain of 3 blocks is valid") {
						t.Fatalf("\t%s\tTest %d:\tShould report 3 valid blocks:\n%s", failed, testID, out)
					}
					t.Logf("\t%s\tTest %d:\tShould report 3 valid blocks.", success, testID)
				}
			}
		}

		t.Run(kind, f)
	}
}

func Test_DigestCommand(t *testing.T) {
	pterm.DisableStyling()
	defer pterm.EnableStyling()

	t.Log("Given the need to compute a digest from the command line.")
	{
		testID := 0
		out, err := run(t, "digest", "--data", "", "--timestamp", "0")
		if err != nil {
			t.Fatalf("\t%s\tTest %d:\tShould be able to compute the digest: %s", failed, testID, err)
		}

		const exp = "0xf988175e528096e2ce8d7997a6d973f98033f871d17bbe38102a8ae7ce6b5315"
		if !strings.Contains(out, exp) {
			t.Fatalf("\t%s\tTest %d:\tShould print the known digest:\n%s", failed, testID, out)
		}
		t.Logf("\t%s\tTest %d:\tShould print the known digest.", success, testID)
	}
}

func Test_UnknownStorage(t *testing.T) {
	t.Log("Given the need to reject unknown storage kinds.")
	{
		testID := 0
		if _, err := run(t, "--storage", "tape", "list"); err == nil {
			t.Fatalf("\t%s\tTest %d:\tShould fail for an unknown storage kind.", failed, testID)
		}
		t.Logf("\t%s\tTest %d:\tShould fail for an unknown storage kind.", success, testID)
	}
}
