package validate_test

import (
	"testing"

	"github.com/ardanlabs/powledger/business/sys/validate"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Check(t *testing.T) {
	type mineRequest struct {
		Data string `json:"data" validate:"required,max=1024"`
	}

	t.Log("Given the need to validate request models.")
	{
		testID := 0
		if err := validate.Check(mineRequest{Data: "hello"}); err != nil {
			t.Fatalf("\t%s\tTest %d:\tShould accept a valid model: %s", failed, testID, err)
		}
		t.Logf("\t%s\tTest %d:\tShould accept a valid model.", success, testID)

		testID = 1
		err := validate.Check(mineRequest{})
		if !validate.IsFieldErrors(err) {
			t.Fatalf("\t%s\tTest %d:\tShould report field errors: %v", failed, testID, err)
		}
		t.Logf("\t%s\tTest %d:\tShould report field errors.", success, testID)

		fields := validate.GetFieldErrors(err).Fields()
		if _, exists := fields["data"]; !exists {
			t.Fatalf("\t%s\tTest %d:\tShould name the field by its json tag: %v", failed, testID, fields)
		}
		t.Logf("\t%s\tTest %d:\tShould name the field by its json tag.", success, testID)
	}
}
