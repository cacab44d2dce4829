package cli

import (
	"os"
	"testing"

	"github.com/fatih/color"
)

func TestMain(m *testing.M) {
	// Assertions compare plain text.
	color.NoColor = true
	os.Exit(m.Run())
}
